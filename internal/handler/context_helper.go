package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/helpdesk-presence-api/internal/middleware"
	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
	"github.com/noah-isme/helpdesk-presence-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requireUserID writes a 401 and returns "" when no authenticated user is present.
func requireUserID(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return ""
	}
	return claims.UserID
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
