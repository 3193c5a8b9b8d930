package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
)

type clockPayload struct {
	From  string  `json:"from" validate:"required,hhmm"`
	Date  string  `json:"date" validate:"required,datetime=2006-01-02"`
	Code  string  `json:"code" validate:"omitempty,catalogcode"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=5"`
}

type nestedPayload struct {
	Items []clockPayload `json:"items" validate:"required,min=1,dive"`
}

func TestStructReportsJSONFieldPaths(t *testing.T) {
	v := MustNew()

	err := v.Struct(nestedPayload{Items: []clockPayload{
		{From: "09:00", Date: "2025-01-20"},
		{From: "25:00", Date: "2025/01/20"},
	}})
	require.Error(t, err)

	fields := appErrors.FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "items[1].from", fields[0].Field)
	assert.Contains(t, fields[0].Message, "HH:mm")
	assert.Equal(t, "items[1].date", fields[1].Field)
	assert.Contains(t, fields[1].Message, "YYYY-MM-DD")
}

func TestStructAcceptsValidPayload(t *testing.T) {
	v := MustNew()
	assert.NoError(t, v.Struct(clockPayload{From: "23:59", Date: "2025-12-31", Code: "REMOTE_US"}))
}

func TestStructCatalogCode(t *testing.T) {
	v := MustNew()
	err := v.Struct(clockPayload{From: "08:00", Date: "2025-01-01", Code: "bad code"})
	require.Error(t, err)
	fields := appErrors.FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "code", fields[0].Field)
}

func TestStructEmptySliceRejected(t *testing.T) {
	v := MustNew()
	err := v.Struct(nestedPayload{})
	require.Error(t, err)
	fields := appErrors.FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "items", fields[0].Field)
}
