package dto

// UpsertStatusTypeRequest creates or replaces a status type definition.
type UpsertStatusTypeRequest struct {
	Code           string  `json:"code" validate:"required,max=64,catalogcode"`
	Label          string  `json:"label" validate:"required,max=120"`
	Category       string  `json:"category" validate:"required,max=64"`
	RequiresOffice bool    `json:"requiresOffice"`
	Color          *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon           *string `json:"icon,omitempty" validate:"omitempty,max=64"`
}

// UpsertOfficeLocationRequest creates or replaces an office location.
type UpsertOfficeLocationRequest struct {
	Code string `json:"code" validate:"required,max=64,catalogcode"`
	Name string `json:"name" validate:"required,max=160"`
}

// SetActiveRequest toggles a catalog entry.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// CatalogQuery controls whether inactive catalog entries are listed.
type CatalogQuery struct {
	IncludeInactive bool `form:"include_inactive"`
}
