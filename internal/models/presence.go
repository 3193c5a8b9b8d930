package models

import "time"

// StatusType is a catalog entry describing a kind of availability.
type StatusType struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"code" json:"code"`
	Label          string    `db:"label" json:"label"`
	Category       string    `db:"category" json:"category"`
	RequiresOffice bool      `db:"requires_office" json:"requires_office"`
	Color          *string   `db:"color" json:"color,omitempty"`
	Icon           *string   `db:"icon" json:"icon,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// OfficeLocation is a catalog entry describing a physical site.
type OfficeLocation struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PresenceSegment is one contiguous block of a user's declared availability.
// StartAt/EndAt are UTC and always fall within a single local day.
type PresenceSegment struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	StatusID         string    `db:"status_id" json:"status_id"`
	OfficeLocationID *string   `db:"office_location_id" json:"office_location_id,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	StartAt          time.Time `db:"start_at" json:"start_at"`
	EndAt            time.Time `db:"end_at" json:"end_at"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// PresenceSegmentDetail is a segment joined with its status and office labels.
type PresenceSegmentDetail struct {
	PresenceSegment
	StatusCode           string  `db:"status_code" json:"status_code"`
	StatusLabel          string  `db:"status_label" json:"status_label"`
	StatusColor          *string `db:"status_color" json:"status_color,omitempty"`
	StatusIcon           *string `db:"status_icon" json:"status_icon,omitempty"`
	StatusRequiresOffice bool    `db:"status_requires_office" json:"status_requires_office"`
	OfficeCode           *string `db:"office_code" json:"office_code,omitempty"`
	OfficeName           *string `db:"office_name" json:"office_name,omitempty"`
}

// Catalog is an immutable snapshot of the active status and office catalogs.
type Catalog struct {
	Statuses  []StatusType
	Offices   []OfficeLocation
	FetchedAt time.Time

	statusByCode map[string]int
	officeByCode map[string]int
}

// NewCatalog indexes the provided lists by code. Inactive entries are skipped.
func NewCatalog(statuses []StatusType, offices []OfficeLocation, fetchedAt time.Time) *Catalog {
	c := &Catalog{
		Statuses:     make([]StatusType, 0, len(statuses)),
		Offices:      make([]OfficeLocation, 0, len(offices)),
		FetchedAt:    fetchedAt,
		statusByCode: make(map[string]int, len(statuses)),
		officeByCode: make(map[string]int, len(offices)),
	}
	for _, st := range statuses {
		if !st.IsActive {
			continue
		}
		c.statusByCode[st.Code] = len(c.Statuses)
		c.Statuses = append(c.Statuses, st)
	}
	for _, office := range offices {
		if !office.IsActive {
			continue
		}
		c.officeByCode[office.Code] = len(c.Offices)
		c.Offices = append(c.Offices, office)
	}
	return c
}

// Status looks up an active status by code.
func (c *Catalog) Status(code string) (*StatusType, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.statusByCode[code]
	if !ok {
		return nil, false
	}
	st := c.Statuses[idx]
	return &st, true
}

// Office looks up an active office by code.
func (c *Catalog) Office(code string) (*OfficeLocation, bool) {
	if c == nil {
		return nil, false
	}
	idx, ok := c.officeByCode[code]
	if !ok {
		return nil, false
	}
	office := c.Offices[idx]
	return &office, true
}
