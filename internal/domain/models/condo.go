package models

import "gorm.io/datatypes"

// Condo represents a condominium in the local registry. PlaceID links the
// record to the external places index when known; the resolver keeps it
// unique across the registry (there is no database constraint for it).
type Condo struct {
	BaseModel
	Name      string   `gorm:"type:varchar(150);not null" json:"name"`
	Address   string   `gorm:"type:varchar(300)" json:"address"`
	PlaceID   *string  `gorm:"type:varchar(150);index" json:"place_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Status    string   `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive

	// Structured address components from the places index details call.
	AddressComponents datatypes.JSON `json:"address_components,omitempty"`

	// Gatehouse login credentials (role "condo").
	Username string `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	Password string `gorm:"type:varchar(100)" json:"-"`

	// Relations
	Residents []Resident `gorm:"foreignKey:CondoID" json:"residents,omitempty"`
}

// IsActive reports whether the condo can be targeted by new requests.
func (c *Condo) IsActive() bool {
	return c.Status == "active"
}

// AddressDetail is the structured shape stored in AddressComponents.
type AddressDetail struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}
