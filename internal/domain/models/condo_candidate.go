package models

// CondoCandidate is an ephemeral search result from the condo resolver.
// It is never persisted. A candidate with InLocalRegistry=false exists only
// in the external places index and must not be used as the target of an
// access request until it is registered.
type CondoCandidate struct {
	ID              uint           `json:"id,omitempty"`
	Name            string         `json:"name"`
	Address         string         `json:"address"`
	PlaceID         string         `json:"place_id,omitempty"`
	Latitude        *float64       `json:"latitude,omitempty"`
	Longitude       *float64       `json:"longitude,omitempty"`
	Status          string         `json:"status,omitempty"`
	AddressDetail   *AddressDetail `json:"address_detail,omitempty"`
	FromExternal    bool           `json:"from_external"`
	InLocalRegistry bool           `json:"in_local_registry"`
	DistanceKm      *float64       `json:"distance_km,omitempty"`
	IsRecentForUser bool           `json:"is_recent_for_user"`
}
