package models

// RequestStatus represents the workflow state of an access request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAuthorized RequestStatus = "authorized"
	StatusDenied     RequestStatus = "denied"
	StatusArrived    RequestStatus = "arrived"
	StatusEntered    RequestStatus = "entered"
	StatusCompleted  RequestStatus = "completed"
)

// statusGraph is the only legal set of status edges. Every caller goes
// through CanTransition instead of comparing status strings inline.
var statusGraph = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAuthorized, StatusDenied},
	StatusAuthorized: {StatusArrived, StatusDenied},
	StatusArrived:    {StatusEntered, StatusDenied},
	StatusEntered:    {StatusCompleted},
	StatusDenied:     {},
	StatusCompleted:  {},
}

// IsValid checks if a status is recognized.
func (s RequestStatus) IsValid() bool {
	_, ok := statusGraph[s]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return s.IsValid() && len(statusGraph[s]) == 0
}

// CanTransition reports whether from -> to is a legal status edge.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range statusGraph[s] {
		if next == to {
			return true
		}
	}
	return false
}

// RequestType distinguishes private drivers from delivery couriers.
type RequestType string

const (
	RequestTypeDriver   RequestType = "driver"
	RequestTypeDelivery RequestType = "delivery"
)

// IsValid checks if a request type is recognized.
func (t RequestType) IsValid() bool {
	return t == RequestTypeDriver || t == RequestTypeDelivery
}

// AccessRequest represents a driver/courier entry request targeting a condo.
// ResidentID is set on resident-originated requests; driver-originated
// requests carry Unit/Block instead, since no resident may be known yet.
// DriverName/VehiclePlate/VehicleModel are denormalized at creation time so
// the gatehouse can display the request without a join.
type AccessRequest struct {
	BaseModel
	CondoID    uint          `gorm:"not null;index" json:"condo_id"`
	ResidentID *uint         `gorm:"index" json:"resident_id"`
	DriverID   *uint         `gorm:"index" json:"driver_id"`
	Status     RequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Type       RequestType   `gorm:"type:varchar(20);not null" json:"type"`
	Unit       string        `gorm:"type:varchar(20)" json:"unit"`
	Block      string        `gorm:"type:varchar(20)" json:"block"`
	Comment    string        `gorm:"type:varchar(500)" json:"comment"`

	// Driver snapshot at request time
	DriverName   string `gorm:"type:varchar(100)" json:"driver_name"`
	VehiclePlate string `gorm:"type:varchar(20)" json:"vehicle_plate"`
	VehicleModel string `gorm:"type:varchar(100)" json:"vehicle_model"`

	UpdatedBy uint `json:"updated_by"`

	// Relations
	Condo    *Condo    `gorm:"foreignKey:CondoID" json:"condo,omitempty"`
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	Driver   *Driver   `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}
