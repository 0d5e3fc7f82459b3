package models

// Driver represents a driver or delivery courier account. Vehicle fields are
// copied onto requests at creation time as a display snapshot.
type Driver struct {
	BaseModel
	Name         string      `gorm:"type:varchar(100);not null" json:"name"`
	Phone        string      `gorm:"type:varchar(20);uniqueIndex" json:"phone"`
	Email        string      `gorm:"type:varchar(100)" json:"email"`
	Username     string      `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	Password     string      `gorm:"type:varchar(100)" json:"-"`
	VehiclePlate string      `gorm:"type:varchar(20)" json:"vehicle_plate"`
	VehicleModel string      `gorm:"type:varchar(100)" json:"vehicle_model"`
	Type         RequestType `gorm:"type:varchar(20);default:'driver'" json:"type"`
	Status       string      `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive
}
