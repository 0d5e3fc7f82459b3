package models

// Resident represents a condo resident account.
type Resident struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Phone    string `gorm:"type:varchar(20);uniqueIndex" json:"phone"`
	Email    string `gorm:"type:varchar(100)" json:"email"`
	Username string `gorm:"type:varchar(50);uniqueIndex" json:"username"`
	Password string `gorm:"type:varchar(100)" json:"-"`
	CondoID  uint   `gorm:"not null;index" json:"condo_id"`
	Unit     string `gorm:"type:varchar(20)" json:"unit"`
	Block    string `gorm:"type:varchar(20)" json:"block"`
	Status   string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive

	// Relations
	Condo *Condo `gorm:"foreignKey:CondoID" json:"condo,omitempty"`
}
