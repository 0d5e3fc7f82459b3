package models

// Admin represents a system administrator account.
type Admin struct {
	BaseModel
	Username string `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(100);not null" json:"-"`
	Role     string `gorm:"type:varchar(30);default:'system_admin'" json:"role"`
	Status   string `gorm:"type:varchar(20);default:'active'" json:"status"`
}
