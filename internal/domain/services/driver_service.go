package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// InterfaceDriverService defines the driver service interface.
type InterfaceDriverService interface {
	GetAllDrivers(page int, pageSize int) ([]models.Driver, int64, error)
	GetDriverByID(id uint) (*models.Driver, error)
	CreateDriver(driver *models.Driver) error
	UpdateDriver(id uint, updates map[string]interface{}) (*models.Driver, error)
	DeleteDriver(id uint) error
}

// DriverService manages driver and courier accounts.
type DriverService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDriverService creates a new driver service.
func NewDriverService(db *gorm.DB, cfg *config.Config) InterfaceDriverService {
	return &DriverService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllDrivers returns a page of drivers.
func (s *DriverService) GetAllDrivers(page int, pageSize int) ([]models.Driver, int64, error) {
	var drivers []models.Driver
	var total int64
	if err := s.DB.Model(&models.Driver{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&drivers).Error; err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

// 2 GetDriverByID fetches a driver by id.
func (s *DriverService) GetDriverByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := s.DB.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("driver not found")
		}
		return nil, err
	}
	return &driver, nil
}

// 3 CreateDriver creates a driver account.
func (s *DriverService) CreateDriver(driver *models.Driver) error {
	var count int64
	if err := s.DB.Model(&models.Driver{}).Where("phone = ?", driver.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("phone number already in use")
	}

	if !driver.Type.IsValid() {
		driver.Type = models.RequestTypeDriver
	}

	if driver.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(driver.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		driver.Password = string(hashed)
	}

	return s.DB.Create(driver).Error
}

// 4 UpdateDriver applies partial updates.
func (s *DriverService) UpdateDriver(id uint, updates map[string]interface{}) (*models.Driver, error) {
	driver, err := s.GetDriverByID(id)
	if err != nil {
		return nil, err
	}

	if phone, ok := updates["phone"].(string); ok && phone != driver.Phone {
		var count int64
		if err := s.DB.Model(&models.Driver{}).Where("phone = ? AND id != ?", phone, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("phone number already in use by another driver")
		}
	}

	if password, ok := updates["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}

	if err := s.DB.Model(driver).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetDriverByID(id)
}

// 5 DeleteDriver removes a driver account.
func (s *DriverService) DeleteDriver(id uint) error {
	driver, err := s.GetDriverByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(driver).Error
}
