package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// InterfaceResidentService defines the resident service interface.
type InterfaceResidentService interface {
	GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error)
	GetResidentByID(id uint) (*models.Resident, error)
	GetResidentsByCondo(condoID uint) ([]models.Resident, error)
	CreateResident(resident *models.Resident) error
	UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error)
	DeleteResident(id uint) error
}

// ResidentService manages resident accounts.
type ResidentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewResidentService creates a new resident service.
func NewResidentService(db *gorm.DB, cfg *config.Config) InterfaceResidentService {
	return &ResidentService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllResidents returns a page of residents.
func (s *ResidentService) GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64
	if err := s.DB.Model(&models.Resident{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&residents).Error; err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}

// 2 GetResidentByID fetches a resident by id.
func (s *ResidentService) GetResidentByID(id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("resident not found")
		}
		return nil, err
	}
	return &resident, nil
}

// 3 GetResidentsByCondo lists the residents of a condo, for gatehouse
// unit/block lookups.
func (s *ResidentService) GetResidentsByCondo(condoID uint) ([]models.Resident, error) {
	var residents []models.Resident
	if err := s.DB.Where("condo_id = ?", condoID).Order("block, unit").Find(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

// 4 CreateResident creates a resident account tied to an existing condo.
func (s *ResidentService) CreateResident(resident *models.Resident) error {
	var count int64
	if err := s.DB.Model(&models.Resident{}).Where("phone = ?", resident.Phone).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("phone number already in use")
	}

	if resident.CondoID > 0 {
		var condo models.Condo
		if err := s.DB.First(&condo, resident.CondoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownCondo
			}
			return err
		}
	} else {
		return errors.New("a valid condo id is required")
	}

	if resident.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(resident.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		resident.Password = string(hashed)
	}

	return s.DB.Create(resident).Error
}

// 5 UpdateResident applies partial updates.
func (s *ResidentService) UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error) {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return nil, err
	}

	if phone, ok := updates["phone"].(string); ok && phone != resident.Phone {
		var count int64
		if err := s.DB.Model(&models.Resident{}).Where("phone = ? AND id != ?", phone, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("phone number already in use by another resident")
		}
	}

	if condoID, ok := updates["condo_id"].(uint); ok {
		var condo models.Condo
		if err := s.DB.First(&condo, condoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownCondo
			}
			return nil, err
		}
	}

	if password, ok := updates["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}

	if err := s.DB.Model(resident).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetResidentByID(id)
}

// 6 DeleteResident removes a resident account.
func (s *ResidentService) DeleteResident(id uint) error {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(resident).Error
}
