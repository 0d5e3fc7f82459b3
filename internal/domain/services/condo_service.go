package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// InterfaceCondoService defines the condo registry service interface.
type InterfaceCondoService interface {
	GetAllCondos(page int, pageSize int) ([]models.Condo, int64, error)
	GetCondoByID(id uint) (*models.Condo, error)
	CreateCondo(condo *models.Condo) error
	UpdateCondo(id uint, updates map[string]interface{}) (*models.Condo, error)
	DeleteCondo(id uint) error
}

// CondoService manages the local condo registry.
type CondoService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCondoService creates a new condo service.
func NewCondoService(db *gorm.DB, cfg *config.Config) InterfaceCondoService {
	return &CondoService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllCondos returns a page of condos.
func (s *CondoService) GetAllCondos(page int, pageSize int) ([]models.Condo, int64, error) {
	var condos []models.Condo
	var total int64
	if err := s.DB.Model(&models.Condo{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&condos).Error; err != nil {
		return nil, 0, err
	}
	return condos, total, nil
}

// 2 GetCondoByID fetches a condo by id.
func (s *CondoService) GetCondoByID(id uint) (*models.Condo, error) {
	var condo models.Condo
	if err := s.DB.First(&condo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCondo
		}
		return nil, err
	}
	return &condo, nil
}

// 3 CreateCondo registers a new condo. A non-null place id must be unique
// across the registry; this is the invariant the resolver's dedup relies
// on, and it is enforced here rather than by a database constraint.
func (s *CondoService) CreateCondo(condo *models.Condo) error {
	if condo.PlaceID != nil && *condo.PlaceID != "" {
		var count int64
		if err := s.DB.Model(&models.Condo{}).Where("place_id = ?", *condo.PlaceID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("a condo with this place id is already registered")
		}
	}

	if condo.Username != "" {
		var count int64
		if err := s.DB.Model(&models.Condo{}).Where("username = ?", condo.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errors.New("gatehouse username already in use")
		}
	}

	if condo.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(condo.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		condo.Password = string(hashed)
	}

	return s.DB.Create(condo).Error
}

// 4 UpdateCondo applies partial updates.
func (s *CondoService) UpdateCondo(id uint, updates map[string]interface{}) (*models.Condo, error) {
	condo, err := s.GetCondoByID(id)
	if err != nil {
		return nil, err
	}

	if placeID, ok := updates["place_id"].(string); ok && placeID != "" {
		var count int64
		if err := s.DB.Model(&models.Condo{}).Where("place_id = ? AND id != ?", placeID, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, errors.New("a condo with this place id is already registered")
		}
	}

	if password, ok := updates["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}

	if err := s.DB.Model(condo).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetCondoByID(id)
}

// 5 DeleteCondo removes a condo from the registry. Administrative action;
// the workflow itself never deletes anything.
func (s *CondoService) DeleteCondo(id uint) error {
	condo, err := s.GetCondoByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(condo).Error
}
