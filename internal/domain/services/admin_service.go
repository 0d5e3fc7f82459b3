package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// InterfaceAdminService defines the admin service interface.
type InterfaceAdminService interface {
	GetAllAdmins(page int, pageSize int) ([]models.Admin, int64, error)
	GetAdminByID(id uint) (*models.Admin, error)
	CreateAdmin(admin *models.Admin) error
	UpdateAdmin(id uint, updates map[string]interface{}) (*models.Admin, error)
	DeleteAdmin(id uint) error
}

// AdminService manages administrator accounts.
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService creates a new admin service.
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllAdmins returns a page of administrators.
func (s *AdminService) GetAllAdmins(page int, pageSize int) ([]models.Admin, int64, error) {
	var admins []models.Admin
	var total int64
	if err := s.DB.Model(&models.Admin{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&admins).Error; err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

// 2 GetAdminByID fetches an administrator by id.
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("admin not found")
		}
		return nil, err
	}
	return &admin, nil
}

// 3 CreateAdmin creates an administrator account.
func (s *AdminService) CreateAdmin(admin *models.Admin) error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("username already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin.Password = string(hashed)

	return s.DB.Create(admin).Error
}

// 4 UpdateAdmin applies partial updates.
func (s *AdminService) UpdateAdmin(id uint, updates map[string]interface{}) (*models.Admin, error) {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	if password, ok := updates["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hashed)
	}

	if err := s.DB.Model(admin).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetAdminByID(id)
}

// 5 DeleteAdmin removes an administrator account.
func (s *AdminService) DeleteAdmin(id uint) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(admin).Error
}
