package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// InterfaceJWTService defines the JWT service interface.
type InterfaceJWTService interface {
	GenerateToken(userID uint, role string, condoID *uint) (string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	Login(username, password, role string) (*LoginResult, error)
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	CondoID  *uint  `json:"condo_id,omitempty"`
}

// JWTClaims is the token claim set. CondoID is set for resident and condo
// accounts so handlers can scope queries without a lookup.
type JWTClaims struct {
	UserID  uint   `json:"user_id"`
	Role    string `json:"role"`
	CondoID *uint  `json:"condo_id,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and validates tokens for all four account kinds.
type JWTService struct {
	secretKey string
	issuer    string
	DB        *gorm.DB
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "condy-http-service",
		DB:        db,
	}
}

// GenerateToken generates a signed token valid for 24 hours.
func (s *JWTService) GenerateToken(userID uint, role string, condoID *uint) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &JWTClaims{
		UserID:  userID,
		Role:    role,
		CondoID: condoID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken parses and validates a token string.
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
}

// ExtractClaims parses a token into its typed claims.
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Login checks credentials against the table for the given role and issues
// a token.
func (s *JWTService) Login(username, password, role string) (*LoginResult, error) {
	switch role {
	case RoleAdmin:
		var admin models.Admin
		if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
			return nil, errors.New("account not found")
		}
		if admin.Status != "active" {
			return nil, errors.New("account is inactive")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
			return nil, errors.New("incorrect password")
		}
		token, err := s.GenerateToken(admin.ID, RoleAdmin, nil)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, UserID: admin.ID, Role: RoleAdmin, Username: admin.Username}, nil

	case RoleCondo:
		var condo models.Condo
		if err := s.DB.Where("username = ?", username).First(&condo).Error; err != nil {
			return nil, errors.New("account not found")
		}
		if !condo.IsActive() {
			return nil, errors.New("account is inactive")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(condo.Password), []byte(password)); err != nil {
			return nil, errors.New("incorrect password")
		}
		condoID := condo.ID
		token, err := s.GenerateToken(condo.ID, RoleCondo, &condoID)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, UserID: condo.ID, Role: RoleCondo, Username: condo.Username, Name: condo.Name, CondoID: &condoID}, nil

	case RoleResident:
		var resident models.Resident
		if err := s.DB.Where("username = ?", username).First(&resident).Error; err != nil {
			return nil, errors.New("account not found")
		}
		if resident.Status != "active" {
			return nil, errors.New("account is inactive")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(resident.Password), []byte(password)); err != nil {
			return nil, errors.New("incorrect password")
		}
		condoID := resident.CondoID
		token, err := s.GenerateToken(resident.ID, RoleResident, &condoID)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, UserID: resident.ID, Role: RoleResident, Username: resident.Username, Name: resident.Name, CondoID: &condoID}, nil

	case RoleDriver:
		var driver models.Driver
		if err := s.DB.Where("username = ?", username).First(&driver).Error; err != nil {
			return nil, errors.New("account not found")
		}
		if driver.Status != "active" {
			return nil, errors.New("account is inactive")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(driver.Password), []byte(password)); err != nil {
			return nil, errors.New("incorrect password")
		}
		token, err := s.GenerateToken(driver.ID, RoleDriver, nil)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, UserID: driver.ID, Role: RoleDriver, Username: driver.Username, Name: driver.Name}, nil
	}

	return nil, fmt.Errorf("unknown role %q", role)
}
