package services

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"condy-http-service/internal/domain/models"
)

func newJWTFixture(t *testing.T) *JWTService {
	t.Helper()
	db := setupTestDB(t)
	return NewJWTService(testConfig(), db).(*JWTService)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(hashed)
}

func TestGenerateAndExtractClaims(t *testing.T) {
	svc := newJWTFixture(t)

	condoID := uint(7)
	token, err := svc.GenerateToken(42, RoleResident, &condoID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("ExtractClaims failed: %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleResident {
		t.Errorf("claims = %+v", claims)
	}
	if claims.CondoID == nil || *claims.CondoID != condoID {
		t.Errorf("condo id claim = %v, want %d", claims.CondoID, condoID)
	}

	// A token signed with another secret must not validate.
	other := &JWTService{secretKey: "other-secret", issuer: "condy-http-service", DB: svc.DB}
	foreign, err := other.GenerateToken(1, RoleAdmin, nil)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := svc.ExtractClaims(foreign); err == nil {
		t.Error("expected validation failure for foreign token")
	}
}

func TestLoginPerRole(t *testing.T) {
	svc := newJWTFixture(t)
	password := "s3cret"
	hashed := hashPassword(t, password)

	condo := &models.Condo{Name: "Vila Verde", Status: "active", Username: "vila_gate", Password: hashed}
	if err := svc.DB.Create(condo).Error; err != nil {
		t.Fatalf("seed condo failed: %v", err)
	}
	admin := &models.Admin{Username: "root", Password: hashed, Status: "active"}
	if err := svc.DB.Create(admin).Error; err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}
	resident := &models.Resident{Name: "Ana", Phone: "5511990000001", Username: "ana", Password: hashed, CondoID: condo.ID, Status: "active"}
	if err := svc.DB.Create(resident).Error; err != nil {
		t.Fatalf("seed resident failed: %v", err)
	}
	driver := &models.Driver{Name: "Carlos", Phone: "5511990000002", Username: "carlos", Password: hashed, Status: "active"}
	if err := svc.DB.Create(driver).Error; err != nil {
		t.Fatalf("seed driver failed: %v", err)
	}

	cases := []struct {
		role      string
		username  string
		wantCondo bool
	}{
		{RoleAdmin, "root", false},
		{RoleCondo, "vila_gate", true},
		{RoleResident, "ana", true},
		{RoleDriver, "carlos", false},
	}
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			result, err := svc.Login(tc.username, password, tc.role)
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if result.Role != tc.role || result.Token == "" {
				t.Errorf("login result = %+v", result)
			}
			if (result.CondoID != nil) != tc.wantCondo {
				t.Errorf("condo id presence = %v, want %v", result.CondoID != nil, tc.wantCondo)
			}

			claims, err := svc.ExtractClaims(result.Token)
			if err != nil {
				t.Fatalf("issued token does not validate: %v", err)
			}
			if claims.Role != tc.role {
				t.Errorf("token role = %s, want %s", claims.Role, tc.role)
			}
		})
	}
}

func TestLoginRejections(t *testing.T) {
	svc := newJWTFixture(t)
	hashed := hashPassword(t, "s3cret")

	driver := &models.Driver{Name: "Carlos", Phone: "5511990000002", Username: "carlos", Password: hashed, Status: "inactive"}
	if err := svc.DB.Create(driver).Error; err != nil {
		t.Fatalf("seed driver failed: %v", err)
	}
	admin := &models.Admin{Username: "root", Password: hashed, Status: "active"}
	if err := svc.DB.Create(admin).Error; err != nil {
		t.Fatalf("seed admin failed: %v", err)
	}

	if _, err := svc.Login("root", "wrong", RoleAdmin); err == nil {
		t.Error("expected failure for wrong password")
	}
	if _, err := svc.Login("ghost", "s3cret", RoleAdmin); err == nil {
		t.Error("expected failure for unknown account")
	}
	if _, err := svc.Login("carlos", "s3cret", RoleDriver); err == nil {
		t.Error("expected failure for inactive account")
	}
	if _, err := svc.Login("root", "s3cret", "visitor"); err == nil {
		t.Error("expected failure for unknown role")
	}
}
