package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"condy-http-service/internal/domain/models"
)

func newCondoFixture(t *testing.T) *CondoService {
	t.Helper()
	db := setupTestDB(t)
	return NewCondoService(db, testConfig()).(*CondoService)
}

func TestCreateCondoPlaceIDUniqueness(t *testing.T) {
	svc := newCondoFixture(t)

	placeID := "ChIJN1t_tDeuEmsRUsoyG83frY4"
	first := &models.Condo{Name: "Vila Verde", Status: "active", PlaceID: strPtr(placeID), Username: "vila_gate"}
	if err := svc.CreateCondo(first); err != nil {
		t.Fatalf("CreateCondo failed: %v", err)
	}

	dup := &models.Condo{Name: "Vila Verde Clone", Status: "active", PlaceID: strPtr(placeID), Username: "clone_gate"}
	if err := svc.CreateCondo(dup); err == nil {
		t.Error("expected rejection of duplicate place id")
	}

	// Condos without an external id are unconstrained.
	for _, name := range []string{"Local A", "Local B"} {
		c := &models.Condo{Name: name, Status: "active", Username: name}
		if err := svc.CreateCondo(c); err != nil {
			t.Fatalf("CreateCondo(%s) failed: %v", name, err)
		}
	}

	// Updating another condo to a taken place id is rejected too.
	other := &models.Condo{Name: "Outro", Status: "active", Username: "outro_gate"}
	if err := svc.CreateCondo(other); err != nil {
		t.Fatalf("CreateCondo failed: %v", err)
	}
	if _, err := svc.UpdateCondo(other.ID, map[string]interface{}{"place_id": placeID}); err == nil {
		t.Error("expected rejection of update to duplicate place id")
	}
}

func TestCreateCondoHashesPassword(t *testing.T) {
	svc := newCondoFixture(t)

	condo := &models.Condo{Name: "Vila Verde", Status: "active", Username: "vila_gate", Password: "plaintext"}
	if err := svc.CreateCondo(condo); err != nil {
		t.Fatalf("CreateCondo failed: %v", err)
	}

	stored, err := svc.GetCondoByID(condo.ID)
	if err != nil {
		t.Fatalf("GetCondoByID failed: %v", err)
	}
	if stored.Password == "plaintext" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("plaintext")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestGetCondoByIDNotFound(t *testing.T) {
	svc := newCondoFixture(t)
	if _, err := svc.GetCondoByID(12345); !errors.Is(err, ErrUnknownCondo) {
		t.Errorf("expected ErrUnknownCondo, got %v", err)
	}
}

func TestGetAllCondosPagination(t *testing.T) {
	svc := newCondoFixture(t)

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if err := svc.CreateCondo(&models.Condo{Name: name, Status: "active", Username: "gate_" + name}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	page, total, err := svc.GetAllCondos(2, 2)
	if err != nil {
		t.Fatalf("GetAllCondos failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
}
