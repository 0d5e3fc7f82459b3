package services

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"condy-http-service/internal/domain/models"
)

func newWorkflowFixture(t *testing.T) (*AccessRequestService, *stubNotificationService, *stubRedisService) {
	t.Helper()
	db := setupTestDB(t)
	notification := &stubNotificationService{}
	redis := newStubRedisService()
	svc := NewAccessRequestService(db, testConfig(), notification, redis).(*AccessRequestService)
	return svc, notification, redis
}

func TestCreateResidentOriginated(t *testing.T) {
	svc, notification, _ := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")
	driver := seedDriver(t, svc.DB, "Carlos", "5511990000002", "ABC1D23", "Fiat Argo")

	request, err := svc.Create(CreateRequestInput{
		CondoID:    condo.ID,
		ResidentID: uintPtr(resident.ID),
		DriverID:   uintPtr(driver.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if request.Status != models.StatusPending {
		t.Errorf("new request status = %s, want pending", request.Status)
	}
	if request.Unit != "72" || request.Block != "B" {
		t.Errorf("unit/block not defaulted from resident: got %q/%q", request.Unit, request.Block)
	}
	if request.DriverName != "Carlos" || request.VehiclePlate != "ABC1D23" || request.VehicleModel != "Fiat Argo" {
		t.Errorf("driver snapshot not copied: %+v", request)
	}

	// Gatehouse and resident are notified on create.
	if len(notification.Calls) != 2 {
		t.Fatalf("notification calls = %d, want 2", len(notification.Calls))
	}
	if notification.Calls[0].Target.Role != RoleCondo || notification.Calls[0].Target.ID != condo.ID {
		t.Errorf("first notification should target the gatehouse, got %+v", notification.Calls[0].Target)
	}
}

func TestCreateDriverOriginated(t *testing.T) {
	svc, _, redis := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	driver := seedDriver(t, svc.DB, "Carlos", "5511990000002", "ABC1D23", "Fiat Argo")

	request, err := svc.Create(CreateRequestInput{
		CondoID:  condo.ID,
		DriverID: uintPtr(driver.ID),
		Type:     models.RequestTypeDelivery,
		Unit:     "15",
		Block:    "C",
	}, RoleDriver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if request.ResidentID != nil {
		t.Error("driver-originated request should have no resident")
	}

	// The target condo lands in the driver's recent list.
	recent, _ := redis.GetRecentCondoIDs(driver.ID)
	if len(recent) != 1 || recent[0] != condo.ID {
		t.Errorf("recent condos = %v, want [%d]", recent, condo.ID)
	}

	// Without a full unit/block address or a resident there is no way to
	// route the request.
	for _, input := range []CreateRequestInput{
		{CondoID: condo.ID, DriverID: uintPtr(driver.ID), Type: models.RequestTypeDelivery},
		{CondoID: condo.ID, DriverID: uintPtr(driver.ID), Type: models.RequestTypeDelivery, Unit: "15"},
		{CondoID: condo.ID, DriverID: uintPtr(driver.ID), Type: models.RequestTypeDelivery, Block: "C"},
	} {
		if _, err := svc.Create(input, RoleDriver); !errors.Is(err, ErrMissingOrigin) {
			t.Errorf("unit=%q block=%q: expected ErrMissingOrigin, got %v", input.Unit, input.Block, err)
		}
	}
}

func TestCreateUnknownCondo(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	inactive := seedCondo(t, svc.DB, "Desativado", "Rua B 5", "inactive", nil, nil, nil)
	resident := seedResident(t, svc.DB, inactive.ID, "Ana", "5511990000001", "72", "B")

	_, err := svc.Create(CreateRequestInput{
		CondoID:    9999,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if !errors.Is(err, ErrUnknownCondo) {
		t.Errorf("missing condo: expected ErrUnknownCondo, got %v", err)
	}

	_, err = svc.Create(CreateRequestInput{
		CondoID:    inactive.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if !errors.Is(err, ErrUnknownCondo) {
		t.Errorf("inactive condo: expected ErrUnknownCondo, got %v", err)
	}
}

func TestCreateResidentValidation(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	condoA := seedCondo(t, svc.DB, "Condo A", "Rua A 1", "active", nil, nil, nil)
	condoB := seedCondo(t, svc.DB, "Condo B", "Rua B 2", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condoB.ID, "Ana", "5511990000001", "72", "B")

	// Missing resident on a resident-originated request.
	_, err := svc.Create(CreateRequestInput{
		CondoID: condoA.ID,
		Type:    models.RequestTypeDriver,
	}, RoleResident)
	if !errors.Is(err, ErrMissingOrigin) {
		t.Errorf("expected ErrMissingOrigin, got %v", err)
	}

	// Resident belongs to a different condo.
	_, err = svc.Create(CreateRequestInput{
		CondoID:    condoA.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if err == nil {
		t.Error("expected error for resident of another condo")
	}

	// Unrecognized role.
	_, err = svc.Create(CreateRequestInput{
		CondoID:    condoA.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, "visitor")
	if !errors.Is(err, ErrRoleNotAllowed) {
		t.Errorf("expected ErrRoleNotAllowed, got %v", err)
	}

	// Unrecognized request type.
	_, err = svc.Create(CreateRequestInput{
		CondoID:    condoA.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       "taxi",
	}, RoleResident)
	if err == nil {
		t.Error("expected error for invalid request type")
	}
}

func TestCreateSurvivesNotificationFailure(t *testing.T) {
	svc, notification, _ := newWorkflowFixture(t)
	notification.Fail = true

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")

	request, err := svc.Create(CreateRequestInput{
		CondoID:    condo.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if err != nil {
		t.Fatalf("Create must not fail on notification failure: %v", err)
	}

	stored, err := svc.GetByID(request.ID)
	if err != nil {
		t.Fatalf("request was not stored: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Errorf("stored status = %s, want pending", stored.Status)
	}
}

func TestUpdateStatusFullWalk(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")

	request, err := svc.Create(CreateRequestInput{
		CondoID:    condo.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	walk := []models.RequestStatus{
		models.StatusAuthorized,
		models.StatusArrived,
		models.StatusEntered,
		models.StatusCompleted,
	}
	for _, next := range walk {
		updated, err := svc.UpdateStatus(request.ID, next, resident.ID, "")
		if err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("status after transition = %s, want %s", updated.Status, next)
		}
	}

	// Completed is terminal.
	_, err = svc.UpdateStatus(request.ID, models.StatusDenied, resident.ID, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition from terminal state, got %v", err)
	}
}

func TestUpdateStatusIllegalJump(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")

	request, err := svc.Create(CreateRequestInput{
		CondoID:    condo.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.UpdateStatus(request.ID, models.StatusEntered, resident.ID, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// The stored record must be untouched by the rejected transition.
	stored, err := svc.GetByID(request.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Errorf("stored status = %s, want pending", stored.Status)
	}

	// Unknown statuses are rejected the same way.
	_, err = svc.UpdateStatus(request.ID, "approved", resident.ID, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for unknown status, got %v", err)
	}

	_, err = svc.UpdateStatus(9999, models.StatusAuthorized, resident.ID, "")
	if !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestUpdateStatusIdempotent(t *testing.T) {
	svc, notification, _ := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")

	request, err := svc.Create(CreateRequestInput{
		CondoID:    condo.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
	}, RoleResident)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(request.ID, models.StatusAuthorized, condo.ID, ""); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	callsAfterFirst := len(notification.Calls)

	// A duplicate tap re-applies the current status: no error, no second
	// notification.
	updated, err := svc.UpdateStatus(request.ID, models.StatusAuthorized, condo.ID, "")
	if err != nil {
		t.Fatalf("re-applying current status must not error: %v", err)
	}
	if updated.Status != models.StatusAuthorized {
		t.Errorf("status = %s, want authorized", updated.Status)
	}
	if len(notification.Calls) != callsAfterFirst {
		t.Errorf("duplicate tap dispatched %d extra notifications", len(notification.Calls)-callsAfterFirst)
	}
}

func TestUpdateStatusAppendsComment(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")

	request, err := svc.Create(CreateRequestInput{
		CondoID:    condo.ID,
		ResidentID: uintPtr(resident.ID),
		Type:       models.RequestTypeDriver,
		Comment:    "expected around 18h",
	}, RoleResident)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(request.ID, models.StatusDenied, condo.ID, "no visitors today")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Comment != "expected around 18h\nno visitors today" {
		t.Errorf("comment = %q, want both lines", updated.Comment)
	}
	if updated.UpdatedBy != condo.ID {
		t.Errorf("updated_by = %d, want %d", updated.UpdatedBy, condo.ID)
	}
}

func TestListForScoping(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	rng := rand.New(rand.NewSource(1))

	var condos []*models.Condo
	var residents []*models.Resident
	residentsByCondo := make(map[uint][]*models.Resident)
	for i := 0; i < 3; i++ {
		condo := seedCondo(t, svc.DB, fmt.Sprintf("Condo %d", i+1), fmt.Sprintf("Rua %d", i+1), "active", nil, nil, nil)
		condos = append(condos, condo)
		for j := 0; j < 2; j++ {
			resident := seedResident(t, svc.DB, condo.ID,
				fmt.Sprintf("Resident %d-%d", i+1, j+1),
				fmt.Sprintf("5511%08d", i*10+j),
				fmt.Sprintf("%d%d", i+1, j+1), "A")
			residents = append(residents, resident)
			residentsByCondo[condo.ID] = append(residentsByCondo[condo.ID], resident)
		}
	}
	var drivers []*models.Driver
	for i := 0; i < 5; i++ {
		drivers = append(drivers, seedDriver(t, svc.DB,
			fmt.Sprintf("Driver %d", i+1),
			fmt.Sprintf("5521%08d", i),
			fmt.Sprintf("ABC%dD2%d", i, i), "Fiat Argo"))
	}

	const total = 100
	perResident := make(map[uint]int)
	perDriver := make(map[uint]int)
	perCondo := make(map[uint]int)
	for n := 0; n < total; n++ {
		condo := condos[rng.Intn(len(condos))]
		input := CreateRequestInput{
			CondoID: condo.ID,
			Type:    models.RequestTypeDriver,
		}
		role := RoleDriver
		if rng.Intn(2) == 0 {
			own := residentsByCondo[condo.ID]
			input.ResidentID = uintPtr(own[rng.Intn(len(own))].ID)
			role = RoleResident
		} else {
			input.Unit = "10"
			input.Block = "A"
		}
		if role == RoleDriver || rng.Intn(2) == 0 {
			input.DriverID = uintPtr(drivers[rng.Intn(len(drivers))].ID)
		}

		request, err := svc.Create(input, role)
		if err != nil {
			t.Fatalf("seed request %d failed: %v", n, err)
		}
		perCondo[request.CondoID]++
		if request.ResidentID != nil {
			perResident[*request.ResidentID]++
		}
		if request.DriverID != nil {
			perDriver[*request.DriverID]++
		}
	}

	for _, resident := range residents {
		requests, err := svc.ListFor(resident.ID, RoleResident, nil)
		if err != nil {
			t.Fatalf("ListFor resident %d failed: %v", resident.ID, err)
		}
		if len(requests) != perResident[resident.ID] {
			t.Errorf("resident %d sees %d requests, want %d", resident.ID, len(requests), perResident[resident.ID])
		}
		for _, r := range requests {
			if r.ResidentID == nil || *r.ResidentID != resident.ID {
				t.Errorf("request %d leaked to resident %d", r.ID, resident.ID)
			}
		}
	}

	for _, driver := range drivers {
		requests, err := svc.ListFor(driver.ID, RoleDriver, nil)
		if err != nil {
			t.Fatalf("ListFor driver %d failed: %v", driver.ID, err)
		}
		if len(requests) != perDriver[driver.ID] {
			t.Errorf("driver %d sees %d requests, want %d", driver.ID, len(requests), perDriver[driver.ID])
		}
		for _, r := range requests {
			if r.DriverID == nil || *r.DriverID != driver.ID {
				t.Errorf("request %d leaked to driver %d", r.ID, driver.ID)
			}
		}
	}

	for _, condo := range condos {
		requests, err := svc.ListFor(condo.ID, RoleCondo, nil)
		if err != nil {
			t.Fatalf("ListFor condo %d failed: %v", condo.ID, err)
		}
		if len(requests) != perCondo[condo.ID] {
			t.Errorf("condo %d sees %d requests, want %d", condo.ID, len(requests), perCondo[condo.ID])
		}
		for _, r := range requests {
			if r.CondoID != condo.ID {
				t.Errorf("request %d leaked to condo %d", r.ID, condo.ID)
			}
		}
	}

	all, err := svc.ListFor(1, RoleAdmin, nil)
	if err != nil {
		t.Fatalf("ListFor admin failed: %v", err)
	}
	if len(all) != total {
		t.Errorf("admin sees %d requests, want %d", len(all), total)
	}

	if _, err := svc.ListFor(1, "visitor", nil); !errors.Is(err, ErrRoleNotAllowed) {
		t.Errorf("expected ErrRoleNotAllowed, got %v", err)
	}
}

func TestListForStatusFilterAndOrder(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	condo := seedCondo(t, svc.DB, "Vila Verde", "Rua A 100", "active", nil, nil, nil)
	resident := seedResident(t, svc.DB, condo.ID, "Ana", "5511990000001", "72", "B")

	var ids []uint
	for i := 0; i < 3; i++ {
		request, err := svc.Create(CreateRequestInput{
			CondoID:    condo.ID,
			ResidentID: uintPtr(resident.ID),
			Type:       models.RequestTypeDriver,
		}, RoleResident)
		if err != nil {
			t.Fatalf("seed request failed: %v", err)
		}
		ids = append(ids, request.ID)
	}

	if _, err := svc.UpdateStatus(ids[1], models.StatusDenied, condo.ID, ""); err != nil {
		t.Fatalf("seed transition failed: %v", err)
	}

	// Newest first.
	all, err := svc.ListFor(resident.ID, RoleResident, nil)
	if err != nil {
		t.Fatalf("ListFor failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Errorf("expected newest-first ordering, got %d,%d,%d", all[0].ID, all[1].ID, all[2].ID)
	}

	denied := models.StatusDenied
	filtered, err := svc.ListFor(resident.ID, RoleResident, &denied)
	if err != nil {
		t.Fatalf("ListFor with filter failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != ids[1] {
		t.Errorf("status filter returned %+v, want only request %d", filtered, ids[1])
	}
}
