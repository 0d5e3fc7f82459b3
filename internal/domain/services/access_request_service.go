package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
	Logger "condy-http-service/pkg/logger"
)

// Actor roles.
const (
	RoleAdmin    = "admin"
	RoleCondo    = "condo"
	RoleResident = "resident"
	RoleDriver   = "driver"
)

// CreateRequestInput carries the fields accepted when opening a request.
// Resident-originated requests set ResidentID (and usually DriverID);
// driver-originated requests set Unit/Block instead.
type CreateRequestInput struct {
	CondoID    uint
	ResidentID *uint
	DriverID   *uint
	Type       models.RequestType
	Unit       string
	Block      string
	Comment    string
}

// InterfaceAccessRequestService defines the access request workflow.
type InterfaceAccessRequestService interface {
	Create(input CreateRequestInput, actorRole string) (*models.AccessRequest, error)
	ListFor(actorID uint, actorRole string, statusFilter *models.RequestStatus) ([]models.AccessRequest, error)
	GetByID(id uint) (*models.AccessRequest, error)
	UpdateStatus(requestID uint, newStatus models.RequestStatus, actorID uint, comment string) (*models.AccessRequest, error)
}

// AccessRequestService enforces the status graph and role scoping for
// access requests. It is stateless per call and never retries store
// operations; replays of Create are not deduplicated (a double-tap stores
// two identical pending requests). Racing UpdateStatus calls on the same
// request are last-write-wins, there is no version check.
type AccessRequestService struct {
	DB           *gorm.DB
	Config       *config.Config
	Notification InterfaceNotificationService
	Redis        InterfaceRedisService
}

// NewAccessRequestService creates a new access request workflow service.
func NewAccessRequestService(db *gorm.DB, cfg *config.Config, notification InterfaceNotificationService, redis InterfaceRedisService) InterfaceAccessRequestService {
	return &AccessRequestService{
		DB:           db,
		Config:       cfg,
		Notification: notification,
		Redis:        redis,
	}
}

// 1 Create opens a new request in pending state. The condo must exist and
// be active. Notification of the gatehouse (and the resident, when known)
// is best-effort: a dispatch failure is logged and never rolls back the
// stored request.
func (s *AccessRequestService) Create(input CreateRequestInput, actorRole string) (*models.AccessRequest, error) {
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid request type %q", input.Type)
	}

	var condo models.Condo
	if err := s.DB.First(&condo, input.CondoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownCondo
		}
		return nil, err
	}
	if !condo.IsActive() {
		return nil, ErrUnknownCondo
	}

	request := &models.AccessRequest{
		CondoID:  input.CondoID,
		DriverID: input.DriverID,
		Status:   models.StatusPending,
		Type:     input.Type,
		Unit:     input.Unit,
		Block:    input.Block,
		Comment:  input.Comment,
	}

	switch actorRole {
	case RoleResident, RoleCondo, RoleAdmin:
		if input.ResidentID == nil {
			return nil, ErrMissingOrigin
		}
		var resident models.Resident
		if err := s.DB.First(&resident, *input.ResidentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("resident %d not found", *input.ResidentID)
			}
			return nil, err
		}
		if resident.CondoID != input.CondoID {
			return nil, fmt.Errorf("resident %d does not belong to condo %d", resident.ID, input.CondoID)
		}
		request.ResidentID = input.ResidentID
		if request.Unit == "" {
			request.Unit = resident.Unit
		}
		if request.Block == "" {
			request.Block = resident.Block
		}
	case RoleDriver:
		// Driver-originated requests target a unit and block; the resident
		// may not be known yet.
		if input.ResidentID != nil {
			request.ResidentID = input.ResidentID
		} else if input.Unit == "" || input.Block == "" {
			return nil, ErrMissingOrigin
		}
	default:
		return nil, ErrRoleNotAllowed
	}

	if input.DriverID != nil {
		var driver models.Driver
		if err := s.DB.First(&driver, *input.DriverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("driver %d not found", *input.DriverID)
			}
			return nil, err
		}
		request.DriverName = driver.Name
		request.VehiclePlate = driver.VehiclePlate
		request.VehicleModel = driver.VehicleModel
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, err
	}

	s.rememberCondo(request)
	s.notify(request, "New access request",
		fmt.Sprintf("%s request for unit %s %s", request.Type, request.Unit, request.Block),
		true, request.ResidentID != nil, false)

	return request, nil
}

// 2 ListFor returns the requests visible to an actor. Residents see their
// own, drivers theirs, condos everything addressed to them, admins all.
// Most recent first.
func (s *AccessRequestService) ListFor(actorID uint, actorRole string, statusFilter *models.RequestStatus) ([]models.AccessRequest, error) {
	query := s.DB.Model(&models.AccessRequest{})

	switch actorRole {
	case RoleResident:
		query = query.Where("resident_id = ?", actorID)
	case RoleDriver:
		query = query.Where("driver_id = ?", actorID)
	case RoleCondo:
		query = query.Where("condo_id = ?", actorID)
	case RoleAdmin:
		// no scope
	default:
		return nil, ErrRoleNotAllowed
	}

	if statusFilter != nil {
		query = query.Where("status = ?", *statusFilter)
	}

	var requests []models.AccessRequest
	if err := query.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// 3 GetByID fetches a single request.
func (s *AccessRequestService) GetByID(id uint) (*models.AccessRequest, error) {
	var request models.AccessRequest
	if err := s.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// 4 UpdateStatus applies a status transition. Illegal edges fail with
// ErrInvalidTransition and leave the record untouched. Re-applying the
// current status is a no-op, so duplicate taps don't error and don't
// trigger a second notification.
func (s *AccessRequestService) UpdateStatus(requestID uint, newStatus models.RequestStatus, actorID uint, comment string) (*models.AccessRequest, error) {
	if !newStatus.IsValid() {
		return nil, ErrInvalidTransition
	}

	request, err := s.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == newStatus {
		return request, nil
	}

	if !request.Status.CanTransition(newStatus) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_by": actorID,
	}
	if comment != "" {
		if request.Comment != "" {
			updates["comment"] = request.Comment + "\n" + comment
		} else {
			updates["comment"] = comment
		}
	}

	if err := s.DB.Model(request).Updates(updates).Error; err != nil {
		return nil, err
	}

	request, err = s.GetByID(requestID)
	if err != nil {
		return nil, err
	}

	s.notify(request, "Access request "+string(newStatus),
		fmt.Sprintf("Request #%d is now %s", request.ID, newStatus),
		true, request.ResidentID != nil, request.DriverID != nil)

	return request, nil
}

// rememberCondo records the request target in the driver's recent condo
// list. Best-effort.
func (s *AccessRequestService) rememberCondo(request *models.AccessRequest) {
	if s.Redis == nil || request.DriverID == nil {
		return
	}
	if err := s.Redis.PushRecentCondo(*request.DriverID, request.CondoID); err != nil {
		Logger.Warning("failed to record recent condo for driver %d: %v", *request.DriverID, err)
	}
}

// notify dispatches to the request's parties. Failures are logged only;
// the state change already happened and must not be undone.
func (s *AccessRequestService) notify(request *models.AccessRequest, title, body string, gatehouse, resident, driver bool) {
	if s.Notification == nil {
		return
	}

	data := map[string]interface{}{
		"request_id": request.ID,
		"condo_id":   request.CondoID,
		"status":     request.Status,
		"type":       request.Type,
	}

	if gatehouse {
		if ok := s.Notification.Notify(NotificationTarget{Role: RoleCondo, ID: request.CondoID}, title, body, data); !ok {
			Logger.Warning("gatehouse notification failed for request %d", request.ID)
		}
	}
	if resident && request.ResidentID != nil {
		if ok := s.Notification.Notify(NotificationTarget{Role: RoleResident, ID: *request.ResidentID}, title, body, data); !ok {
			Logger.Warning("resident notification failed for request %d", request.ID)
		}
	}
	if driver && request.DriverID != nil {
		if ok := s.Notification.Notify(NotificationTarget{Role: RoleDriver, ID: *request.DriverID}, title, body, data); !ok {
			Logger.Warning("driver notification failed for request %d", request.ID)
		}
	}
}
