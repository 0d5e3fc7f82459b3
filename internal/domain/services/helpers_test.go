package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// testConfig returns a config with the default tuning values, without
// touching the environment.
func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:           "test-secret",
		ResolverMinQueryLen:    3,
		ResolverLocalThreshold: 3,
		ResolverBiasRadiusKm:   5,
		ResolverMaxResults:     10,
		ResolverCoordPrecision: 4,
		RecentCondoLimit:       5,
	}
}

// setupTestDB opens an isolated in-memory database and migrates the schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Condo{},
		&models.Resident{},
		&models.Driver{},
		&models.AccessRequest{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// notifyCall records one Notify invocation on the stub.
type notifyCall struct {
	Target NotificationTarget
	Title  string
	Body   string
	Data   map[string]interface{}
}

// stubNotificationService records notifications instead of publishing them.
type stubNotificationService struct {
	Calls []notifyCall
	Fail  bool
}

func (s *stubNotificationService) Connect() error  { return nil }
func (s *stubNotificationService) Disconnect()     {}
func (s *stubNotificationService) Connected() bool { return !s.Fail }

func (s *stubNotificationService) Notify(target NotificationTarget, title, body string, data map[string]interface{}) bool {
	s.Calls = append(s.Calls, notifyCall{Target: target, Title: title, Body: body, Data: data})
	return !s.Fail
}

// stubRedisService keeps recent condo lists in memory.
type stubRedisService struct {
	Recent map[uint][]uint
	Err    error
}

func newStubRedisService() *stubRedisService {
	return &stubRedisService{Recent: make(map[uint][]uint)}
}

func (s *stubRedisService) Set(key string, value interface{}, expiration time.Duration) error {
	return s.Err
}
func (s *stubRedisService) Get(key string, dest interface{}) error { return s.Err }
func (s *stubRedisService) Delete(key string) error                { return s.Err }
func (s *stubRedisService) HealthCheck() error                     { return s.Err }

func (s *stubRedisService) PushRecentCondo(userID, condoID uint) error {
	if s.Err != nil {
		return s.Err
	}
	list := []uint{condoID}
	for _, id := range s.Recent[userID] {
		if id != condoID {
			list = append(list, id)
		}
	}
	s.Recent[userID] = list
	return nil
}

func (s *stubRedisService) GetRecentCondoIDs(userID uint) ([]uint, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Recent[userID], nil
}

// stubPlacesService serves canned results and counts calls.
type stubPlacesService struct {
	Results     []PlaceResult
	Err         error
	SearchCalls int
}

func (s *stubPlacesService) TextSearch(query string, bias *GeoPoint, radiusKm float64) ([]PlaceResult, error) {
	s.SearchCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Results, nil
}

func (s *stubPlacesService) Details(placeID string) (*PlaceResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.Results {
		if s.Results[i].PlaceID == placeID {
			return &s.Results[i], nil
		}
	}
	return nil, fmt.Errorf("place %s not found", placeID)
}

func uintPtr(v uint) *uint        { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func geoPtr(lat, lng float64) *GeoPoint {
	return &GeoPoint{Latitude: lat, Longitude: lng}
}

// seedCondo inserts a condo and returns it.
func seedCondo(t *testing.T, db *gorm.DB, name, address, status string, placeID *string, lat, lng *float64) *models.Condo {
	t.Helper()
	condo := &models.Condo{
		Name:      name,
		Address:   address,
		Status:    status,
		PlaceID:   placeID,
		Latitude:  lat,
		Longitude: lng,
		Username:  strings.ToLower(strings.ReplaceAll(name, " ", "_")) + "_gate",
	}
	if err := db.Create(condo).Error; err != nil {
		t.Fatalf("failed to seed condo %s: %v", name, err)
	}
	return condo
}

// seedResident inserts a resident bound to a condo.
func seedResident(t *testing.T, db *gorm.DB, condoID uint, name, phone, unit, block string) *models.Resident {
	t.Helper()
	resident := &models.Resident{
		Name:     name,
		Phone:    phone,
		Username: phone,
		CondoID:  condoID,
		Unit:     unit,
		Block:    block,
		Status:   "active",
	}
	if err := db.Create(resident).Error; err != nil {
		t.Fatalf("failed to seed resident %s: %v", name, err)
	}
	return resident
}

// seedDriver inserts a driver account.
func seedDriver(t *testing.T, db *gorm.DB, name, phone, plate, model string) *models.Driver {
	t.Helper()
	driver := &models.Driver{
		Name:         name,
		Phone:        phone,
		Username:     phone,
		VehiclePlate: plate,
		VehicleModel: model,
		Type:         models.RequestTypeDriver,
		Status:       "active",
	}
	if err := db.Create(driver).Error; err != nil {
		t.Fatalf("failed to seed driver %s: %v", name, err)
	}
	return driver
}
