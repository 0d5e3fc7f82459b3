package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"condy-http-service/internal/infrastructure/config"
)

func newPlacesFixture(t *testing.T, handler http.HandlerFunc) (*PlacesService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.PlacesAPIURL = server.URL
	cfg.PlacesAPIKey = "test-key"
	return NewPlacesService(cfg).(*PlacesService), server
}

func TestPlacesTextSearch(t *testing.T) {
	var gotQuery, gotLocation, gotRadius string
	svc, _ := newPlacesFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/textsearch/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("api key not forwarded")
		}
		gotQuery = r.URL.Query().Get("query")
		gotLocation = r.URL.Query().Get("location")
		gotRadius = r.URL.Query().Get("radius")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [
				{
					"place_id": "ChIJtest_000000000000001",
					"name": "Vila Verde",
					"formatted_address": "Rua A, 100 - Sao Paulo",
					"geometry": {"location": {"lat": -23.55, "lng": -46.63}}
				}
			]
		}`))
	})

	results, err := svc.TextSearch("vila verde", geoPtr(-23.5, -46.6), 5)
	if err != nil {
		t.Fatalf("TextSearch failed: %v", err)
	}
	if gotQuery != "vila verde" {
		t.Errorf("query param = %q", gotQuery)
	}
	if gotLocation == "" || gotRadius != "5000" {
		t.Errorf("location bias not forwarded: location=%q radius=%q", gotLocation, gotRadius)
	}

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.PlaceID != "ChIJtest_000000000000001" || r.Name != "Vila Verde" {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Latitude == nil || *r.Latitude != -23.55 || r.Longitude == nil || *r.Longitude != -46.63 {
		t.Errorf("coordinates not parsed: %+v", r)
	}
}

func TestPlacesTextSearchZeroResults(t *testing.T) {
	svc, _ := newPlacesFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	results, err := svc.TextSearch("nothing here", nil, 0)
	if err != nil {
		t.Fatalf("ZERO_RESULTS is not an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestPlacesTextSearchErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		svc, _ := newPlacesFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
		})
		if _, err := svc.TextSearch("vila", nil, 0); err == nil {
			t.Error("expected error on REQUEST_DENIED")
		}
	})

	t.Run("http error", func(t *testing.T) {
		svc, _ := newPlacesFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		if _, err := svc.TextSearch("vila", nil, 0); err == nil {
			t.Error("expected error on 502")
		}
	})

	t.Run("missing key", func(t *testing.T) {
		svc := NewPlacesService(&config.Config{PlacesAPIURL: "http://unused"}).(*PlacesService)
		if _, err := svc.TextSearch("vila", nil, 0); err == nil {
			t.Error("expected error without an api key")
		}
	})
}

func TestPlacesDetails(t *testing.T) {
	svc, _ := newPlacesFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/details/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("place_id") != "ChIJtest_000000000000001" {
			t.Errorf("place_id param = %q", r.URL.Query().Get("place_id"))
		}

		w.Write([]byte(`{
			"status": "OK",
			"result": {
				"place_id": "ChIJtest_000000000000001",
				"name": "Vila Verde",
				"formatted_address": "Rua das Flores, 100 - Sao Paulo",
				"geometry": {"location": {"lat": -23.55, "lng": -46.63}},
				"address_components": [
					{"long_name": "100", "short_name": "100", "types": ["street_number"]},
					{"long_name": "Rua das Flores", "short_name": "R. das Flores", "types": ["route"]},
					{"long_name": "Jardins", "short_name": "Jardins", "types": ["sublocality_level_1", "political"]},
					{"long_name": "Sao Paulo", "short_name": "Sao Paulo", "types": ["locality", "political"]},
					{"long_name": "Sao Paulo", "short_name": "SP", "types": ["administrative_area_level_1", "political"]},
					{"long_name": "01410-000", "short_name": "01410-000", "types": ["postal_code"]},
					{"long_name": "Brazil", "short_name": "BR", "types": ["country", "political"]}
				]
			}
		}`))
	})

	result, err := svc.Details("ChIJtest_000000000000001")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}

	d := result.AddressDetail
	if d == nil {
		t.Fatal("address detail missing")
	}
	if d.Street != "Rua das Flores" || d.Number != "100" {
		t.Errorf("street/number = %q/%q", d.Street, d.Number)
	}
	if d.Neighborhood != "Jardins" || d.City != "Sao Paulo" {
		t.Errorf("neighborhood/city = %q/%q", d.Neighborhood, d.City)
	}
	if d.State != "SP" || d.PostalCode != "01410-000" || d.Country != "Brazil" {
		t.Errorf("state/cep/country = %q/%q/%q", d.State, d.PostalCode, d.Country)
	}
}
