package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
)

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// PlaceResult is a single hit from the external places index.
type PlaceResult struct {
	PlaceID       string
	Name          string
	Address       string
	Latitude      *float64
	Longitude     *float64
	AddressDetail *models.AddressDetail
}

// InterfacePlacesService defines the external places index client.
type InterfacePlacesService interface {
	TextSearch(query string, bias *GeoPoint, radiusKm float64) ([]PlaceResult, error)
	Details(placeID string) (*PlaceResult, error)
}

// PlacesService talks to a Places-style HTTP API. The index is an
// enrichment source, never authoritative: callers are expected to treat
// errors from it as degradation, not failure.
type PlacesService struct {
	Config *config.Config
	Client *http.Client
}

// NewPlacesService creates a new places index client.
func NewPlacesService(cfg *config.Config) InterfacePlacesService {
	return &PlacesService{
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// placesTextSearchResponse mirrors the text search payload.
type placesTextSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// placesDetailsResponse mirrors the place details payload.
type placesDetailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string `json:"place_id"`
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName  string   `json:"long_name"`
			ShortName string   `json:"short_name"`
			Types     []string `json:"types"`
		} `json:"address_components"`
	} `json:"result"`
}

// TextSearch runs a free-text search, optionally biased around a location
// within radiusKm.
func (s *PlacesService) TextSearch(query string, bias *GeoPoint, radiusKm float64) ([]PlaceResult, error) {
	if s.Config.PlacesAPIKey == "" {
		return nil, fmt.Errorf("places API key is not configured")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", s.Config.PlacesAPIKey)
	if bias != nil {
		params.Set("location", fmt.Sprintf("%f,%f", bias.Latitude, bias.Longitude))
		params.Set("radius", fmt.Sprintf("%d", int(radiusKm*1000)))
	}

	resp, err := s.Client.Get(s.Config.PlacesAPIURL + "/textsearch/json?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("error calling places text search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status code %d", resp.StatusCode)
	}

	var apiResp placesTextSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("error decoding places response: %w", err)
	}

	if apiResp.Status != "OK" && apiResp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API returned status %s", apiResp.Status)
	}

	results := make([]PlaceResult, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		lat := r.Geometry.Location.Lat
		lng := r.Geometry.Location.Lng
		results = append(results, PlaceResult{
			PlaceID:   r.PlaceID,
			Name:      r.Name,
			Address:   r.FormattedAddress,
			Latitude:  &lat,
			Longitude: &lng,
		})
	}
	return results, nil
}

// Details fetches a single place by its external identifier, including
// structured address components.
func (s *PlacesService) Details(placeID string) (*PlaceResult, error) {
	if s.Config.PlacesAPIKey == "" {
		return nil, fmt.Errorf("places API key is not configured")
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,formatted_address,geometry,address_components")
	params.Set("key", s.Config.PlacesAPIKey)

	resp, err := s.Client.Get(s.Config.PlacesAPIURL + "/details/json?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("error calling places details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places API returned status code %d", resp.StatusCode)
	}

	var apiResp placesDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("error decoding places response: %w", err)
	}

	if apiResp.Status != "OK" {
		return nil, fmt.Errorf("places API returned status %s", apiResp.Status)
	}

	lat := apiResp.Result.Geometry.Location.Lat
	lng := apiResp.Result.Geometry.Location.Lng
	result := &PlaceResult{
		PlaceID:       apiResp.Result.PlaceID,
		Name:          apiResp.Result.Name,
		Address:       apiResp.Result.FormattedAddress,
		Latitude:      &lat,
		Longitude:     &lng,
		AddressDetail: &models.AddressDetail{},
	}

	for _, comp := range apiResp.Result.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "route":
				result.AddressDetail.Street = comp.LongName
			case "street_number":
				result.AddressDetail.Number = comp.LongName
			case "sublocality", "sublocality_level_1":
				result.AddressDetail.Neighborhood = comp.LongName
			case "administrative_area_level_2", "locality":
				result.AddressDetail.City = comp.LongName
			case "administrative_area_level_1":
				result.AddressDetail.State = comp.ShortName
			case "postal_code":
				result.AddressDetail.PostalCode = comp.LongName
			case "country":
				result.AddressDetail.Country = comp.LongName
			}
		}
	}

	return result, nil
}
