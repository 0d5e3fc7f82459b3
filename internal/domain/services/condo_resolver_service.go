package services

import (
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
	Logger "condy-http-service/pkg/logger"
)

// Resolver filter modes.
const (
	FilterAll    = "all"
	FilterNearby = "nearby"
	FilterRecent = "recent"
)

// Resolver search field restrictions.
const (
	SearchAll     = "all"
	SearchName    = "name"
	SearchAddress = "address"
	SearchID      = "id"
)

const earthRadiusKm = 6371

// ResolveOptions tunes a single Resolve call. Zero values mean: config
// default max results, active condos only, no location, FilterAll,
// SearchAll, no recent-for-user annotation.
type ResolveOptions struct {
	MaxResults      int
	IncludeInactive bool
	UserLocation    *GeoPoint
	FilterType      string
	SearchType      string
	UserID          uint
}

// InterfaceCondoResolverService defines the condo search service.
type InterfaceCondoResolverService interface {
	Resolve(query string, opts ResolveOptions) ([]models.CondoCandidate, error)
}

// CondoResolverService merges the local condo registry with the external
// places index into a ranked, deduplicated candidate list. The external
// index is an enrichment: when it fails, Resolve degrades to local-only
// results instead of failing. Candidates with InLocalRegistry=false are
// informational and must not be used as request targets by callers.
//
// Duplicate detection runs strictest-first (external id, then coordinates
// at fixed precision, then fuzzy name/address); a missed duplicate is less
// harmful than merging two distinct condos, so each looser strategy only
// runs when the stricter one fails.
type CondoResolverService struct {
	DB     *gorm.DB
	Config *config.Config
	Places InterfacePlacesService
	Redis  InterfaceRedisService
}

// NewCondoResolverService creates a new condo resolver.
func NewCondoResolverService(db *gorm.DB, cfg *config.Config, places InterfacePlacesService, redis InterfaceRedisService) InterfaceCondoResolverService {
	return &CondoResolverService{
		DB:     db,
		Config: cfg,
		Places: places,
		Redis:  redis,
	}
}

// Resolve runs the search pipeline for a free-text query.
func (s *CondoResolverService) Resolve(query string, opts ResolveOptions) ([]models.CondoCandidate, error) {
	query = strings.TrimSpace(query)

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.Config.ResolverMaxResults
	}
	if opts.FilterType == "" {
		opts.FilterType = FilterAll
	}
	if opts.SearchType == "" {
		opts.SearchType = SearchAll
	}

	// Short queries short-circuit: they are too low-precision to be worth
	// a call to the external index.
	if len([]rune(query)) < s.Config.ResolverMinQueryLen {
		return []models.CondoCandidate{}, nil
	}

	// The full registry is loaded regardless of the active filter: external
	// hits are matched against every known condo, while the local search
	// below respects the filter.
	registry, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}

	// Exact external-id shortcut.
	if looksLikeExternalID(query) {
		for i := range registry {
			c := &registry[i]
			if c.PlaceID != nil && *c.PlaceID == query {
				cand := candidateFromCondo(c)
				s.annotateDistance(&cand, opts.UserLocation)
				return []models.CondoCandidate{cand}, nil
			}
		}
	}

	// Local search.
	candidates := make([]models.CondoCandidate, 0)
	for i := range registry {
		c := &registry[i]
		if !opts.IncludeInactive && !c.IsActive() {
			continue
		}
		if matchesQuery(c, query, opts.SearchType) {
			cand := candidateFromCondo(c)
			s.annotateDistance(&cand, opts.UserLocation)
			candidates = append(candidates, cand)
		}
	}

	// External augmentation, only when the local registry came up short.
	if len(candidates) < s.Config.ResolverLocalThreshold &&
		len([]rune(query)) > s.Config.ResolverMinQueryLen &&
		opts.SearchType != SearchID {
		candidates = s.augmentFromPlaces(candidates, registry, query, opts)
	}

	s.annotateRecent(candidates, opts.UserID)
	s.order(candidates, opts.FilterType)

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, nil
}

// loadRegistry fetches the whole condo table. The registry is small
// (hundreds, not millions), so a full scan is acceptable.
func (s *CondoResolverService) loadRegistry() ([]models.Condo, error) {
	var condos []models.Condo
	if err := s.DB.Find(&condos).Error; err != nil {
		return nil, err
	}
	return condos, nil
}

// augmentFromPlaces merges external text-search hits into the candidate
// set. Each hit is matched against the full registry; a match substitutes
// the local record, a miss becomes an external-only candidate. Index
// failures degrade to the local results already in hand.
func (s *CondoResolverService) augmentFromPlaces(candidates []models.CondoCandidate, registry []models.Condo, query string, opts ResolveOptions) []models.CondoCandidate {
	var bias *GeoPoint
	if opts.UserLocation != nil {
		bias = opts.UserLocation
	}

	hits, err := s.Places.TextSearch(query, bias, s.Config.ResolverBiasRadiusKm)
	if err != nil {
		Logger.Warning("places index degraded, returning local-only results: %v", err)
		return candidates
	}

	for i := range hits {
		hit := &hits[i]
		var cand models.CondoCandidate
		if local := s.matchAgainstRegistry(hit, registry); local != nil {
			// A hit that resolves to an inactive condo must not slip past the
			// active filter applied to the local search.
			if !opts.IncludeInactive && !local.IsActive() {
				continue
			}
			cand = candidateFromCondo(local)
			cand.FromExternal = true
		} else {
			cand = candidateFromPlace(hit)
		}
		s.annotateDistance(&cand, opts.UserLocation)

		if !s.isDuplicate(candidates, &cand) {
			candidates = append(candidates, cand)
		}
	}
	return candidates
}

// matchAgainstRegistry finds the local record for an external hit, trying
// the strategies strictest-first.
func (s *CondoResolverService) matchAgainstRegistry(hit *PlaceResult, registry []models.Condo) *models.Condo {
	// (a) external identifier equality
	for i := range registry {
		c := &registry[i]
		if c.PlaceID != nil && hit.PlaceID != "" && *c.PlaceID == hit.PlaceID {
			return c
		}
	}

	// (b) coordinate equality at fixed precision
	if hit.Latitude != nil && hit.Longitude != nil {
		for i := range registry {
			c := &registry[i]
			if c.Latitude != nil && c.Longitude != nil &&
				s.sameCoord(*c.Latitude, *hit.Latitude) &&
				s.sameCoord(*c.Longitude, *hit.Longitude) {
				return c
			}
		}
	}

	// (c) fuzzy name+address containment
	hitName := strings.ToLower(strings.TrimSpace(hit.Name))
	hitAddr := strings.ToLower(strings.TrimSpace(hit.Address))
	if hitName == "" {
		return nil
	}
	for i := range registry {
		c := &registry[i]
		name := strings.ToLower(strings.TrimSpace(c.Name))
		addr := strings.ToLower(strings.TrimSpace(c.Address))
		exactName := name == hitName
		exactAddr := addr != "" && addr == hitAddr
		partialName := name != "" && (strings.Contains(name, hitName) || strings.Contains(hitName, name))
		partialAddr := addr != "" && hitAddr != "" && (strings.Contains(addr, hitAddr) || strings.Contains(hitAddr, addr))
		if (exactName && partialAddr) || (partialName && exactAddr) {
			return c
		}
	}
	return nil
}

// isDuplicate checks a candidate against the accumulator, strictest
// strategy first.
func (s *CondoResolverService) isDuplicate(acc []models.CondoCandidate, cand *models.CondoCandidate) bool {
	for i := range acc {
		existing := &acc[i]

		if existing.ID != 0 && cand.ID != 0 && existing.ID == cand.ID {
			return true
		}
		if existing.PlaceID != "" && cand.PlaceID != "" && existing.PlaceID == cand.PlaceID {
			return true
		}

		if strings.EqualFold(strings.TrimSpace(existing.Name), strings.TrimSpace(cand.Name)) &&
			strings.EqualFold(strings.TrimSpace(existing.Address), strings.TrimSpace(cand.Address)) {
			return true
		}

		if existing.Latitude != nil && existing.Longitude != nil &&
			cand.Latitude != nil && cand.Longitude != nil &&
			s.sameCoord(*existing.Latitude, *cand.Latitude) &&
			s.sameCoord(*existing.Longitude, *cand.Longitude) {
			return true
		}
	}
	return false
}

// annotateDistance attaches the great-circle distance from the user.
func (s *CondoResolverService) annotateDistance(cand *models.CondoCandidate, loc *GeoPoint) {
	if loc == nil || cand.Latitude == nil || cand.Longitude == nil {
		return
	}
	d := haversineKm(loc.Latitude, loc.Longitude, *cand.Latitude, *cand.Longitude)
	cand.DistanceKm = &d
}

// annotateRecent flags candidates the user targeted recently.
func (s *CondoResolverService) annotateRecent(candidates []models.CondoCandidate, userID uint) {
	if s.Redis == nil || userID == 0 {
		return
	}
	ids, err := s.Redis.GetRecentCondoIDs(userID)
	if err != nil {
		Logger.Warning("failed to load recent condos for user %d: %v", userID, err)
		return
	}
	recent := make(map[uint]bool, len(ids))
	for _, id := range ids {
		recent[id] = true
	}
	for i := range candidates {
		if candidates[i].ID != 0 && recent[candidates[i].ID] {
			candidates[i].IsRecentForUser = true
		}
	}
}

// order sorts the candidate list for the requested filter mode.
func (s *CondoResolverService) order(candidates []models.CondoCandidate, filterType string) {
	switch filterType {
	case FilterNearby:
		// Distance ascending; candidates without coordinates last.
		sort.SliceStable(candidates, func(i, j int) bool {
			di, dj := candidates[i].DistanceKm, candidates[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	case FilterRecent:
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].IsRecentForUser != candidates[j].IsRecentForUser {
				return candidates[i].IsRecentForUser
			}
			return strings.ToLower(candidates[i].Name) < strings.ToLower(candidates[j].Name)
		})
	default:
		// Registry entries before external-only candidates, then by name.
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].InLocalRegistry != candidates[j].InLocalRegistry {
				return candidates[i].InLocalRegistry
			}
			return strings.ToLower(candidates[i].Name) < strings.ToLower(candidates[j].Name)
		})
	}
}

// sameCoord compares two coordinates at the configured decimal precision.
func (s *CondoResolverService) sameCoord(a, b float64) bool {
	precision := s.Config.ResolverCoordPrecision
	if precision <= 0 {
		precision = 4
	}
	factor := math.Pow(10, float64(precision))
	return math.Round(a*factor) == math.Round(b*factor)
}

// looksLikeExternalID reports whether a query is plausibly an opaque
// external place identifier rather than a name or address fragment.
func looksLikeExternalID(query string) bool {
	return len(query) >= 20 && !strings.Contains(query, " ") &&
		(strings.ContainsAny(query, "_-") || strings.HasPrefix(query, "ChIJ"))
}

// matchesQuery applies token-AND substring matching over the fields
// selected by searchType.
func matchesQuery(c *models.Condo, query, searchType string) bool {
	var fields []string
	switch searchType {
	case SearchName:
		fields = []string{c.Name}
	case SearchAddress:
		fields = []string{c.Address}
	case SearchID:
		if c.PlaceID != nil {
			fields = []string{*c.PlaceID}
		}
	default:
		fields = []string{c.Name, c.Address}
		if c.PlaceID != nil {
			fields = append(fields, *c.PlaceID)
		}
	}

	lowered := make([]string, 0, len(fields))
	for _, f := range fields {
		lowered = append(lowered, strings.ToLower(f))
	}

	for _, token := range strings.Fields(strings.ToLower(query)) {
		found := false
		for _, f := range lowered {
			if strings.Contains(f, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// candidateFromCondo builds a registry-backed candidate.
func candidateFromCondo(c *models.Condo) models.CondoCandidate {
	cand := models.CondoCandidate{
		ID:              c.ID,
		Name:            c.Name,
		Address:         c.Address,
		Latitude:        c.Latitude,
		Longitude:       c.Longitude,
		Status:          c.Status,
		InLocalRegistry: true,
	}
	if c.PlaceID != nil {
		cand.PlaceID = *c.PlaceID
	}
	return cand
}

// candidateFromPlace builds an external-only candidate.
func candidateFromPlace(p *PlaceResult) models.CondoCandidate {
	return models.CondoCandidate{
		Name:            p.Name,
		Address:         p.Address,
		PlaceID:         p.PlaceID,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		AddressDetail:   p.AddressDetail,
		FromExternal:    true,
		InLocalRegistry: false,
	}
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
