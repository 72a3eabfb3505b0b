package service

import (
	"context"
	"errors"
	"strings"

	"workorder-api/internal/apperror"
	"workorder-api/internal/geocoder"
	"workorder-api/internal/metrics"
	"workorder-api/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LocationService resolves, creates and re-geocodes locations.
type LocationService struct {
	repo     LocationRepository
	geocoder Geocoder
}

// LocationRepository interface for dependency injection
type LocationRepository interface {
	FindLocationsByAddress(ctx context.Context, address, city, stateProvince string) ([]models.Location, error)
	InsertLocation(ctx context.Context, loc models.Location) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error)
	UpdateLocationPoint(ctx context.Context, id uuid.UUID, point models.Point) (*models.Location, error)
}

// Geocoder resolves a free-text query into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (models.Point, error)
}

// NewLocationService creates a new location service
func NewLocationService(repo LocationRepository, geocoder Geocoder) *LocationService {
	return &LocationService{repo: repo, geocoder: geocoder}
}

// Create returns an existing location with the same address, city and state, or
// persists a new one, geocoding it when the request lacks coordinates.
func (s *LocationService) Create(ctx context.Context, req models.LocationCreate) (*models.Location, error) {
	parts := req.Parts()

	if existing := s.findDuplicate(ctx, parts); existing != nil {
		return existing, nil
	}

	loc := s.Prepare(ctx, req)

	created, err := s.repo.InsertLocation(ctx, loc)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to create location")
	}
	if created == nil {
		return nil, apperror.Upstream("Failed to create location", nil)
	}

	return created, nil
}

// Prepare builds the row to store for req, geocoding it when coordinates are missing.
func (s *LocationService) Prepare(ctx context.Context, req models.LocationCreate) models.Location {
	loc := BuildLocation(req)
	if !req.HasPoint() {
		loc.SetPoint(s.resolve(ctx, req.Parts()))
	}
	return loc
}

// BuildLocation maps a request onto a storable row without any lookups. Explicit
// coordinates are kept only when both are present.
func BuildLocation(req models.LocationCreate) models.Location {
	country := req.Country
	if country == "" {
		country = models.DefaultCountry
	}

	loc := models.Location{
		Name:          models.StringPtr(req.Name),
		Address:       models.StringPtr(normalizeAddress(req)),
		City:          models.StringPtr(req.City),
		StateProvince: models.StringPtr(req.StateProvince),
		PostalCode:    models.StringPtr(req.PostalCode),
		Country:       &country,
	}
	if req.HasPoint() {
		loc.SetPoint(&models.Point{Lat: *req.Latitude, Lon: *req.Longitude})
	}
	return loc
}

// findDuplicate only considers complete addresses. Lookup failures count as no match.
func (s *LocationService) findDuplicate(ctx context.Context, parts models.AddressParts) *models.Location {
	if parts.Address == "" || parts.City == "" || parts.StateProvince == "" {
		return nil
	}

	matches, err := s.repo.FindLocationsByAddress(ctx, parts.Address, parts.City, parts.StateProvince)
	if err != nil {
		log.Warn().Err(err).Str("address", parts.Address).Msg("duplicate location check failed")
		return nil
	}
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// normalizeAddress picks the stored address: the street address, else the joined
// city/state/postal code, else the name, else a fixed placeholder.
func normalizeAddress(req models.LocationCreate) string {
	if req.Address != "" {
		return req.Address
	}
	var parts []string
	for _, v := range []string{req.City, req.StateProvince, req.PostalCode} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if joined := strings.Join(parts, ", "); joined != "" {
		return joined
	}
	if req.Name != "" {
		return req.Name
	}
	return models.UnspecifiedAddress
}

// resolve geocodes the address parts. Any failure yields nil.
func (s *LocationService) resolve(ctx context.Context, parts models.AddressParts) *models.Point {
	values := parts.Values()
	if len(values) == 0 {
		metrics.GeocodeResults.WithLabelValues(metrics.GeocodeSkipped).Inc()
		return nil
	}

	query := strings.Join(values, ", ")
	point, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, geocoder.ErrNoResult) {
			metrics.GeocodeResults.WithLabelValues(metrics.GeocodeNotFound).Inc()
			log.Info().Str("query", query).Msg("geocoding returned no result")
		} else {
			metrics.GeocodeResults.WithLabelValues(metrics.GeocodeError).Inc()
			log.Warn().Err(err).Str("query", query).Msg("geocoding failed")
		}
		return nil
	}

	metrics.GeocodeResults.WithLabelValues(metrics.GeocodeFound).Inc()
	return &point
}

// List returns all locations.
func (s *LocationService) List(ctx context.Context) ([]models.Location, error) {
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch locations")
	}
	return locations, nil
}

// Get returns a single location.
func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	loc, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to fetch location")
	}
	if loc == nil {
		return nil, apperror.NotFound("Location not found")
	}
	return loc, nil
}

// Regeocode re-runs geocoding for a stored location and saves the new coordinates.
func (s *LocationService) Regeocode(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	point := s.resolve(ctx, loc.GeocodeParts())
	if point == nil {
		return nil, apperror.Validation("Could not geocode the address for this location")
	}

	updated, err := s.repo.UpdateLocationPoint(ctx, id, *point)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to update location coordinates")
	}
	if updated == nil {
		return nil, apperror.Upstream("Failed to update location coordinates", nil)
	}
	return updated, nil
}
