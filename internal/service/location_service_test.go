package service

import (
	"context"
	"testing"

	"workorder-api/internal/apperror"
	"workorder-api/internal/geocoder"
	"workorder-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLocationRepository is a mock implementation of the LocationRepository interface
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindLocationsByAddress(ctx context.Context, address, city, stateProvince string) ([]models.Location, error) {
	args := m.Called(ctx, address, city, stateProvince)
	locations, _ := args.Get(0).([]models.Location)
	return locations, args.Error(1)
}

func (m *MockLocationRepository) InsertLocation(ctx context.Context, loc models.Location) (*models.Location, error) {
	args := m.Called(ctx, loc)
	if fn, ok := args.Get(0).(func(models.Location) *models.Location); ok {
		return fn(loc), args.Error(1)
	}
	created, _ := args.Get(0).(*models.Location)
	return created, args.Error(1)
}

func (m *MockLocationRepository) ListLocations(ctx context.Context) ([]models.Location, error) {
	args := m.Called(ctx)
	locations, _ := args.Get(0).([]models.Location)
	return locations, args.Error(1)
}

func (m *MockLocationRepository) GetLocation(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

func (m *MockLocationRepository) UpdateLocationPoint(ctx context.Context, id uuid.UUID, point models.Point) (*models.Location, error) {
	args := m.Called(ctx, id, point)
	loc, _ := args.Get(0).(*models.Location)
	return loc, args.Error(1)
}

// MockGeocoder is a mock implementation of the Geocoder interface
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (models.Point, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(models.Point), args.Error(1)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// echoInsert returns the inserted row with a fresh id.
func echoInsert(loc models.Location) *models.Location {
	loc.ID = uuid.New()
	return &loc
}

func TestLocationService_Create_ReturnsDuplicate(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	mockGeo := new(MockGeocoder)
	service := NewLocationService(mockRepo, mockGeo)

	existing := models.Location{
		ID:            uuid.New(),
		Address:       strPtr("100 Main St"),
		City:          strPtr("Springfield"),
		StateProvince: strPtr("IL"),
	}
	mockRepo.On("FindLocationsByAddress", mock.Anything, "100 Main St", "Springfield", "IL").
		Return([]models.Location{existing, {ID: uuid.New()}}, nil)

	result, err := service.Create(context.Background(), models.LocationCreate{
		Address:       "100 Main St",
		City:          "Springfield",
		StateProvince: "IL",
		PostalCode:    "62701",
	})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, result.ID)
	mockRepo.AssertNotCalled(t, "InsertLocation", mock.Anything, mock.Anything)
	mockGeo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestLocationService_Create(t *testing.T) {
	tests := []struct {
		name            string
		req             models.LocationCreate
		expectLookup    bool
		lookupErr       error
		geocodeQuery    string
		geocodePoint    models.Point
		geocodeErr      error
		expectedAddress string
		expectedPoint   *models.Point
	}{
		{
			name:            "partial address skips duplicate check",
			req:             models.LocationCreate{City: "Springfield", StateProvince: "IL"},
			geocodeQuery:    "Springfield, IL",
			geocodePoint:    models.Point{Lat: 39.78, Lon: -89.65},
			expectedAddress: "Springfield, IL",
			expectedPoint:   &models.Point{Lat: 39.78, Lon: -89.65},
		},
		{
			name:            "no address parts skips geocoding",
			req:             models.LocationCreate{Name: "Warehouse"},
			expectedAddress: "Warehouse",
		},
		{
			name:            "nothing supplied",
			req:             models.LocationCreate{},
			expectedAddress: models.UnspecifiedAddress,
		},
		{
			name:            "geocoder result is stored",
			req:             models.LocationCreate{Address: "233 S Wacker Dr", City: "Chicago", StateProvince: "IL"},
			expectLookup:    true,
			geocodeQuery:    "233 S Wacker Dr, Chicago, IL",
			geocodePoint:    models.Point{Lat: 41.88, Lon: -87.63},
			expectedAddress: "233 S Wacker Dr",
			expectedPoint:   &models.Point{Lat: 41.88, Lon: -87.63},
		},
		{
			name:            "geocoder failure degrades to no coordinates",
			req:             models.LocationCreate{Address: "1 Nowhere Rd", City: "Chicago", StateProvince: "IL", PostalCode: "60601"},
			expectLookup:    true,
			geocodeQuery:    "1 Nowhere Rd, Chicago, IL, 60601",
			geocodeErr:      assert.AnError,
			expectedAddress: "1 Nowhere Rd",
		},
		{
			name:            "geocoder no result degrades to no coordinates",
			req:             models.LocationCreate{PostalCode: "00000"},
			geocodeQuery:    "00000",
			geocodeErr:      geocoder.ErrNoResult,
			expectedAddress: "00000",
		},
		{
			name:            "duplicate check failure counts as no match",
			req:             models.LocationCreate{Address: "100 Main St", City: "Springfield", StateProvince: "IL"},
			expectLookup:    true,
			lookupErr:       assert.AnError,
			geocodeQuery:    "100 Main St, Springfield, IL",
			geocodePoint:    models.Point{Lat: 39.8, Lon: -89.6},
			expectedAddress: "100 Main St",
			expectedPoint:   &models.Point{Lat: 39.8, Lon: -89.6},
		},
		{
			name: "explicit coordinates are trusted",
			req: models.LocationCreate{
				Address: "5 Oak Ave", City: "Peoria", StateProvince: "IL",
				Latitude: floatPtr(40.69), Longitude: floatPtr(-89.59),
			},
			expectLookup:    true,
			expectedAddress: "5 Oak Ave",
			expectedPoint:   &models.Point{Lat: 40.69, Lon: -89.59},
		},
		{
			name: "a lone latitude is not trusted",
			req: models.LocationCreate{
				City:     "Peoria",
				Latitude: floatPtr(40.69),
			},
			geocodeQuery:    "Peoria",
			geocodePoint:    models.Point{Lat: 40.7, Lon: -89.6},
			expectedAddress: "Peoria",
			expectedPoint:   &models.Point{Lat: 40.7, Lon: -89.6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockLocationRepository)
			mockGeo := new(MockGeocoder)
			service := NewLocationService(mockRepo, mockGeo)

			if tt.expectLookup {
				mockRepo.On("FindLocationsByAddress", mock.Anything, tt.req.Address, tt.req.City, tt.req.StateProvince).
					Return([]models.Location{}, tt.lookupErr)
			}
			if tt.geocodeQuery != "" {
				mockGeo.On("Geocode", mock.Anything, tt.geocodeQuery).Return(tt.geocodePoint, tt.geocodeErr)
			}

			mockRepo.On("InsertLocation", mock.Anything, mock.Anything).Return(echoInsert, nil)

			// Execute
			result, err := service.Create(context.Background(), tt.req)

			// Assert
			require.NoError(t, err)
			require.NotNil(t, result.Address)
			assert.Equal(t, tt.expectedAddress, *result.Address)
			require.NotNil(t, result.Country)
			assert.Equal(t, models.DefaultCountry, *result.Country)

			if tt.expectedPoint == nil {
				assert.Nil(t, result.Latitude)
				assert.Nil(t, result.Longitude)
			} else {
				require.NotNil(t, result.Latitude)
				require.NotNil(t, result.Longitude)
				assert.Equal(t, tt.expectedPoint.Lat, *result.Latitude)
				assert.Equal(t, tt.expectedPoint.Lon, *result.Longitude)
			}

			if tt.geocodeQuery == "" {
				mockGeo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
			}
			if !tt.expectLookup {
				mockRepo.AssertNotCalled(t, "FindLocationsByAddress", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
			mockGeo.AssertExpectations(t)
		})
	}
}

func TestLocationService_Create_KeepsCountry(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	mockGeo := new(MockGeocoder)
	service := NewLocationService(mockRepo, mockGeo)

	mockRepo.On("InsertLocation", mock.Anything, mock.Anything).Return(echoInsert, nil)

	result, err := service.Create(context.Background(), models.LocationCreate{
		Name:      "Depot",
		Country:   "Canada",
		Latitude:  floatPtr(45.5),
		Longitude: floatPtr(-73.56),
	})
	require.NoError(t, err)
	assert.Equal(t, "Canada", *result.Country)
	assert.Equal(t, "Depot", *result.Name)
}

func TestLocationService_Create_InsertFailure(t *testing.T) {
	tests := []struct {
		name         string
		insertResult *models.Location
		insertErr    error
		expectedKind apperror.Kind
	}{
		{name: "store error", insertErr: assert.AnError, expectedKind: apperror.KindUpstream},
		{name: "empty result", expectedKind: apperror.KindUpstream},
		{name: "conflict passes through", insertErr: apperror.Conflict("Resource already exists", nil), expectedKind: apperror.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLocationRepository)
			mockGeo := new(MockGeocoder)
			service := NewLocationService(mockRepo, mockGeo)

			mockRepo.On("InsertLocation", mock.Anything, mock.Anything).Return(tt.insertResult, tt.insertErr)

			_, err := service.Create(context.Background(), models.LocationCreate{Name: "Shed"})
			require.Error(t, err)
			assert.Equal(t, tt.expectedKind, apperror.KindOf(err))
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLocationService_Prepare(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	mockGeo := new(MockGeocoder)
	mockGeo.On("Geocode", mock.Anything, "Portland, OR").Return(models.Point{Lat: 45.52, Lon: -122.68}, nil).Once()

	service := NewLocationService(mockRepo, mockGeo)

	resolved := service.Prepare(context.Background(), models.LocationCreate{City: "Portland", StateProvince: "OR"})
	assert.Equal(t, "Portland, OR", *resolved.Address)
	assert.Equal(t, 45.52, *resolved.Latitude)

	// Explicit coordinates skip the lookup.
	explicit := service.Prepare(context.Background(), models.LocationCreate{
		Name:      "Buoy",
		Latitude:  floatPtr(0),
		Longitude: floatPtr(0),
	})
	assert.Equal(t, "Buoy", *explicit.Address)
	assert.Equal(t, 0.0, *explicit.Longitude)

	mockGeo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "InsertLocation", mock.Anything, mock.Anything)
}

func TestBuildLocation(t *testing.T) {
	loc := BuildLocation(models.LocationCreate{Latitude: floatPtr(10)})

	assert.Equal(t, models.UnspecifiedAddress, *loc.Address)
	assert.Equal(t, models.DefaultCountry, *loc.Country)
	assert.Nil(t, loc.Name)
	assert.Nil(t, loc.Latitude, "a lone latitude is dropped")
	assert.Nil(t, loc.Longitude)
}

func TestLocationService_Get(t *testing.T) {
	id := uuid.New()

	mockRepo := new(MockLocationRepository)
	service := NewLocationService(mockRepo, new(MockGeocoder))
	mockRepo.On("GetLocation", mock.Anything, id).Return(nil, nil)

	_, err := service.Get(context.Background(), id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestLocationService_Regeocode(t *testing.T) {
	id := uuid.New()
	stored := &models.Location{
		ID:            id,
		Address:       strPtr("100 Main St"),
		City:          strPtr("Springfield"),
		StateProvince: strPtr("IL"),
	}
	point := models.Point{Lat: 39.78, Lon: -89.65}
	fullQuery := "100 Main St, Springfield, IL"

	backfilled := func(req models.LocationCreate) *models.Location {
		loc := BuildLocation(req)
		loc.ID = id
		return &loc
	}

	tests := []struct {
		name         string
		stored       *models.Location
		query        string
		geocodeErr   error
		updateResult *models.Location
		updateErr    error
		expectUpdate bool
		expectedKind *apperror.Kind
	}{
		{
			name:         "updates coordinates",
			stored:       stored,
			query:        fullQuery,
			updateResult: &models.Location{ID: id, Latitude: floatPtr(39.78), Longitude: floatPtr(-89.65)},
			expectUpdate: true,
		},
		{
			name:         "location not found",
			stored:       nil,
			expectedKind: kindPtr(apperror.KindNotFound),
		},
		{
			name:         "no geocoding result is a client error",
			stored:       stored,
			query:        fullQuery,
			geocodeErr:   geocoder.ErrNoResult,
			expectedKind: kindPtr(apperror.KindValidation),
		},
		{
			name:         "update failure is a server error",
			stored:       stored,
			query:        fullQuery,
			updateErr:    assert.AnError,
			expectUpdate: true,
			expectedKind: kindPtr(apperror.KindUpstream),
		},
		{
			name:         "placeholder address is not geocoded",
			stored:       backfilled(models.LocationCreate{}),
			expectedKind: kindPtr(apperror.KindValidation),
		},
		{
			name:         "name used as address is not geocoded",
			stored:       backfilled(models.LocationCreate{Name: "Warehouse"}),
			expectedKind: kindPtr(apperror.KindValidation),
		},
		{
			name:         "address built from locality is not repeated",
			stored:       backfilled(models.LocationCreate{City: "Springfield", StateProvince: "IL"}),
			query:        "Springfield, IL",
			updateResult: &models.Location{ID: id, Latitude: floatPtr(39.78), Longitude: floatPtr(-89.65)},
			expectUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLocationRepository)
			mockGeo := new(MockGeocoder)
			service := NewLocationService(mockRepo, mockGeo)

			mockRepo.On("GetLocation", mock.Anything, id).Return(tt.stored, nil)
			if tt.query != "" {
				mockGeo.On("Geocode", mock.Anything, tt.query).Return(point, tt.geocodeErr)
			}
			if tt.expectUpdate {
				mockRepo.On("UpdateLocationPoint", mock.Anything, id, point).Return(tt.updateResult, tt.updateErr)
			}

			result, err := service.Regeocode(context.Background(), id)

			if tt.expectedKind != nil {
				require.Error(t, err)
				assert.Equal(t, *tt.expectedKind, apperror.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, 39.78, *result.Latitude)
			}
			if !tt.expectUpdate {
				mockRepo.AssertNotCalled(t, "UpdateLocationPoint", mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.query == "" {
				mockGeo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
			}
			mockRepo.AssertExpectations(t)
			mockGeo.AssertExpectations(t)
		})
	}
}

func kindPtr(k apperror.Kind) *apperror.Kind { return &k }
