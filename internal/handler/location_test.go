package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"workorder-api/internal/apperror"
	"workorder-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocationHandler_Create(t *testing.T) {
	lat, lon := 39.7817, -89.6501
	created := &models.Location{
		ID:        uuid.New(),
		Address:   models.StringPtr("100 Main St"),
		City:      models.StringPtr("Springfield"),
		Latitude:  &lat,
		Longitude: &lon,
	}

	tests := []struct {
		name           string
		body           string
		token          string
		setup          func(s *testServer)
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "unauthenticated",
			body:           `{"address":"100 Main St"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedDetail: "Not authenticated",
		},
		{
			name:           "malformed body",
			body:           `{"address":`,
			token:          testToken,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "latitude out of range",
			body:           `{"latitude":91,"longitude":0}`,
			token:          testToken,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "created",
			body:  `{"address":"100 Main St","city":"Springfield"}`,
			token: testToken,
			setup: func(s *testServer) {
				s.locations.On("Create", mock.Anything, models.LocationCreate{Address: "100 Main St", City: "Springfield"}).
					Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "store failure",
			body:  `{"name":"Depot"}`,
			token: testToken,
			setup: func(s *testServer) {
				s.locations.On("Create", mock.Anything, models.LocationCreate{Name: "Depot"}).
					Return(nil, apperror.Upstream("Failed to create location", assert.AnError))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedDetail: "Failed to create location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			if tt.setup != nil {
				tt.setup(s)
			}

			w := s.do(t, http.MethodPost, "/api/v1/locations", tt.body, tt.token)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedDetail != "" {
				assert.Equal(t, tt.expectedDetail, detailOf(t, w))
			}
			if tt.expectedStatus == http.StatusCreated {
				var got models.Location
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, created.ID, got.ID)
				assert.Equal(t, lat, *got.Latitude)
			}
			s.assertExpectations(t)
		})
	}
}

func TestLocationHandler_List(t *testing.T) {
	s := newTestServer()
	s.locations.On("List", mock.Anything).Return(nil, nil).Once()

	w := s.do(t, http.MethodGet, "/api/v1/locations", "", testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	s.assertExpectations(t)
}

func TestLocationHandler_GetAndRegeocode(t *testing.T) {
	id := uuid.New()
	missing := uuid.New()

	s := newTestServer()
	s.locations.On("Get", mock.Anything, id).Return(&models.Location{ID: id}, nil)
	s.locations.On("Get", mock.Anything, missing).Return(nil, apperror.NotFound("Location not found"))
	s.locations.On("Regeocode", mock.Anything, id).
		Return(nil, apperror.Validation("Could not geocode the address for this location"))

	w := s.do(t, http.MethodGet, "/api/v1/locations/"+id.String(), "", testToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/locations/"+missing.String(), "", testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Location not found", detailOf(t, w))

	w = s.do(t, http.MethodGet, "/api/v1/locations/not-a-uuid", "", testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id format", detailOf(t, w))

	w = s.do(t, http.MethodPost, "/api/v1/locations/"+id.String()+"/geocode", "", testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Could not geocode the address for this location", detailOf(t, w))

	s.assertExpectations(t)
}
