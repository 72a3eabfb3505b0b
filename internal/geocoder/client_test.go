package geocoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workorder-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClientWithHttpClient(Options{
		BaseURL:   url,
		UserAgent: "WorkOrderApp/1.0",
		Timeout:   timeout,
	}, &http.Client{})
}

func TestClient_Geocode(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expected    models.Point
		expectedErr error
		expectError bool
	}{
		{
			name:     "first result used",
			status:   http.StatusOK,
			body:     `[{"lat":"41.88","lon":"-87.63"},{"lat":"1","lon":"2"}]`,
			expected: models.Point{Lat: 41.88, Lon: -87.63},
		},
		{
			name:        "empty result list",
			status:      http.StatusOK,
			body:        `[]`,
			expectedErr: ErrNoResult,
			expectError: true,
		},
		{
			name:        "non-200 status",
			status:      http.StatusServiceUnavailable,
			body:        `[]`,
			expectError: true,
		},
		{
			name:        "malformed payload",
			status:      http.StatusOK,
			body:        `{"lat":`,
			expectError: true,
		},
		{
			name:        "non-numeric latitude",
			status:      http.StatusOK,
			body:        `[{"lat":"north","lon":"-87.63"}]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, time.Second)
			point, err := client.Geocode(context.Background(), "100 Main St, Springfield, IL")

			if tt.expectError {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, point)
		})
	}
}

func TestClient_GeocodeRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "100 Main St, Springfield", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("limit"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.Equal(t, "WorkOrderApp/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"39.78","lon":"-89.65"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Second)
	point, err := client.Geocode(context.Background(), "100 Main St, Springfield")
	require.NoError(t, err)
	assert.Equal(t, models.Point{Lat: 39.78, Lon: -89.65}, point)
}

func TestClient_GeocodeTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := client.Geocode(context.Background(), "slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || time.Since(start) < time.Second)
}

func TestClient_GeocodeEmptyQuery(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0", time.Second)
	_, err := client.Geocode(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestClient_RateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	}))
	defer server.Close()

	client := NewClientWithHttpClient(Options{
		BaseURL:   server.URL,
		UserAgent: "WorkOrderApp/1.0",
		Timeout:   50 * time.Millisecond,
		RateLimit: 0.1,
	}, &http.Client{})

	_, err := client.Geocode(context.Background(), "first")
	require.NoError(t, err)

	// The second token is ten seconds away, beyond the timeout.
	_, err = client.Geocode(context.Background(), "second")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
