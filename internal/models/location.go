package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCountry = "USA"

	// UnspecifiedAddress is stored when neither address parts nor a name were supplied.
	UnspecifiedAddress = "Location Address Not Specified"
)

// Location represents a physical address, optionally geocoded. Latitude and Longitude
// are either both set or both nil.
type Location struct {
	ID            uuid.UUID  `json:"id"`
	Name          *string    `json:"name"`
	Address       *string    `json:"address"`
	City          *string    `json:"city"`
	StateProvince *string    `json:"state_province"`
	PostalCode    *string    `json:"postal_code"`
	Country       *string    `json:"country"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Point is a resolved latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

// SetPoint sets both coordinates from p, or clears both when p is nil.
func (l *Location) SetPoint(p *Point) {
	if p == nil {
		l.Latitude, l.Longitude = nil, nil
		return
	}
	lat, lon := p.Lat, p.Lon
	l.Latitude, l.Longitude = &lat, &lon
}

// AddressParts holds the free-text parts used for duplicate checks and geocoding.
type AddressParts struct {
	Address       string
	City          string
	StateProvince string
	PostalCode    string
}

// Parts returns the persisted address parts of the location.
func (l *Location) Parts() AddressParts {
	return AddressParts{
		Address:       deref(l.Address),
		City:          deref(l.City),
		StateProvince: deref(l.StateProvince),
		PostalCode:    deref(l.PostalCode),
	}
}

// GeocodeParts returns the persisted parts with any backfilled address removed, so
// only values a caller actually supplied reach the geocoder.
func (l *Location) GeocodeParts() AddressParts {
	parts := l.Parts()
	locality := strings.Join(AddressParts{
		City:          parts.City,
		StateProvince: parts.StateProvince,
		PostalCode:    parts.PostalCode,
	}.Values(), ", ")

	switch {
	case parts.Address == UnspecifiedAddress:
		parts.Address = ""
	case locality != "" && parts.Address == locality:
		parts.Address = ""
	case locality == "" && parts.Address == deref(l.Name):
		parts.Address = ""
	}
	return parts
}

// Values returns the non-empty parts in address, city, state, postal order.
func (p AddressParts) Values() []string {
	var out []string
	for _, v := range []string{p.Address, p.City, p.StateProvince, p.PostalCode} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LocationCreate is the payload for POST /locations.
type LocationCreate struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	StateProvince string   `json:"state_province"`
	PostalCode    string   `json:"postal_code"`
	Country       string   `json:"country"`
	Latitude      *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude     *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// Parts returns the address parts supplied in the request.
func (r LocationCreate) Parts() AddressParts {
	return AddressParts{
		Address:       r.Address,
		City:          r.City,
		StateProvince: r.StateProvince,
		PostalCode:    r.PostalCode,
	}
}

// HasPoint reports whether the request carries both coordinates.
func (r LocationCreate) HasPoint() bool {
	return r.Latitude != nil && r.Longitude != nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
