package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"workorder-api/internal/config"
	"workorder-api/internal/geocoder"
	"workorder-api/internal/models"
	"workorder-api/internal/repository"
	"workorder-api/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var importColumns = []string{"name", "address", "city", "state_province", "postal_code", "country", "latitude", "longitude"}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	configPath := flag.String("config", "configs", "Directory containing app.env")
	geocode := flag.Bool("geocode", false, "Geocode rows without coordinates")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open file")
	}
	defer f.Close()

	requests, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse CSV")
	}
	log.Info().Int("records", len(requests)).Msg("parsed records")

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	ctx := context.Background()

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot apply schema")
	}

	before, err := repo.CountLocations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count locations")
	}

	var locations []models.Location
	if *geocode {
		geo := geocoder.NewClient(geocoder.Options{
			BaseURL:   cfg.GeocoderURL,
			UserAgent: cfg.GeocoderUserAgent,
			Timeout:   cfg.GeocoderTimeout,
			RateLimit: cfg.GeocoderRateLimit,
		})
		svc := service.NewLocationService(repo, geo)
		for _, req := range requests {
			locations = append(locations, svc.Prepare(ctx, req))
		}
	} else {
		for _, req := range requests {
			locations = append(locations, service.BuildLocation(req))
		}
	}

	copied, err := repo.CopyLocations(ctx, locations)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot insert records")
	}

	// Verify data
	after, err := repo.CountLocations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count locations")
	}
	if after-before != len(locations) {
		log.Fatal().Int("expected", len(locations)).Int("got", after-before).Msg("record count mismatch")
	}

	log.Info().Int64("records", copied).Msg("import finished")
}

// parseCSV reads location rows keyed by header name. Unknown columns are ignored and
// empty coordinates are left unset.
func parseCSV(r io.Reader) ([]models.LocationCreate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	known := 0
	for _, col := range importColumns {
		if _, ok := index[col]; ok {
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("header has none of the expected columns %v", importColumns)
	}

	var requests []models.LocationCreate
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		req := models.LocationCreate{
			Name:          field("name"),
			Address:       field("address"),
			City:          field("city"),
			StateProvince: field("state_province"),
			PostalCode:    field("postal_code"),
			Country:       field("country"),
		}
		if req.Latitude, err = parseCoordinate(field("latitude"), 90); err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %w", line, err)
		}
		if req.Longitude, err = parseCoordinate(field("longitude"), 180); err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %w", line, err)
		}

		requests = append(requests, req)
	}

	return requests, nil
}

func parseCoordinate(raw string, bound float64) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if v < -bound || v > bound {
		return nil, fmt.Errorf("%v out of range", v)
	}
	return &v, nil
}
