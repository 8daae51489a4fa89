// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package mf implements the Météo-France weather source. Air quality for the
// Auvergne-Rhône-Alpes region is requested from AtmoAuRA.
package mf

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	APIEndpoint      = "https://webservice.meteofrance.com"
	AtmoAuRAEndpoint = "https://api.atmo-aura.fr"
	name             = "Météo-France"
)

// atmoBounds is the bounding box covered by AtmoAuRA.
var atmoBounds = struct{ minLat, maxLat, minLon, maxLon float64 }{44.1, 46.8, 2.06, 7.19}

// Credentials hold the keys of the Météo-France and AtmoAuRA APIs. A SigningKey
// takes precedence over the static Token.
type Credentials struct {
	Token       string
	SigningKey  string
	AtmoAuRAKey string
}

type Service struct {
	baseURL     string
	atmoURL     string
	staticToken string
	signingKey  []byte
	sign        func(key []byte, now time.Time) (string, error)
	atmoKey     string
	http        *http.Client
	log         *logger.Logger
	settings    source.Settings
	dispatcher  *source.Dispatcher
}

func New(client *http.Client, log *logger.Logger, settings source.Settings, creds Credentials) *Service {
	return &Service{
		baseURL:     APIEndpoint,
		atmoURL:     AtmoAuRAEndpoint,
		staticToken: creds.Token,
		signingKey:  []byte(creds.SigningKey),
		sign:        NewToken,
		atmoKey:     creds.AtmoAuRAKey,
		http:        client,
		log:         log.With(slog.String("source", string(weather.SourceMf))),
		settings:    settings,
		dispatcher:  source.NewDispatcher(),
	}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Source() weather.Source {
	return weather.SourceMf
}

func (s *Service) IsConfigured() bool {
	return s.staticToken != "" || len(s.signingKey) > 0
}

func (s *Service) RequestWeather(ctx context.Context, location weather.Location, cb source.WeatherCallback) {
	s.dispatcher.Weather(ctx, location, cb, s.FetchWeather)
}

func (s *Service) RequestReverseLocation(ctx context.Context, location weather.Location, cb source.LocationCallback) {
	s.dispatcher.ReverseLocation(ctx, location, cb, func(ctx context.Context, location weather.Location) ([]weather.Location, error) {
		resolved, err := s.ReverseLocation(ctx, location)
		if err != nil {
			return nil, err
		}
		return []weather.Location{resolved}, nil
	})
}

func (s *Service) Cancel() {
	s.dispatcher.Cancel()
}

// RequestLocation searches Météo-France places by name.
func (s *Service) RequestLocation(ctx context.Context, query string) []weather.Location {
	var places []PlaceResult
	params := url.Values{}
	params.Set("q", query)
	if err := s.get(ctx, "/places", params, &places); err != nil {
		s.log.Error("failed to search locations", slog.String("query", query), logger.Err(err))
		return []weather.Location{}
	}
	locations := make([]weather.Location, 0, len(places))
	for _, place := range places {
		locations = append(locations, ConvertLocation(nil, place))
	}
	return locations
}

// ReverseLocation resolves the nearest Météo-France place of the coordinates of location.
func (s *Service) ReverseLocation(ctx context.Context, location weather.Location) (weather.Location, error) {
	var places []PlaceResult
	if err := s.get(ctx, "/places", coordinates(location), &places); err != nil {
		return location, err
	}
	if len(places) == 0 || places[0].Insee == "" {
		return location, source.ErrLocationNotFound
	}
	return ConvertLocation(&location, places[0]), nil
}

// FetchWeather requests all Météo-France endpoints for location and converts them.
// Warnings are only available for French departments, the rain nowcast only for
// France, and AtmoAuRA only within its region.
func (s *Service) FetchWeather(ctx context.Context, location weather.Location) (*weather.Weather, error) {
	var (
		forecast    ForecastResult
		observation ObservationResult
		ephemeris   EphemerisResult
		rain        RainResult
		warnings    WarningResult
		atmo        AtmoAuRAResult
	)
	france := strings.EqualFold(location.CountryCode, "FR")
	dept := Department(location.CityID)
	warningParams := url.Values{}
	warningParams.Set("domain", dept)
	warningParams.Set("depth", "0")

	join := source.NewJoin(ctx, s.log)
	source.Required(join, "forecast", &forecast, fetch[ForecastResult](s, "/v2/forecast", coordinates(location)))
	source.Optional(join, "observation", true, &observation, ObservationResult{},
		fetch[ObservationResult](s, "/v2/observation", coordinates(location)))
	ephemerisParams := coordinates(location)
	ephemerisParams.Set("lang", "en")
	source.Optional(join, "ephemeris", true, &ephemeris, EphemerisResult{},
		fetch[EphemerisResult](s, "/v2/ephemeris", ephemerisParams))
	source.Optional(join, "rain nowcast", france, &rain, RainResult{},
		fetch[RainResult](s, "/v3/rain", coordinates(location)))
	source.Optional(join, "warnings", france && dept != "", &warnings, WarningResult{},
		fetch[WarningResult](s, "/v3/warning/currentphenomenons", warningParams))
	source.Optional(join, "air quality", s.atmoApplicable(location), &atmo, AtmoAuRAResult{},
		s.fetchAtmo(location))
	if err := join.Wait(); err != nil {
		return nil, err
	}

	return ConvertWeather(s.settings, location, forecast, observation, ephemeris, rain, warnings, atmo)
}

// Department returns the French department of an INSEE commune code. Overseas
// departments use three digits.
func Department(insee string) string {
	switch {
	case len(insee) < 5:
		return ""
	case strings.HasPrefix(insee, "97"):
		return insee[:3]
	default:
		return insee[:2]
	}
}

func (s *Service) atmoApplicable(location weather.Location) bool {
	return s.atmoKey != "" &&
		location.Latitude >= atmoBounds.minLat && location.Latitude <= atmoBounds.maxLat &&
		location.Longitude >= atmoBounds.minLon && location.Longitude <= atmoBounds.maxLon
}

func (s *Service) fetchAtmo(location weather.Location) func(context.Context) (AtmoAuRAResult, error) {
	return func(ctx context.Context) (AtmoAuRAResult, error) {
		var result AtmoAuRAResult
		params := url.Values{}
		params.Set("api_token", s.atmoKey)
		params.Set("x", fmt.Sprintf("%.4f", location.Longitude))
		params.Set("y", fmt.Sprintf("%.4f", location.Latitude))
		if _, err := s.http.Get(ctx, s.atmoURL+"/api/v1/valeurs/point", &result, params, nil); err != nil {
			return result, fmt.Errorf("failed to request AtmoAuRA API: %w", err)
		}
		return result, nil
	}
}

func (s *Service) get(ctx context.Context, path string, params url.Values, target any) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("token", token)
	if query.Get("lang") == "" {
		query.Set("lang", s.settings.LanguageCode())
	}
	query.Set("formatDate", "timestamp")
	if _, err = s.http.Get(ctx, s.baseURL+path, target, query, nil); err != nil {
		return fmt.Errorf("failed to request Météo-France API: %w", err)
	}
	return nil
}

// fetch returns a sub-request decoding the endpoint at path into a T.
func fetch[T any](s *Service, path string, params url.Values) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		var result T
		err := s.get(ctx, path, params, &result)
		return result, err
	}
}

func coordinates(location weather.Location) url.Values {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", location.Latitude))
	params.Set("lon", fmt.Sprintf("%.4f", location.Longitude))
	return params
}
