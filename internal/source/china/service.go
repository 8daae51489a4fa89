// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package china implements the weather source for the China region. It uses the
// aggregate weather API that bundles current conditions, forecasts, air quality,
// alerts and the previous day into one response, plus a minutely nowcast.
package china

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	APIEndpoint  = "https://weatherapi.market.xiaomi.com/wtr-v3"
	name         = "China"
	// appKey and sign are the public credentials of the weather API.
	appKey       = "weather20151024"
	sign         = "zUFJoAR2ZVrDy1vF3D07"
	forecastDays = 15
)

type Service struct {
	baseURL    string
	http       *http.Client
	log        *logger.Logger
	settings   source.Settings
	dispatcher *source.Dispatcher
}

func New(client *http.Client, log *logger.Logger, settings source.Settings) *Service {
	return &Service{
		baseURL:    APIEndpoint,
		http:       client,
		log:        log.With(slog.String("source", string(weather.SourceChina))),
		settings:   settings,
		dispatcher: source.NewDispatcher(),
	}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Source() weather.Source {
	return weather.SourceChina
}

func (s *Service) IsConfigured() bool {
	return true
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

// RequestLocation searches cities by name. Results with unusable coordinates are
// skipped.
func (s *Service) RequestLocation(ctx context.Context, query string) []weather.Location {
	var results []CityResult
	params := url.Values{}
	params.Set("name", query)
	if err := s.get(ctx, "/location/city/search", params, &results); err != nil {
		s.log.Error("failed to search locations", slog.String("query", query), logger.Err(err))
		return []weather.Location{}
	}
	locations := make([]weather.Location, 0, len(results))
	for _, result := range results {
		location, err := ConvertLocation(nil, result)
		if err != nil {
			s.log.Warn("skipping location search result", slog.String("key", result.Key), logger.Err(err))
			continue
		}
		locations = append(locations, location)
	}
	return locations
}

// ReverseLocation resolves the city key and names of the coordinates of location.
func (s *Service) ReverseLocation(ctx context.Context, location weather.Location) (weather.Location, error) {
	var results []CityResult
	if err := s.get(ctx, "/location/city/geo", coordinates(location), &results); err != nil {
		return location, err
	}
	if len(results) == 0 || results[0].Key == "" {
		return location, source.ErrLocationNotFound
	}
	resolved, err := ConvertLocation(&location, results[0])
	if err != nil {
		return location, fmt.Errorf("%w: %w", source.ErrLocationNotFound, err)
	}
	// Keep the requested coordinates instead of the ones of the city center.
	resolved.Latitude, resolved.Longitude = location.Latitude, location.Longitude
	return resolved, nil
}

// FetchWeather requests the aggregate weather and, for mainland locations, the
// minutely nowcast.
func (s *Service) FetchWeather(ctx context.Context, location weather.Location) (*weather.Weather, error) {
	if location.CityID == "" {
		resolved, err := s.ReverseLocation(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve city key: %w", err)
		}
		location = resolved
	}

	var (
		result   WeatherResult
		minutely MinutelyResult
	)
	params := coordinates(location)
	params.Set("locationKey", keyPrefix+location.CityID)
	params.Set("days", fmt.Sprintf("%d", forecastDays))

	join := source.NewJoin(ctx, s.log)
	source.Required(join, "weather", &result, fetch[WeatherResult](s, "/weather/all", params))
	source.Optional(join, "minutely forecast", location.CountryCode == "" || location.CountryCode == "CN",
		&minutely, MinutelyResult{}, fetch[MinutelyResult](s, "/weather/xm/forecast/minutely", coordinates(location)))
	if err := join.Wait(); err != nil {
		return nil, err
	}

	return ConvertWeather(s.settings, location, result, minutely)
}

func (s *Service) get(ctx context.Context, path string, params url.Values, target any) error {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("appKey", appKey)
	query.Set("sign", sign)
	query.Set("isGlobal", "false")
	query.Set("locale", locale(s.settings.LanguageCode()))
	if _, err := s.http.Get(ctx, s.baseURL+path, target, query, nil); err != nil {
		return fmt.Errorf("failed to request China weather API: %w", err)
	}
	return nil
}

func fetch[T any](s *Service, path string, params url.Values) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		var result T
		err := s.get(ctx, path, params, &result)
		return result, err
	}
}

func coordinates(location weather.Location) url.Values {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", location.Latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", location.Longitude))
	return params
}

// locale returns the API locale. Chinese names are only served to Chinese users.
func locale(lang string) string {
	if lang == "zh" {
		return "zh_cn"
	}
	return "en_us"
}
