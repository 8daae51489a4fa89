// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package owm implements the OpenWeatherMap weather source on top of the One Call
// API 3.0, the air pollution forecast and the OpenWeatherMap geocoder.
package owm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	APIEndpoint   = "https://api.openweathermap.org"
	name          = "OpenWeatherMap"
	searchResults = 5
)

type Service struct {
	apikey     string
	baseURL    string
	http       *http.Client
	log        *logger.Logger
	settings   source.Settings
	dispatcher *source.Dispatcher
}

func New(client *http.Client, log *logger.Logger, settings source.Settings, apikey string) *Service {
	return &Service{
		apikey:     apikey,
		baseURL:    APIEndpoint,
		http:       client,
		log:        log.With(slog.String("source", string(weather.SourceOwm))),
		settings:   settings,
		dispatcher: source.NewDispatcher(),
	}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Source() weather.Source {
	return weather.SourceOwm
}

func (s *Service) IsConfigured() bool {
	return s.apikey != ""
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

// RequestLocation searches places by name through the direct geocoding API.
func (s *Service) RequestLocation(ctx context.Context, query string) []weather.Location {
	var results []GeoResult
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", searchResults))
	if err := s.get(ctx, "/geo/1.0/direct", params, &results); err != nil {
		s.log.Error("failed to search locations", slog.String("query", query), logger.Err(err))
		return []weather.Location{}
	}
	lang := s.settings.LanguageCode()
	locations := make([]weather.Location, 0, len(results))
	for _, result := range results {
		locations = append(locations, ConvertLocation(nil, result, lang))
	}
	return locations
}

// ReverseLocation resolves the names of the coordinates of location through the
// reverse geocoding API.
func (s *Service) ReverseLocation(ctx context.Context, location weather.Location) (weather.Location, error) {
	var results []GeoResult
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", location.Latitude))
	params.Set("lon", fmt.Sprintf("%.4f", location.Longitude))
	params.Set("limit", "1")
	if err := s.get(ctx, "/geo/1.0/reverse", params, &results); err != nil {
		return location, err
	}
	if len(results) == 0 {
		return location, source.ErrLocationNotFound
	}
	// Keep the requested coordinates instead of the ones of the matched place.
	results[0].Lat, results[0].Lon = location.Latitude, location.Longitude
	return ConvertLocation(&location, results[0], s.settings.LanguageCode()), nil
}

// FetchWeather requests the One Call forecast and the air pollution forecast of
// location.
func (s *Service) FetchWeather(ctx context.Context, location weather.Location) (*weather.Weather, error) {
	var (
		onecall   OneCallResult
		pollution AirPollutionResult
	)
	coords := url.Values{}
	coords.Set("lat", fmt.Sprintf("%.4f", location.Latitude))
	coords.Set("lon", fmt.Sprintf("%.4f", location.Longitude))

	forecast := url.Values{}
	for k, v := range coords {
		forecast[k] = v
	}
	forecast.Set("units", "metric")
	forecast.Set("lang", s.settings.LanguageCode())

	join := source.NewJoin(ctx, s.log)
	source.Required(join, "one call forecast", &onecall,
		fetch[OneCallResult](s, "/data/3.0/onecall", forecast))
	source.Optional(join, "air pollution", true, &pollution, AirPollutionResult{},
		fetch[AirPollutionResult](s, "/data/2.5/air_pollution/forecast", coords))
	if err := join.Wait(); err != nil {
		return nil, err
	}

	return ConvertWeather(s.settings, location, onecall, pollution)
}

func (s *Service) get(ctx context.Context, path string, params url.Values, target any) error {
	if s.apikey == "" {
		return errors.New("no OpenWeatherMap API key configured")
	}
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("appid", s.apikey)
	if _, err := s.http.Get(ctx, s.baseURL+path, target, query, nil); err != nil {
		return fmt.Errorf("failed to request OpenWeatherMap API: %w", err)
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
