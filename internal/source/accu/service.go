// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package accu implements the AccuWeather weather source.
package accu

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
	APIEndpoint = "https://dataservice.accuweather.com"
	name        = "AccuWeather"
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
		log:        log.With(slog.String("source", string(weather.SourceAccu))),
		settings:   settings,
		dispatcher: source.NewDispatcher(),
	}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Source() weather.Source {
	return weather.SourceAccu
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

// RequestLocation searches AccuWeather cities by name.
func (s *Service) RequestLocation(ctx context.Context, query string) []weather.Location {
	var results []LocationResult
	params := url.Values{}
	params.Set("q", query)
	if err := s.get(ctx, "/locations/v1/cities/search", params, &results); err != nil {
		s.log.Error("failed to search locations", slog.String("query", query), logger.Err(err))
		return []weather.Location{}
	}
	locations := make([]weather.Location, 0, len(results))
	for _, result := range results {
		locations = append(locations, ConvertLocation(nil, result))
	}
	return locations
}

// ReverseLocation resolves the AccuWeather location key and names for the coordinates
// of location.
func (s *Service) ReverseLocation(ctx context.Context, location weather.Location) (weather.Location, error) {
	var result LocationResult
	params := url.Values{}
	params.Set("q", source.CoordinateQuery(location))
	if err := s.get(ctx, "/locations/v1/cities/geoposition/search", params, &result); err != nil {
		return location, err
	}
	if result.Key == "" {
		return location, source.ErrLocationNotFound
	}
	return ConvertLocation(&location, result), nil
}

// FetchWeather requests all AccuWeather endpoints for location and converts them.
func (s *Service) FetchWeather(ctx context.Context, location weather.Location) (*weather.Weather, error) {
	if location.CityID == "" {
		resolved, err := s.ReverseLocation(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve location key: %w", err)
		}
		location = resolved
	}
	key := url.PathEscape(location.CityID)

	var (
		current []CurrentResult
		daily   DailyResult
		hourly  []HourlyResult
		minute  MinuteResult
		alerts  []AlertResult
		aqi     AirQualityResult
	)
	coords := url.Values{}
	coords.Set("q", source.CoordinateQuery(location))

	join := source.NewJoin(ctx, s.log)
	source.Required(join, "current conditions", &current,
		fetch[[]CurrentResult](s, "/currentconditions/v1/"+key, detailed()))
	source.Required(join, "daily forecast", &daily,
		fetch[DailyResult](s, "/forecasts/v1/daily/15day/"+key, metric()))
	source.Required(join, "hourly forecast", &hourly,
		fetch[[]HourlyResult](s, "/forecasts/v1/hourly/72hour/"+key, metric()))
	source.Optional(join, "minutely forecast", true, &minute, MinuteResult{},
		fetch[MinuteResult](s, "/forecasts/v1/minute", coords))
	source.Optional(join, "alerts", true, &alerts, []AlertResult{},
		fetch[[]AlertResult](s, "/alerts/v1/"+key, detailed()))
	source.Optional(join, "air quality", true, &aqi, AirQualityResult{},
		fetch[AirQualityResult](s, "/airquality/v2/currentconditions/"+key, nil))
	if err := join.Wait(); err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: accu: empty current conditions", weather.ErrConversion)
	}

	return ConvertWeather(s.settings, location, current[0], daily, hourly, minute, alerts, aqi)
}

func (s *Service) get(ctx context.Context, path string, params url.Values, target any) error {
	if s.apikey == "" {
		return errors.New("no AccuWeather API key configured")
	}
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("apikey", s.apikey)
	query.Set("language", s.settings.LanguageCode())
	if _, err := s.http.Get(ctx, s.baseURL+path, target, query, nil); err != nil {
		return fmt.Errorf("failed to request AccuWeather API: %w", err)
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

func detailed() url.Values {
	params := url.Values{}
	params.Set("details", "true")
	return params
}

func metric() url.Values {
	params := detailed()
	params.Set("metric", "true")
	return params
}
