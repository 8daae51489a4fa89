// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package metno implements the MET Norway weather source. MET Norway offers no
// geocoding, so locations are resolved through a geocode.Geocoder.
package metno

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	APIEndpoint = "https://api.met.no/weatherapi"
	name        = "MET Norway"
)

type Service struct {
	baseURL    string
	http       *http.Client
	log        *logger.Logger
	settings   source.Settings
	geocoder   geocode.Geocoder
	dispatcher *source.Dispatcher
}

func New(client *http.Client, log *logger.Logger, settings source.Settings, geocoder geocode.Geocoder) *Service {
	return &Service{
		baseURL:    APIEndpoint,
		http:       client,
		log:        log.With(slog.String("source", string(weather.SourceMetNo))),
		settings:   settings,
		geocoder:   geocoder,
		dispatcher: source.NewDispatcher(),
	}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Source() weather.Source {
	return weather.SourceMetNo
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

// RequestLocation searches places by name through the geocoder.
func (s *Service) RequestLocation(ctx context.Context, query string) []weather.Location {
	if s.geocoder == nil {
		return []weather.Location{}
	}
	addrs, err := s.geocoder.Search(ctx, query)
	if err != nil {
		s.log.Error("failed to search locations", slog.String("query", query),
			slog.String("geocoder", s.geocoder.Name()), logger.Err(err))
		return []weather.Location{}
	}
	locations := make([]weather.Location, 0, len(addrs))
	for _, addr := range addrs {
		locations = append(locations, ConvertLocation(nil, addr))
	}
	return locations
}

// ReverseLocation resolves the names of the coordinates of location through the
// geocoder.
func (s *Service) ReverseLocation(ctx context.Context, location weather.Location) (weather.Location, error) {
	if s.geocoder == nil {
		return location, source.ErrLocationNotFound
	}
	addr, err := s.geocoder.Reverse(ctx, location.Latitude, location.Longitude)
	if err != nil {
		return location, fmt.Errorf("%w: %w", source.ErrLocationNotFound, err)
	}
	addr.Latitude, addr.Longitude = location.Latitude, location.Longitude
	return ConvertLocation(&location, addr), nil
}

// FetchWeather requests the location forecast of location together with the sun
// times of today and, in Norway, the air quality forecast.
func (s *Service) FetchWeather(ctx context.Context, location weather.Location) (*weather.Weather, error) {
	var (
		forecast LocationforecastResult
		sun      SunriseResult
		aqi      AirQualityResult
	)
	coords := coordinates(location)
	sunParams := coordinates(location)
	today := s.settings.CurrentTime().In(location.TZ())
	sunParams.Set("date", today.Format("2006-01-02"))
	sunParams.Set("offset", today.Format("-07:00"))

	join := source.NewJoin(ctx, s.log)
	source.Required(join, "location forecast", &forecast,
		fetch[LocationforecastResult](s, "/locationforecast/2.0/complete", coords))
	source.Optional(join, "sun times", true, &sun, SunriseResult{},
		fetch[SunriseResult](s, "/sunrise/3.0/sun", sunParams))
	source.Optional(join, "air quality", strings.EqualFold(location.CountryCode, "NO"), &aqi,
		AirQualityResult{}, fetch[AirQualityResult](s, "/airqualityforecast/0.1/", coords))
	if err := join.Wait(); err != nil {
		return nil, err
	}

	return ConvertWeather(s.settings, location, forecast, sun, aqi)
}

// fetch returns a sub-request decoding the endpoint at path into a T.
func fetch[T any](s *Service, path string, params url.Values) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		var result T
		_, err := s.http.Get(ctx, s.baseURL+path, &result, params, nil)
		if err != nil {
			err = fmt.Errorf("failed to request MET Norway API: %w", err)
		}
		return result, err
	}
}

// coordinates returns the query of location. The API rejects more than four decimals.
func coordinates(location weather.Location) url.Values {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.4f", location.Latitude))
	params.Set("lon", fmt.Sprintf("%.4f", location.Longitude))
	return params
}
