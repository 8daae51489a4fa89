// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package openmeteo implements the Open-Meteo weather source. The forecast is
// requested through the omgo client, air quality and place search through the
// separate Open-Meteo APIs. Reverse geocoding uses a geocode.Geocoder.
package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	APIEndpoint        = "https://api.open-meteo.com/v1/forecast"
	AirQualityEndpoint = "https://air-quality-api.open-meteo.com/v1/air-quality"
	GeocodingEndpoint  = "https://geocoding-api.open-meteo.com/v1/search"
	name               = "Open-Meteo"
	searchResults      = 10
)

var (
	hourlyMetrics = []string{
		"temperature_2m", "apparent_temperature", "relative_humidity_2m", "dew_point_2m", "pressure_msl",
		"cloud_cover", "visibility", "weather_code", "precipitation", "rain", "showers", "snowfall",
		"precipitation_probability", "wind_speed_10m", "wind_direction_10m", "uv_index", "is_day",
	}
	dailyMetrics = []string{
		"temperature_2m_max", "temperature_2m_min", "apparent_temperature_max", "apparent_temperature_min",
		"uv_index_max", "sunshine_duration",
	}
	airQualityMetrics = []string{
		"pm10", "pm2_5", "carbon_monoxide", "nitrogen_dioxide", "sulphur_dioxide", "ozone", "european_aqi",
		"alder_pollen", "birch_pollen", "grass_pollen", "mugwort_pollen", "olive_pollen", "ragweed_pollen",
	}
)

type Service struct {
	omclient   omgo.Client
	aqURL      string
	searchURL  string
	http       *http.Client
	log        *logger.Logger
	settings   source.Settings
	geocoder   geocode.Geocoder
	dispatcher *source.Dispatcher
}

// New returns the Open-Meteo service. The omgo client shares the transport of client.
func New(client *http.Client, log *logger.Logger, settings source.Settings, geocoder geocode.Geocoder) (*Service, error) {
	omclient, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	omclient.URL = APIEndpoint
	omclient.UserAgent = http.UserAgent
	omclient.Client = client.Client

	return &Service{
		omclient:   omclient,
		aqURL:      AirQualityEndpoint,
		searchURL:  GeocodingEndpoint,
		http:       client,
		log:        log.With(slog.String("source", string(weather.SourceOpenMeteo))),
		settings:   settings,
		geocoder:   geocoder,
		dispatcher: source.NewDispatcher(),
	}, nil
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Source() weather.Source {
	return weather.SourceOpenMeteo
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

// RequestLocation searches places by name through the Open-Meteo geocoding API.
func (s *Service) RequestLocation(ctx context.Context, query string) []weather.Location {
	var result SearchResult
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", fmt.Sprintf("%d", searchResults))
	params.Set("language", s.settings.LanguageCode())
	params.Set("format", "json")
	if _, err := s.http.Get(ctx, s.searchURL, &result, params, nil); err != nil {
		s.log.Error("failed to search locations", slog.String("query", query), logger.Err(err))
		return []weather.Location{}
	}
	locations := make([]weather.Location, 0, len(result.Results))
	for _, place := range result.Results {
		locations = append(locations, ConvertLocation(nil, place))
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
	return ConvertAddress(&location, addr), nil
}

// FetchWeather requests the forecast including the past day and the air quality
// of location.
func (s *Service) FetchWeather(ctx context.Context, location weather.Location) (*weather.Weather, error) {
	var (
		forecast *omgo.Forecast
		aqi      AirQualityResult
	)
	tz := timezoneParam(location)

	join := source.NewJoin(ctx, s.log)
	source.Required(join, "forecast", &forecast, s.fetchForecast(location, tz))
	source.Optional(join, "air quality", true, &aqi, AirQualityResult{}, s.fetchAirQuality(location, tz))
	if err := join.Wait(); err != nil {
		return nil, err
	}

	return ConvertWeather(s.settings, location, forecast, aqi)
}

func (s *Service) fetchForecast(location weather.Location, tz string) func(context.Context) (*omgo.Forecast, error) {
	return func(ctx context.Context) (*omgo.Forecast, error) {
		loc, err := omgo.NewLocation(location.Latitude, location.Longitude)
		if err != nil {
			return nil, fmt.Errorf("failed to create Open-Meteo location: %w", err)
		}
		opts := &omgo.Options{
			TemperatureUnit:   "celsius",
			WindspeedUnit:     "kmh",
			PrecipitationUnit: "mm",
			Timezone:          tz,
			PastDays:          1,
			HourlyMetrics:     hourlyMetrics,
			DailyMetrics:      dailyMetrics,
		}
		forecast, err := s.omclient.Forecast(ctx, loc, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to request Open-Meteo API: %w", err)
		}
		return forecast, nil
	}
}

func (s *Service) fetchAirQuality(location weather.Location, tz string) func(context.Context) (AirQualityResult, error) {
	return func(ctx context.Context) (AirQualityResult, error) {
		var result AirQualityResult
		params := url.Values{}
		params.Set("latitude", fmt.Sprintf("%.4f", location.Latitude))
		params.Set("longitude", fmt.Sprintf("%.4f", location.Longitude))
		params.Set("hourly", strings.Join(airQualityMetrics, ","))
		params.Set("timezone", tz)
		params.Set("past_days", "1")
		if _, err := s.http.Get(ctx, s.aqURL, &result, params, nil); err != nil {
			return result, fmt.Errorf("failed to request Open-Meteo air quality API: %w", err)
		}
		return result, nil
	}
}

// timezoneParam returns the timezone the APIs report wall clock times in. Locations
// without a named zone fall back to the zone the API derives from the coordinates.
func timezoneParam(location weather.Location) string {
	if location.TimeZone == "" || location.TimeZone == "Local" {
		return "auto"
	}
	return location.TimeZone
}
