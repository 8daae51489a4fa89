// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"

	"github.com/wneessen/weatherfold/internal/config"
	"github.com/wneessen/weatherfold/internal/geocode"
	geocodeearth "github.com/wneessen/weatherfold/internal/geocode/provider/geocode-earth"
	"github.com/wneessen/weatherfold/internal/geocode/provider/opencage"
	nominatim "github.com/wneessen/weatherfold/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/source/accu"
	"github.com/wneessen/weatherfold/internal/source/china"
	"github.com/wneessen/weatherfold/internal/source/metno"
	"github.com/wneessen/weatherfold/internal/source/mf"
	"github.com/wneessen/weatherfold/internal/source/openmeteo"
	"github.com/wneessen/weatherfold/internal/source/owm"
	"github.com/wneessen/weatherfold/internal/weather"
)

// newClient returns an HTTP client with its own circuit breaker.
func (s *Service) newClient(name string) *http.Client {
	client := http.NewNamed(name, s.logger)
	client.Timeout = s.config.HTTP.Timeout
	if s.transport != nil {
		client.Transport = s.transport
	}
	return client
}

func (s *Service) selectGeocoder() geocode.Geocoder {
	client := s.newClient("geocoder")
	var coder geocode.Geocoder
	switch s.config.Geocoder.Provider {
	case config.GeocoderOpenCage:
		coder = opencage.New(client, s.settings.Language, s.config.Geocoder.APIKey)
	case config.GeocoderGeocodeEarth:
		coder = geocodeearth.New(client, s.settings.Language, s.config.Geocoder.APIKey)
	default:
		coder = nominatim.New(client, s.settings.Language)
	}
	return geocode.NewCachedGeocoder(coder, s.config.Geocoder.CacheHit, s.config.Geocoder.CacheMiss)
}

func (s *Service) newServices() ([]source.Service, error) {
	conf := s.config
	services := []source.Service{
		accu.New(s.newClient(string(weather.SourceAccu)), s.logger, s.settings, conf.AccuWeather.APIKey),
		china.New(s.newClient(string(weather.SourceChina)), s.logger, s.settings),
		metno.New(s.newClient(string(weather.SourceMetNo)), s.logger, s.settings, s.geocoder),
		mf.New(s.newClient(string(weather.SourceMf)), s.logger, s.settings, mf.Credentials{
			Token:       conf.MeteoFrance.APIKey,
			SigningKey:  conf.MeteoFrance.JWTKey,
			AtmoAuRAKey: conf.AtmoAuRA.APIKey,
		}),
		owm.New(s.newClient(string(weather.SourceOwm)), s.logger, s.settings, conf.OpenWeatherMap.APIKey),
	}

	meteo, err := openmeteo.New(s.newClient(string(weather.SourceOpenMeteo)), s.logger, s.settings, s.geocoder)
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo service: %w", err)
	}
	return append(services, meteo), nil
}
