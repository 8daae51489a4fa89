// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kkyr/fig"

	"github.com/wneessen/weatherfold/internal/unit"
	"github.com/wneessen/weatherfold/internal/weather"
)

const configEnv = "WEATHERFOLD"

// Geocoder provider names.
const (
	GeocoderNominatim    = "nominatim"
	GeocoderOpenCage     = "opencage"
	GeocoderGeocodeEarth = "geocode-earth"
)

var sources = []weather.Source{
	weather.SourceAccu, weather.SourceChina, weather.SourceMetNo, weather.SourceMf,
	weather.SourceOpenMeteo, weather.SourceOwm,
}

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units string `fig:"units" default:"metric"`
	// Allowed values: mm, cm, in, lpsqm
	PrecipitationUnit string     `fig:"precipitation_unit" default:"mm"`
	Locale            string     `fig:"locale"`
	LogLevel          slog.Level `fig:"loglevel" default:"0"`

	Weather struct {
		// Allowed values: accu, china, metno, mf, openmeteo, owm
		Source string `fig:"source" default:"openmeteo"`
	} `fig:"weather"`

	AccuWeather struct {
		APIKey string `fig:"apikey"`
	} `fig:"accuweather"`

	OpenWeatherMap struct {
		APIKey string `fig:"apikey"`
	} `fig:"openweathermap"`

	MeteoFrance struct {
		APIKey string `fig:"apikey"`
		JWTKey string `fig:"jwt_key"`
	} `fig:"meteofrance"`

	AtmoAuRA struct {
		APIKey string `fig:"apikey"`
	} `fig:"atmoaura"`

	Geocoder struct {
		// Allowed values: nominatim, opencage, geocode-earth
		Provider  string        `fig:"provider" default:"nominatim"`
		APIKey    string        `fig:"apikey"`
		CacheHit  time.Duration `fig:"cache_hit" default:"24h"`
		CacheMiss time.Duration `fig:"cache_miss" default:"10m"`
	} `fig:"geocoder"`

	HTTP struct {
		Timeout time.Duration `fig:"timeout" default:"10s"`
	} `fig:"http"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if _, err := unit.ParsePrecipitation(c.PrecipitationUnit); err != nil {
		return fmt.Errorf("invalid precipitation unit: %w", err)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if !slices.Contains(sources, weather.Source(c.Weather.Source)) {
		return fmt.Errorf("invalid weather source: %s", c.Weather.Source)
	}
	switch c.Geocoder.Provider {
	case GeocoderNominatim:
	case GeocoderOpenCage, GeocoderGeocodeEarth:
		if c.Geocoder.APIKey == "" {
			return fmt.Errorf("geocoder %s requires an API key", c.Geocoder.Provider)
		}
	default:
		return fmt.Errorf("invalid geocoder provider: %s", c.Geocoder.Provider)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("invalid HTTP timeout: %s", c.HTTP.Timeout)
	}

	return nil
}

// Precipitation returns the configured precipitation unit.
func (c *Config) Precipitation() unit.Precipitation {
	precip, err := unit.ParsePrecipitation(c.PrecipitationUnit)
	if err != nil {
		return unit.Millimeter
	}
	return precip
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
