// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"strings"
	"time"
)

// Source identifies the weather provider that owns a Location.
type Source string

const (
	SourceAccu      Source = "accu"
	SourceChina     Source = "china"
	SourceMetNo     Source = "metno"
	SourceMf        Source = "mf"
	SourceOpenMeteo Source = "openmeteo"
	SourceOwm       Source = "owm"
)

var chinaCountryCodes = []string{"CN", "HK", "TW"}

// Location is a place weather is fetched for.
type Location struct {
	CityID          string
	Latitude        float64
	Longitude       float64
	TimeZone        string
	Country         string
	CountryCode     string
	Province        string
	City            string
	District        string
	Source          Source
	CurrentPosition bool
	China           bool

	Weather *Weather
}

// WithWeather returns a copy of the Location carrying the given Weather.
func (l Location) WithWeather(w *Weather) Location {
	l.Weather = w
	return l
}

// TZ returns the location's timezone, falling back to the local timezone.
func (l Location) TZ() *time.Location {
	if l.TimeZone == "" {
		return time.Local
	}
	tz, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return time.Local
	}
	return tz
}

// HasAdminNames reports whether any administrative name is set.
func (l Location) HasAdminNames() bool {
	return l.Province != "" || l.City != "" || l.District != ""
}

// IsChina reports whether the country code belongs to the China region.
func IsChina(countryCode string) bool {
	for _, code := range chinaCountryCodes {
		if strings.EqualFold(countryCode, code) {
			return true
		}
	}
	return false
}
