// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package source defines the contract every weather source implements and the
// plumbing the sources share to fetch, join and deliver their results.
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	wfhttp "github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/unit"
	"github.com/wneessen/weatherfold/internal/weather"
)

// ErrLocationNotFound is returned when a geocoding request yields no usable location.
var ErrLocationNotFound = errors.New("location not found")

// ErrorKind classifies why a weather request failed.
type ErrorKind int

const (
	ErrorGeneric ErrorKind = iota
	ErrorAPILimit
	ErrorUnauthorized
	ErrorConversion
	ErrorLocation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorAPILimit:
		return "api limit reached"
	case ErrorUnauthorized:
		return "unauthorized"
	case ErrorConversion:
		return "conversion failed"
	case ErrorLocation:
		return "location failed"
	default:
		return "request failed"
	}
}

// WeatherCallback receives exactly one result per weather request.
type WeatherCallback interface {
	RequestWeatherSuccess(location weather.Location)
	RequestWeatherFailed(location weather.Location, kind ErrorKind)
}

// LocationCallback receives exactly one result per reverse geocoding request.
type LocationCallback interface {
	RequestLocationSuccess(query string, locations []weather.Location)
	RequestLocationFailed(query string)
}

// Service is implemented by each weather source.
type Service interface {
	Name() string
	Source() weather.Source
	IsConfigured() bool
	// RequestWeather fetches and converts the weather for location and reports the
	// result to cb asynchronously.
	RequestWeather(ctx context.Context, location weather.Location, cb WeatherCallback)
	// RequestLocation searches locations by name. It returns an empty slice on failure.
	RequestLocation(ctx context.Context, query string) []weather.Location
	// RequestReverseLocation resolves the coordinates of location and reports the
	// result to cb asynchronously.
	RequestReverseLocation(ctx context.Context, location weather.Location, cb LocationCallback)
	// Cancel drops all pending results of the service.
	Cancel()
}

// Settings are the user preferences handed into every conversion.
type Settings struct {
	Language          language.Tag
	PrecipitationUnit unit.Precipitation
	Localizer         *spreak.Localizer
	Now               func() time.Time
}

// CurrentTime returns the time conversions are evaluated at.
func (s Settings) CurrentTime() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// LanguageCode returns the two letter language code of the settings.
func (s Settings) LanguageCode() string {
	base, _ := s.Language.Base()
	if base.String() == "und" {
		return "en"
	}
	return base.String()
}

// Translate returns the localized message, or msg itself without a localizer.
func (s Settings) Translate(msg string) string {
	if s.Localizer == nil || msg == "" {
		return msg
	}
	return s.Localizer.Get(msg)
}

// Classify maps an error of a weather request to its ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrorGeneric
	}
	if errors.Is(err, weather.ErrConversion) {
		return ErrorConversion
	}
	if errors.Is(err, ErrLocationNotFound) {
		return ErrorLocation
	}
	if errors.Is(err, wfhttp.ErrCircuitOpen) {
		return ErrorAPILimit
	}
	var statusErr *wfhttp.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrorAPILimit
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrorUnauthorized
		}
	}
	return ErrorGeneric
}
