// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package mf

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/testhelper"
	"github.com/wneessen/weatherfold/internal/weather"
)

var testRoutes = map[string]string{
	"/v2/forecast":                   forecastFile,
	"/v2/observation":                observationFile,
	"/v2/ephemeris":                  ephemerisFile,
	"/v3/rain":                       rainFile,
	"/v3/warning/currentphenomenons": warningsFile,
	"/api/v1/valeurs/point":          atmoFile,
	"/places":                        placesFile,
}

type recorder struct {
	mu       sync.Mutex
	success  []weather.Location
	failures []source.ErrorKind
	found    []weather.Location
	notFound []string
}

func (r *recorder) RequestWeatherSuccess(location weather.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = append(r.success, location)
}

func (r *recorder) RequestWeatherFailed(_ weather.Location, kind source.ErrorKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, kind)
}

func (r *recorder) RequestLocationSuccess(_ string, locations []weather.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found = append(r.found, locations...)
}

func (r *recorder) RequestLocationFailed(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = append(r.notFound, query)
}

// requestLog records the paths and query parameters of all requests.
type requestLog struct {
	mu     sync.Mutex
	paths  []string
	tokens []string
	langs  map[string]string
}

func (l *requestLog) add(req *stdhttp.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.langs == nil {
		l.langs = make(map[string]string)
	}
	l.paths = append(l.paths, req.URL.Path)
	l.tokens = append(l.tokens, req.URL.Query().Get("token"))
	l.langs[req.URL.Path] = req.URL.Query().Get("lang")
}

func (l *requestLog) requested(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.paths {
		if p == path {
			return true
		}
	}
	return false
}

func testService(t *testing.T, routes map[string]string, creds Credentials, log *requestLog) *Service {
	t.Helper()
	client := http.New(logger.New(slog.LevelDebug))
	client.Transport = testhelper.MockRoundTripper{Fn: func(req *stdhttp.Request) (*stdhttp.Response, error) {
		if log != nil {
			log.add(req)
		}
		file, ok := routes[req.URL.Path]
		if !ok {
			return &stdhttp.Response{StatusCode: 404, Body: io.NopCloser(strings.NewReader("{}")),
				Header: make(stdhttp.Header)}, nil
		}
		return testhelper.FileResponder(t, file, 200)(req)
	}}
	return New(client, logger.New(slog.LevelDebug), testSettings(), creds)
}

func TestService(t *testing.T) {
	t.Run("service identity", func(t *testing.T) {
		service := testService(t, testRoutes, Credentials{Token: "static"}, nil)
		if service.Name() != name || service.Source() != weather.SourceMf {
			t.Errorf("unexpected service identity: %s/%s", service.Name(), service.Source())
		}
		if !service.IsConfigured() {
			t.Error("expected service with token to be configured")
		}
		if testService(t, testRoutes, Credentials{}, nil).IsConfigured() {
			t.Error("expected service without credentials to be unconfigured")
		}
	})
}

func TestService_FetchWeather(t *testing.T) {
	t.Run("all endpoints are joined into one weather", func(t *testing.T) {
		log := &requestLog{}
		service := testService(t, testRoutes, Credentials{Token: "static", AtmoAuRAKey: "atmo"}, log)
		result, err := service.FetchWeather(t.Context(), testLocation())
		if err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		if len(log.paths) != 6 {
			t.Errorf("expected 6 requests, got %d: %v", len(log.paths), log.paths)
		}
		if len(result.Alerts) != 2 || len(result.Minutely) != 4 || !result.Current.AirQuality.IsValid() {
			t.Error("expected optional data to be present")
		}
		if log.langs["/v2/ephemeris"] != "en" {
			t.Errorf("expected English ephemeris, got %q", log.langs["/v2/ephemeris"])
		}
	})
	t.Run("static tokens are sent as is", func(t *testing.T) {
		log := &requestLog{}
		service := testService(t, testRoutes, Credentials{Token: "static"}, log)
		if _, err := service.FetchWeather(t.Context(), testLocation()); err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		for _, token := range log.tokens {
			if token != "static" {
				t.Errorf("expected static token, got %q", token)
			}
		}
	})
	t.Run("signed tokens are preferred", func(t *testing.T) {
		log := &requestLog{}
		service := testService(t, testRoutes, Credentials{Token: "static", SigningKey: "secret"}, log)
		if _, err := service.FetchWeather(t.Context(), testLocation()); err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		claims := &Claims{}
		_, err := jwt.ParseWithClaims(log.tokens[0], claims, func(*jwt.Token) (any, error) {
			return []byte("secret"), nil
		})
		if err != nil {
			t.Fatalf("expected a signed token, got %q: %s", log.tokens[0], err)
		}
	})
	t.Run("regional endpoints are skipped outside of their area", func(t *testing.T) {
		log := &requestLog{}
		service := testService(t, testRoutes, Credentials{Token: "static", AtmoAuRAKey: "atmo"}, log)
		location := testLocation()
		location.CountryCode = "BE"
		location.Latitude, location.Longitude = 50.8503, 4.3517
		location.CityID = "BE"
		if _, err := service.FetchWeather(t.Context(), location); err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		for _, path := range []string{"/v3/rain", "/v3/warning/currentphenomenons", "/api/v1/valeurs/point"} {
			if log.requested(path) {
				t.Errorf("expected %s not to be requested", path)
			}
		}
	})
	t.Run("AtmoAuRA needs a key", func(t *testing.T) {
		log := &requestLog{}
		service := testService(t, testRoutes, Credentials{Token: "static"}, log)
		if _, err := service.FetchWeather(t.Context(), testLocation()); err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		if log.requested("/api/v1/valeurs/point") {
			t.Error("expected AtmoAuRA not to be requested")
		}
	})
	t.Run("failing forecast fails the request", func(t *testing.T) {
		routes := make(map[string]string)
		for path, file := range testRoutes {
			if path != "/v2/forecast" {
				routes[path] = file
			}
		}
		service := testService(t, routes, Credentials{Token: "static"}, nil)
		if _, err := service.FetchWeather(t.Context(), testLocation()); err == nil {
			t.Fatal("expected weather request to fail")
		}
	})
	t.Run("missing credentials fail the request", func(t *testing.T) {
		service := testService(t, testRoutes, Credentials{}, nil)
		cb := &recorder{}
		service.RequestWeather(t.Context(), testLocation(), cb)
		service.dispatcher.Wait()
		if len(cb.failures) != 1 {
			t.Fatalf("expected one failure, got %+v", cb)
		}
	})
}

func TestService_Locations(t *testing.T) {
	t.Run("search returns all places", func(t *testing.T) {
		service := testService(t, testRoutes, Credentials{Token: "static"}, nil)
		locations := service.RequestLocation(t.Context(), "Lyon")
		if len(locations) != 2 {
			t.Fatalf("expected 2 locations, got %d", len(locations))
		}
		if locations[1].City != "Lyons-la-Forêt" || locations[1].Province != "Normandie" {
			t.Errorf("unexpected second location: %+v", locations[1])
		}
	})
	t.Run("reverse location is reported to the callback", func(t *testing.T) {
		service := testService(t, testRoutes, Credentials{Token: "static"}, nil)
		cb := &recorder{}
		service.RequestReverseLocation(t.Context(), weather.Location{Latitude: 45.7578, Longitude: 4.832}, cb)
		service.dispatcher.Wait()
		if len(cb.found) != 1 || cb.found[0].CityID != "69123" {
			t.Fatalf("expected resolved location, got %+v", cb)
		}
	})
	t.Run("failing reverse location is reported to the callback", func(t *testing.T) {
		service := testService(t, map[string]string{}, Credentials{Token: "static"}, nil)
		cb := &recorder{}
		service.RequestReverseLocation(t.Context(), weather.Location{Latitude: 45.7578, Longitude: 4.832}, cb)
		service.dispatcher.Wait()
		if len(cb.notFound) != 1 || cb.notFound[0] != "45.7578,4.8320" {
			t.Fatalf("expected failed lookup, got %+v", cb)
		}
	})
}
