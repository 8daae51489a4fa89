// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package owm

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/testhelper"
	"github.com/wneessen/weatherfold/internal/weather"
)

var testRoutes = map[string]string{
	"/data/3.0/onecall":                oneCallFile,
	"/data/2.5/air_pollution/forecast": airPollutionFile,
	"/geo/1.0/direct":                  geoFile,
	"/geo/1.0/reverse":                 geoFile,
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

type queries struct {
	mu   sync.Mutex
	seen map[string]url.Values
}

func (q *queries) get(path string) (url.Values, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	query, ok := q.seen[path]
	return query, ok
}

// testService serves the routes by path. Unknown paths respond with status.
func testService(t *testing.T, routes map[string]string, status int, apikey string) (*Service, *queries) {
	t.Helper()
	seen := &queries{seen: make(map[string]url.Values)}
	client := http.New(logger.New(slog.LevelDebug))
	client.Transport = testhelper.MockRoundTripper{Fn: func(req *stdhttp.Request) (*stdhttp.Response, error) {
		seen.mu.Lock()
		seen.seen[req.URL.Path] = req.URL.Query()
		seen.mu.Unlock()
		file, ok := routes[req.URL.Path]
		if !ok {
			return &stdhttp.Response{StatusCode: status, Status: stdhttp.StatusText(status),
				Body: io.NopCloser(strings.NewReader("{}")), Header: make(stdhttp.Header)}, nil
		}
		return testhelper.FileResponder(t, file, 200)(req)
	}}
	return New(client, logger.New(slog.LevelDebug), testSettings(), apikey), seen
}

func without(path string) map[string]string {
	routes := make(map[string]string)
	for key, file := range testRoutes {
		if key != path {
			routes[key] = file
		}
	}
	return routes
}

func TestService_FetchWeather(t *testing.T) {
	t.Run("forecast and air pollution are joined", func(t *testing.T) {
		service, seen := testService(t, testRoutes, 404, "secret")
		result, err := service.FetchWeather(t.Context(), testLocation())
		if err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		if !result.Current.AirQuality.IsValid() || len(result.Daily) != 2 {
			t.Errorf("unexpected result: %+v", result.Current)
		}
		query, ok := seen.get("/data/3.0/onecall")
		if !ok {
			t.Fatal("expected one call request")
		}
		if query.Get("appid") != "secret" || query.Get("units") != "metric" || query.Get("lang") != "en" {
			t.Errorf("unexpected one call query: %s", query.Encode())
		}
		if query, _ = seen.get("/data/2.5/air_pollution/forecast"); query.Get("lat") != "52.5244" {
			t.Errorf("unexpected air pollution query: %s", query.Encode())
		}
	})
	t.Run("failing air pollution is optional", func(t *testing.T) {
		service, _ := testService(t, without("/data/2.5/air_pollution/forecast"), 404, "secret")
		result, err := service.FetchWeather(t.Context(), testLocation())
		if err != nil {
			t.Fatalf("failed to fetch weather: %s", err)
		}
		if result.Current.AirQuality.IsValid() {
			t.Error("expected no air quality")
		}
	})
	t.Run("rejected API key is reported as unauthorized", func(t *testing.T) {
		service, _ := testService(t, without("/data/3.0/onecall"), 401, "wrong")
		cb := &recorder{}
		service.RequestWeather(t.Context(), testLocation(), cb)
		service.dispatcher.Wait()
		if len(cb.failures) != 1 || cb.failures[0] != source.ErrorUnauthorized {
			t.Fatalf("expected unauthorized failure, got %+v", cb)
		}
	})
	t.Run("missing API key fails without requests", func(t *testing.T) {
		service, seen := testService(t, testRoutes, 404, "")
		if service.IsConfigured() {
			t.Error("expected unconfigured service")
		}
		cb := &recorder{}
		service.RequestWeather(t.Context(), testLocation(), cb)
		service.dispatcher.Wait()
		if len(cb.failures) != 1 || len(cb.success) != 0 {
			t.Fatalf("expected one failure, got %+v", cb)
		}
		if _, ok := seen.get("/data/3.0/onecall"); ok {
			t.Error("expected no request without API key")
		}
	})
}

func TestService_Locations(t *testing.T) {
	t.Run("search returns all places", func(t *testing.T) {
		service, seen := testService(t, testRoutes, 404, "secret")
		locations := service.RequestLocation(t.Context(), "Berlin")
		if len(locations) != 2 {
			t.Fatalf("expected 2 locations, got %d", len(locations))
		}
		if locations[1].CountryCode != "US" || locations[1].Province != "New Hampshire" {
			t.Errorf("unexpected second location: %+v", locations[1])
		}
		if query, _ := seen.get("/geo/1.0/direct"); query.Get("q") != "Berlin" || query.Get("limit") != "5" {
			t.Errorf("unexpected search query: %s", query.Encode())
		}
	})
	t.Run("failing search returns no places", func(t *testing.T) {
		service, _ := testService(t, map[string]string{}, 500, "secret")
		if locations := service.RequestLocation(t.Context(), "Berlin"); len(locations) != 0 {
			t.Errorf("expected no locations, got %d", len(locations))
		}
	})
	t.Run("reverse location keeps the requested coordinates", func(t *testing.T) {
		service, _ := testService(t, testRoutes, 404, "secret")
		cb := &recorder{}
		service.RequestReverseLocation(t.Context(), weather.Location{Latitude: 52.52, Longitude: 13.405}, cb)
		service.dispatcher.Wait()
		if len(cb.found) != 1 {
			t.Fatalf("expected resolved location, got %+v", cb)
		}
		if cb.found[0].CityID != "52.5200,13.4050" || cb.found[0].City != "Berlin" {
			t.Errorf("unexpected location: %+v", cb.found[0])
		}
	})
	t.Run("failing reverse location is reported", func(t *testing.T) {
		service, _ := testService(t, without("/geo/1.0/reverse"), 404, "secret")
		cb := &recorder{}
		service.RequestReverseLocation(t.Context(), weather.Location{Latitude: 52.52, Longitude: 13.405}, cb)
		service.dispatcher.Wait()
		if len(cb.notFound) != 1 || cb.notFound[0] != "52.5200,13.4050" {
			t.Fatalf("expected failed lookup, got %+v", cb)
		}
	})
}
