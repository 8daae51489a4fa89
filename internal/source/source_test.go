// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	wfhttp "github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/weather"
)

type recordingCallback struct {
	mu        sync.Mutex
	successes []weather.Location
	failures  []ErrorKind
	queries   []string
	locations []weather.Location
	failed    []string
}

func (c *recordingCallback) RequestWeatherSuccess(location weather.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes = append(c.successes, location)
}

func (c *recordingCallback) RequestWeatherFailed(_ weather.Location, kind ErrorKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, kind)
}

func (c *recordingCallback) RequestLocationSuccess(query string, locations []weather.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	c.locations = append(c.locations, locations...)
}

func (c *recordingCallback) RequestLocationFailed(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, query)
}

func (c *recordingCallback) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.successes) + len(c.failures) + len(c.queries) + len(c.failed)
}

var testLocation = weather.Location{CityID: "42", Latitude: 50.9375, Longitude: 6.9603, City: "Cologne"}

func TestDispatcher_Weather(t *testing.T) {
	t.Run("a successful fetch delivers the location with its weather", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			cb := &recordingCallback{}
			d := NewDispatcher()
			d.Weather(t.Context(), testLocation, cb, func(context.Context, weather.Location) (*weather.Weather, error) {
				return weather.NewWeather(), nil
			})
			d.Wait()
			if len(cb.successes) != 1 || cb.successes[0].Weather == nil {
				t.Fatalf("expected one success with weather, got %+v", cb.successes)
			}
			if testLocation.Weather != nil {
				t.Error("expected the requested location to stay untouched")
			}
		})
	})
	t.Run("a failed fetch delivers the classified error", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			cb := &recordingCallback{}
			d := NewDispatcher()
			d.Weather(t.Context(), testLocation, cb, func(context.Context, weather.Location) (*weather.Weather, error) {
				return nil, &wfhttp.StatusError{StatusCode: http.StatusUnauthorized}
			})
			d.Wait()
			if len(cb.failures) != 1 || cb.failures[0] != ErrorUnauthorized {
				t.Fatalf("expected one unauthorized failure, got %+v", cb.failures)
			}
			if len(cb.successes) != 0 {
				t.Error("expected no success")
			}
		})
	})
	t.Run("cancel discards results that were not yet delivered", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			cb := &recordingCallback{}
			d := NewDispatcher()
			release := make(chan struct{})
			d.Weather(t.Context(), testLocation, cb, func(ctx context.Context, _ weather.Location) (*weather.Weather, error) {
				<-release
				return weather.NewWeather(), nil
			})
			synctest.Wait()
			if d.InFlight() != 1 {
				t.Fatalf("expected one request in flight, got %d", d.InFlight())
			}
			d.Cancel()
			close(release)
			d.Wait()
			if cb.calls() != 0 {
				t.Errorf("expected no callback after cancel, got %d", cb.calls())
			}
		})
	})
	t.Run("cancel propagates to the fetch context", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			cb := &recordingCallback{}
			d := NewDispatcher()
			var fetchErr error
			d.Weather(t.Context(), testLocation, cb, func(ctx context.Context, _ weather.Location) (*weather.Weather, error) {
				select {
				case <-ctx.Done():
					fetchErr = ctx.Err()
					return nil, ctx.Err()
				case <-time.After(time.Hour):
					return weather.NewWeather(), nil
				}
			})
			synctest.Wait()
			d.Cancel()
			d.Wait()
			if !errors.Is(fetchErr, context.Canceled) {
				t.Errorf("expected fetch to be canceled, got %v", fetchErr)
			}
			if cb.calls() != 0 {
				t.Errorf("expected no callback after cancel, got %d", cb.calls())
			}
		})
	})
	t.Run("cancel waits for a delivery in progress", func(t *testing.T) {
		cb := &recordingCallback{}
		d := NewDispatcher()
		reached := make(chan struct{})
		release := make(chan struct{})
		d.beforeDeliver = func() {
			close(reached)
			<-release
		}
		d.Weather(t.Context(), testLocation, cb, func(context.Context, weather.Location) (*weather.Weather, error) {
			return weather.NewWeather(), nil
		})
		<-reached

		canceled := make(chan int)
		go func() {
			d.Cancel()
			canceled <- cb.calls()
		}()
		select {
		case <-canceled:
			t.Fatal("expected cancel to wait for the delivery in progress")
		case <-time.After(time.Millisecond * 50):
		}
		close(release)
		if calls := <-canceled; calls != 1 {
			t.Errorf("expected delivery to complete before cancel returned, got %d calls", calls)
		}
		d.Wait()
		if cb.calls() != 1 {
			t.Errorf("expected exactly one callback, got %d", cb.calls())
		}
	})
	t.Run("cancel without requests in flight is safe", func(t *testing.T) {
		d := NewDispatcher()
		d.Cancel()
		d.Cancel()
		d.Wait()
	})
	t.Run("requests after cancel are delivered again", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			cb := &recordingCallback{}
			d := NewDispatcher()
			d.Cancel()
			d.Weather(t.Context(), testLocation, cb, func(context.Context, weather.Location) (*weather.Weather, error) {
				return weather.NewWeather(), nil
			})
			d.Wait()
			if len(cb.successes) != 1 {
				t.Errorf("expected one success, got %d", len(cb.successes))
			}
		})
	})
}

func TestDispatcher_ReverseLocation(t *testing.T) {
	t.Run("resolved locations are delivered", func(t *testing.T) {
		cb := &recordingCallback{}
		d := NewDispatcher()
		d.ReverseLocation(t.Context(), testLocation, cb, func(context.Context, weather.Location) ([]weather.Location, error) {
			return []weather.Location{testLocation}, nil
		})
		d.Wait()
		if len(cb.locations) != 1 || cb.queries[0] != "50.9375,6.9603" {
			t.Errorf("expected one location for the coordinate query, got %+v / %+v", cb.locations, cb.queries)
		}
	})
	t.Run("empty results fail", func(t *testing.T) {
		cb := &recordingCallback{}
		d := NewDispatcher()
		d.ReverseLocation(t.Context(), testLocation, cb, func(context.Context, weather.Location) ([]weather.Location, error) {
			return nil, nil
		})
		d.Wait()
		if len(cb.failed) != 1 {
			t.Errorf("expected one failure, got %d", len(cb.failed))
		}
	})
}

func TestJoin(t *testing.T) {
	log := logger.NewLogger(slog.LevelDebug, io.Discard)

	t.Run("all results are available after wait regardless of completion order", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			join := NewJoin(t.Context(), log)
			var first, second string
			Required(join, "first", &first, func(context.Context) (string, error) {
				time.Sleep(time.Second * 2)
				return "first", nil
			})
			Required(join, "second", &second, func(context.Context) (string, error) {
				time.Sleep(time.Second)
				return "second", nil
			})
			if err := join.Wait(); err != nil {
				t.Fatalf("join failed: %s", err)
			}
			if first != "first" || second != "second" {
				t.Errorf("unexpected results: %q, %q", first, second)
			}
		})
	})
	t.Run("a failing optional request becomes the placeholder", func(t *testing.T) {
		join := NewJoin(t.Context(), log)
		var required, optional string
		Required(join, "required", &required, func(context.Context) (string, error) {
			return "data", nil
		})
		Optional(join, "optional", true, &optional, "placeholder", func(context.Context) (string, error) {
			return "", errors.New("intentionally failing")
		})
		if err := join.Wait(); err != nil {
			t.Fatalf("expected join to succeed, got: %s", err)
		}
		if optional != "placeholder" {
			t.Errorf("expected placeholder, got %q", optional)
		}
	})
	t.Run("an inapplicable optional request is never fetched", func(t *testing.T) {
		join := NewJoin(t.Context(), log)
		var optional string
		fetched := false
		Optional(join, "optional", false, &optional, "placeholder", func(context.Context) (string, error) {
			fetched = true
			return "data", nil
		})
		if err := join.Wait(); err != nil {
			t.Fatalf("expected join to succeed, got: %s", err)
		}
		if fetched || optional != "placeholder" {
			t.Errorf("expected placeholder without fetch, got %q (fetched: %t)", optional, fetched)
		}
	})
	t.Run("a failing required request fails the join and cancels the others", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			join := NewJoin(t.Context(), log)
			var required, optional string
			var optionalErr error
			Required(join, "required", &required, func(context.Context) (string, error) {
				return "", errors.New("intentionally failing")
			})
			Optional(join, "optional", true, &optional, "placeholder", func(ctx context.Context) (string, error) {
				select {
				case <-ctx.Done():
					optionalErr = ctx.Err()
					return "", ctx.Err()
				case <-time.After(time.Hour):
					return "data", nil
				}
			})
			err := join.Wait()
			if err == nil {
				t.Fatal("expected join to fail")
			}
			if !errors.Is(optionalErr, context.Canceled) {
				t.Errorf("expected optional request to be canceled, got %v", optionalErr)
			}
		})
	})
}

func TestGuard(t *testing.T) {
	t.Run("panics become conversion errors", func(t *testing.T) {
		result, err := Guard("test", func() (*weather.Weather, error) {
			var daily *weather.Daily
			_ = daily.Date
			return weather.NewWeather(), nil
		})
		if result != nil {
			t.Error("expected no weather")
		}
		if !errors.Is(err, weather.ErrConversion) {
			t.Errorf("expected conversion error, got %v", err)
		}
	})
	t.Run("errors are wrapped once", func(t *testing.T) {
		_, err := Guard("test", func() (*weather.Weather, error) {
			return weather.NewWeather(), errors.New("broken")
		})
		if !errors.Is(err, weather.ErrConversion) {
			t.Errorf("expected conversion error, got %v", err)
		}
	})
	t.Run("nil results fail", func(t *testing.T) {
		if _, err := Guard("test", func() (*weather.Weather, error) { return nil, nil }); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("successful conversions pass through", func(t *testing.T) {
		w := weather.NewWeather()
		result, err := Guard("test", func() (*weather.Weather, error) { return w, nil })
		if err != nil || result != w {
			t.Errorf("expected weather to pass through, got %v", err)
		}
	})
	t.Run("require rejects nil values", func(t *testing.T) {
		var daily *weather.Daily
		if err := Require(daily, "daily"); !errors.Is(err, weather.ErrConversion) {
			t.Errorf("expected conversion error, got %v", err)
		}
		if err := Require(&weather.Daily{}, "daily"); err != nil {
			t.Errorf("expected no error, got %s", err)
		}
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"rate limit", &wfhttp.StatusError{StatusCode: http.StatusTooManyRequests}, ErrorAPILimit},
		{"open circuit", fmt.Errorf("%w: open", wfhttp.ErrCircuitOpen), ErrorAPILimit},
		{"unauthorized", fmt.Errorf("wrapped: %w", &wfhttp.StatusError{StatusCode: http.StatusUnauthorized}), ErrorUnauthorized},
		{"forbidden", &wfhttp.StatusError{StatusCode: http.StatusForbidden}, ErrorUnauthorized},
		{"conversion", fmt.Errorf("%w: broken", weather.ErrConversion), ErrorConversion},
		{"location", ErrLocationNotFound, ErrorLocation},
		{"generic", errors.New("boom"), ErrorGeneric},
		{"not found status", &wfhttp.StatusError{StatusCode: http.StatusNotFound}, ErrorGeneric},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestMergeLocation(t *testing.T) {
	fresh := weather.Location{
		CityID: "new", Latitude: 1, Longitude: 2, TimeZone: "UTC", Source: weather.SourceOwm,
		Country: "Provider Country", Province: "Provider Province", City: "Provider City",
	}
	t.Run("no existing location uses the fresh one", func(t *testing.T) {
		if got := MergeLocation(nil, fresh); got.City != "Provider City" {
			t.Errorf("expected provider city, got %q", got.City)
		}
	})
	t.Run("existing admin names are preserved", func(t *testing.T) {
		existing := &weather.Location{CityID: "old", Country: "Germany", City: "Köln", District: "Ehrenfeld",
			CurrentPosition: true}
		got := MergeLocation(existing, fresh)
		if got.CityID != "new" || got.Latitude != 1 || got.TimeZone != "UTC" || got.Source != weather.SourceOwm {
			t.Errorf("expected identity to be refreshed, got %+v", got)
		}
		if got.City != "Köln" || got.District != "Ehrenfeld" || got.Province != "" || got.Country != "Germany" {
			t.Errorf("expected admin names to be preserved, got %+v", got)
		}
		if !got.CurrentPosition {
			t.Error("expected current position flag to be preserved")
		}
	})
	t.Run("existing location without admin names is replaced", func(t *testing.T) {
		got := MergeLocation(&weather.Location{CurrentPosition: true}, fresh)
		if got.City != "Provider City" || !got.CurrentPosition {
			t.Errorf("unexpected merge result: %+v", got)
		}
	})
}

func TestCountryName(t *testing.T) {
	t.Run("known codes are named", func(t *testing.T) {
		if name := CountryName("DE"); name != "Germany" {
			t.Errorf("expected Germany, got %q", name)
		}
		if name := CountryName("fr"); name != "France" {
			t.Errorf("expected France, got %q", name)
		}
	})
	t.Run("malformed codes are returned as is", func(t *testing.T) {
		if name := CountryName("not a code"); name != "not a code" {
			t.Errorf("expected code itself, got %q", name)
		}
	})
	t.Run("first non-empty value wins", func(t *testing.T) {
		if got := FirstNonEmpty("", "admin2", "admin1"); got != "admin2" {
			t.Errorf("expected admin2, got %q", got)
		}
		if got := FirstNonEmpty("", ""); got != "" {
			t.Errorf("expected empty value, got %q", got)
		}
	})
}

type fakeService struct {
	src        weather.Source
	configured bool
	requests   int
	canceled   int
}

func (f *fakeService) Name() string           { return string(f.src) }
func (f *fakeService) Source() weather.Source { return f.src }
func (f *fakeService) IsConfigured() bool     { return f.configured }
func (f *fakeService) RequestWeather(_ context.Context, location weather.Location, cb WeatherCallback) {
	f.requests++
	cb.RequestWeatherSuccess(location.WithWeather(weather.NewWeather()))
}
func (f *fakeService) RequestLocation(context.Context, string) []weather.Location { return nil }
func (f *fakeService) RequestReverseLocation(_ context.Context, _ weather.Location, cb LocationCallback) {
	cb.RequestLocationFailed("")
}
func (f *fakeService) Cancel() { f.canceled++ }

func TestRegistry(t *testing.T) {
	owm := &fakeService{src: weather.SourceOwm, configured: true}
	accu := &fakeService{src: weather.SourceAccu}
	registry := NewRegistry(owm, accu, nil)

	t.Run("requests are dispatched by the location source", func(t *testing.T) {
		cb := &recordingCallback{}
		loc := testLocation
		loc.Source = weather.SourceOwm
		registry.RequestWeather(t.Context(), loc, cb)
		if owm.requests != 1 || len(cb.successes) != 1 {
			t.Errorf("expected owm to serve the request, got %d requests", owm.requests)
		}
	})
	t.Run("unconfigured services fail as unauthorized", func(t *testing.T) {
		cb := &recordingCallback{}
		loc := testLocation
		loc.Source = weather.SourceAccu
		registry.RequestWeather(t.Context(), loc, cb)
		if accu.requests != 0 || len(cb.failures) != 1 || cb.failures[0] != ErrorUnauthorized {
			t.Errorf("expected unauthorized failure, got %+v", cb.failures)
		}
	})
	t.Run("unknown sources fail", func(t *testing.T) {
		cb := &recordingCallback{}
		loc := testLocation
		loc.Source = weather.SourceMf
		registry.RequestWeather(t.Context(), loc, cb)
		if len(cb.failures) != 1 || cb.failures[0] != ErrorLocation {
			t.Errorf("expected location failure, got %+v", cb.failures)
		}
		if _, err := registry.Service(weather.SourceMf); err == nil {
			t.Error("expected lookup of unknown source to fail")
		}
	})
	t.Run("sources are listed", func(t *testing.T) {
		sources := registry.Sources()
		if len(sources) != 2 || sources[0] != weather.SourceAccu {
			t.Errorf("unexpected sources: %v", sources)
		}
	})
	t.Run("cancel reaches all services", func(t *testing.T) {
		registry.Cancel()
		if owm.canceled != 1 || accu.canceled != 1 {
			t.Error("expected all services to be canceled")
		}
	})
}

func TestSettings(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	settings := Settings{Now: func() time.Time { return now }}
	if !settings.CurrentTime().Equal(now) {
		t.Error("expected fixed time")
	}
	if settings.LanguageCode() != "en" {
		t.Errorf("expected default language en, got %s", settings.LanguageCode())
	}
	if settings.Translate("Rain") != "Rain" {
		t.Error("expected untranslated message without localizer")
	}
}
