// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/http"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/testhelper"
)

const (
	cityExpected      = "Quartier 205, 67, Friedrichstraße, Friedrichstadt, Mitte, Berlin, 10117, Deutschland"
	cityFile          = "../../../../testdata/nominatim_berlin.json"
	cityFileBrokenLat = "../../../../testdata/nominatim_berlin_brokenlat.json"
	searchFile        = "../../../../testdata/nominatim_search.json"
	testHitTTL        = 1 * time.Second
	testMissTTL       = 1 * time.Second

	cityLat = 52.5129
	cityLon = 13.3910
)

func TestNew(t *testing.T) {
	t.Run("creating a new provider succeeds", func(t *testing.T) {
		coder := testCoder(t)
		if coder == nil {
			t.Fatal("expected a non-nil geocoder")
		}
	})
	t.Run("provider name is correct", func(t *testing.T) {
		coder := testCoder(t)
		if coder.Name() != name {
			t.Errorf("expected provider name to be %q, got %q", name, coder.Name())
		}
	})
}

func TestNominatim_Reverse(t *testing.T) {
	t.Run("reverse geocoding succeeds", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponder(t, cityFile, 200))
		addr, err := coder.Reverse(t.Context(), cityLat, cityLon)
		if err != nil {
			t.Fatal(err)
		}
		if !addr.AddressFound {
			t.Fatal("expected address to be found")
		}
		if !strings.EqualFold(addr.DisplayName, cityExpected) {
			t.Errorf("expected address to be %q, got %q", cityExpected, addr.DisplayName)
		}
		if addr.CountryCode != "DE" {
			t.Errorf("expected country code DE, got %q", addr.CountryCode)
		}
		if addr.City != "Berlin" {
			t.Errorf("expected city Berlin, got %q", addr.City)
		}
	})
	t.Run("reverse cached geocoding succeeds", func(t *testing.T) {
		coder := geocode.NewCachedGeocoder(testCoderWithRoundtripFunc(t,
			testhelper.FileResponder(t, cityFile, 200)), testHitTTL, testMissTTL)
		if _, err := coder.Reverse(t.Context(), cityLat, cityLon); err != nil {
			t.Fatal(err)
		}
		addr, err := coder.Reverse(t.Context(), cityLat, cityLon)
		if err != nil {
			t.Fatal(err)
		}
		if !addr.CacheHit {
			t.Error("expected cache hit")
		}
	})
	t.Run("reverse geocoding fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}
		coder := testCoderWithRoundtripFunc(t, rtFn)
		if _, err := coder.Reverse(t.Context(), cityLat, cityLon); err == nil {
			t.Fatal("expected API request to fail")
		}
	})
	t.Run("reverse geocoding fails on NaN latitude response", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponder(t, cityFileBrokenLat, 200))
		_, err := coder.Reverse(t.Context(), cityLat, cityLon)
		if err == nil {
			t.Fatal("expected API request to fail")
		}
		if !strings.Contains(err.Error(), "failed to parse latitude") {
			t.Errorf("expected error to contain 'failed to parse latitude', got %s", err)
		}
	})
}

func TestNominatim_Search(t *testing.T) {
	t.Run("search returns all matches", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponder(t, searchFile, 200))
		addrs, err := coder.Search(t.Context(), "Springfield")
		if err != nil {
			t.Fatal(err)
		}
		if len(addrs) != 2 {
			t.Fatalf("expected 2 addresses, got %d", len(addrs))
		}
		if addrs[0].City != "Springfield" || addrs[0].State != "Illinois" {
			t.Errorf("unexpected first address: %+v", addrs[0])
		}
		if addrs[1].City != "Springfield" || addrs[1].CountryCode != "US" {
			t.Errorf("expected town to be used as city, got %+v", addrs[1])
		}
		if addrs[0].Latitude != 39.7990175 {
			t.Errorf("expected latitude 39.7990175, got %f", addrs[0].Latitude)
		}
	})
	t.Run("search fails on API error", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponder(t, searchFile, 500))
		if _, err := coder.Search(t.Context(), "Springfield"); err == nil {
			t.Fatal("expected API request to fail")
		}
	})
}

func TestNominatim_Reverse_integration(t *testing.T) {
	testhelper.PerformIntegrationTests(t)
	t.Run("reverse geocoding succeeds", func(t *testing.T) {
		coder := testCoder(t)
		addr, err := coder.Reverse(t.Context(), cityLat, cityLon)
		if err != nil {
			t.Fatal(err)
		}
		if !addr.AddressFound {
			t.Fatal("expected address to be found")
		}
	})
}

func testCoder(_ *testing.T) geocode.Geocoder {
	testHttpClient := http.New(logger.New(slog.LevelDebug))
	testLang := language.English
	return New(testHttpClient, testLang)
}

func testCoderWithRoundtripFunc(_ *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) geocode.Geocoder {
	testHttpClient := http.New(logger.New(slog.LevelDebug))
	testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	testLang := language.English
	return New(testHttpClient, testLang)
}
