// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weatherfold/internal/i18n"
	"github.com/wneessen/weatherfold/internal/unit"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

var (
	testNow = time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)
	sunrise = time.Date(2026, 1, 18, 7, 1, 2, 0, time.UTC)
	sunset  = time.Date(2026, 1, 18, 17, 39, 41, 0, time.UTC)
)

func testLocation() weather.Location {
	data := weather.NewWeather()
	data.Base.UpdateTime = testNow.Add(-time.Minute * 5)
	data.Current = weather.Current{
		WeatherText:      "Partly cloudy",
		WeatherCode:      weather.CodePartlyCloudy,
		Temperature:      weather.Temperature{Temperature: vartype.NewVariable(20), Apparent: vartype.NewVariable(18)},
		Wind:             weather.NewWind(225, 16),
		RelativeHumidity: vartype.NewVariable(87.0),
		Pressure:         vartype.NewVariable(1013.2),
		Precipitation:    weather.Precipitation{Total: vartype.NewVariable(25.4)},
		UV:               weather.NewUV(3, ""),
		HourlyForecast:   "No rain expected within the next hour",
	}
	data.Daily = []weather.Daily{
		{
			Date:      time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
			Day:       &weather.HalfDay{WeatherText: "Rain", WeatherCode: weather.CodeRain, Temperature: weather.NewTemperature(22)},
			Night:     &weather.HalfDay{WeatherText: "Clear", WeatherCode: weather.CodeClear, Temperature: weather.NewTemperature(11)},
			Sun:       weather.Astro{Rise: sunrise, Set: sunset},
			MoonPhase: weather.MoonPhase{Angle: vartype.NewVariable(180), Description: "Full moon"},
		},
		{
			Date:  time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC),
			Night: &weather.HalfDay{WeatherText: "Fog", WeatherCode: weather.CodeFog, Temperature: weather.NewTemperature(8)},
		},
	}
	data.Alerts = []weather.Alert{
		{ID: 1, Description: "Storm warning", Type: "Wind", Priority: 2},
		{ID: 2, Description: "Unranked", Priority: 9},
	}
	return weather.Location{
		City:      "Cologne",
		Province:  "North Rhine-Westphalia",
		Country:   "Germany",
		TimeZone:  "UTC",
		Source:    weather.SourceOpenMeteo,
		Latitude:  50.9375,
		Longitude: 6.9603,
		Weather:   data,
	}
}

func testPresenter(t *testing.T, lang string, opts Options) *Presenter {
	t.Helper()
	localizer, err := i18n.New(lang)
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	presenter, err := New(localizer, language.MustParse(lang), opts)
	if err != nil {
		t.Fatalf("failed to create presenter: %s", err)
	}
	presenter.now = func() time.Time { return testNow }
	return presenter
}

func detail(ctx TemplateContext, label string) (string, bool) {
	for _, row := range ctx.Current.Details {
		if row.Label == label {
			return row.Value, true
		}
	}
	return "", false
}

func TestNew(t *testing.T) {
	t.Run("new presenter with defaults succeeds", func(t *testing.T) {
		presenter, err := New(nil, language.English, Options{})
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		if presenter.opts.Precipitation != unit.Millimeter || presenter.opts.DailyDays != 7 {
			t.Errorf("unexpected default options: %+v", presenter.opts)
		}
	})
	t.Run("new presenter with broken template fails", func(t *testing.T) {
		if _, err := New(nil, language.English, Options{Template: "{{ .Place"}); err == nil {
			t.Error("expected presenter to fail, but didn't")
		}
	})
}

func TestPresenter_BuildContext(t *testing.T) {
	t.Run("metric context", func(t *testing.T) {
		ctx := testPresenter(t, "en", Options{}).BuildContext(testLocation())
		if ctx.Place != "Cologne, North Rhine-Westphalia, Germany" {
			t.Errorf("unexpected place: %s", ctx.Place)
		}
		if ctx.Current.Temperature != "20°C" {
			t.Errorf("expected temperature to be: 20°C, got %s", ctx.Current.Temperature)
		}
		if ctx.Current.Icon != "⛅" {
			t.Errorf("expected day icon, got %s", ctx.Current.Icon)
		}
		if value, _ := detail(ctx, "Feels like"); value != "18°C" {
			t.Errorf("expected feels like to be: 18°C, got %s", value)
		}
		if value, _ := detail(ctx, "Wind"); value != "SW 16 km/h (Gentle breeze)" {
			t.Errorf("unexpected wind: %s", value)
		}
		if value, _ := detail(ctx, "Precipitation"); value != "25.4 mm" {
			t.Errorf("unexpected precipitation: %s", value)
		}
		if value, _ := detail(ctx, "Sunrise"); value != "07:01" {
			t.Errorf("expected sunrise to be: 07:01, got %s", value)
		}
		if value, _ := detail(ctx, "Moon phase"); value != "🌕 Full moon" {
			t.Errorf("unexpected moon phase: %s", value)
		}
		if _, ok := detail(ctx, "Air quality"); ok {
			t.Error("expected unset air quality to be skipped")
		}
		if ctx.LabelWidth != len("Precipitation") {
			t.Errorf("expected label width to be: %d, got %d", len("Precipitation"), ctx.LabelWidth)
		}
		if ctx.Updated == "" {
			t.Error("expected humanized update time")
		}
	})
	t.Run("imperial units", func(t *testing.T) {
		ctx := testPresenter(t, "en", Options{Imperial: true, Precipitation: unit.Inch}).BuildContext(testLocation())
		if ctx.Current.Temperature != "68°F" {
			t.Errorf("expected temperature to be: 68°F, got %s", ctx.Current.Temperature)
		}
		if value, _ := detail(ctx, "Wind"); value != "SW 10 mph (Gentle breeze)" {
			t.Errorf("unexpected wind: %s", value)
		}
		if value, _ := detail(ctx, "Precipitation"); value != "1 in" {
			t.Errorf("unexpected precipitation: %s", value)
		}
	})
	t.Run("dailies fall back to the night half", func(t *testing.T) {
		ctx := testPresenter(t, "en", Options{}).BuildContext(testLocation())
		if len(ctx.Daily) != 2 {
			t.Fatalf("expected 2 dailies, got %d", len(ctx.Daily))
		}
		if ctx.Daily[0].Low != "11°C" || ctx.Daily[0].High != "22°C" {
			t.Errorf("unexpected extremes: %+v", ctx.Daily[0])
		}
		if ctx.Daily[1].Condition != "Fog" || ctx.Daily[1].High != "-" || ctx.Daily[1].Low != "8°C" {
			t.Errorf("unexpected night only daily: %+v", ctx.Daily[1])
		}
	})
	t.Run("daily count is limited", func(t *testing.T) {
		ctx := testPresenter(t, "en", Options{DailyDays: 1}).BuildContext(testLocation())
		if len(ctx.Daily) != 1 {
			t.Errorf("expected 1 daily, got %d", len(ctx.Daily))
		}
	})
	t.Run("alerts carry priority icons", func(t *testing.T) {
		ctx := testPresenter(t, "en", Options{}).BuildContext(testLocation())
		if len(ctx.Alerts) != 2 {
			t.Fatalf("expected 2 alerts, got %d", len(ctx.Alerts))
		}
		if ctx.Alerts[0].Icon != "🟧" || ctx.Alerts[1].Icon != "⬜" {
			t.Errorf("unexpected alert icons: %s %s", ctx.Alerts[0].Icon, ctx.Alerts[1].Icon)
		}
	})
	t.Run("night icon after sunset", func(t *testing.T) {
		presenter := testPresenter(t, "en", Options{})
		presenter.now = func() time.Time { return time.Date(2026, 1, 18, 21, 0, 0, 0, time.UTC) }
		location := testLocation()
		location.Weather.Current.WeatherCode = weather.CodeClear
		if ctx := presenter.BuildContext(location); ctx.Current.Icon != "🌙" {
			t.Errorf("expected night icon, got %s", ctx.Current.Icon)
		}
	})
	t.Run("german labels", func(t *testing.T) {
		ctx := testPresenter(t, "de", Options{}).BuildContext(testLocation())
		if _, ok := detail(ctx, "Luftfeuchtigkeit"); !ok {
			t.Errorf("expected translated humidity label, got %+v", ctx.Current.Details)
		}
	})
	t.Run("coordinates without place names", func(t *testing.T) {
		if name := placeName(weather.Location{Latitude: 1.5, Longitude: -2.25}); name != "1.5000, -2.2500" {
			t.Errorf("unexpected place name: %s", name)
		}
	})
}

func TestPresenter_Render(t *testing.T) {
	t.Run("default template", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		if err := testPresenter(t, "en", Options{}).Render(buf, testLocation()); err != nil {
			t.Fatalf("failed to render weather: %s", err)
		}
		output := buf.String()
		for _, want := range []string{"Cologne", "openmeteo", "⛅ Partly cloudy, 20°C", "Forecast", "Storm warning (Wind)",
			"No rain expected within the next hour"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})
	t.Run("custom template", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		presenter := testPresenter(t, "en", Options{Template: `{{ uc .Place }}|{{ pad "ab" 4 }}|`})
		if err := presenter.Render(buf, testLocation()); err != nil {
			t.Fatalf("failed to render weather: %s", err)
		}
		if buf.String() != "COLOGNE, NORTH RHINE-WESTPHALIA, GERMANY|ab  |" {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
	t.Run("location without weather fails", func(t *testing.T) {
		if err := testPresenter(t, "en", Options{}).Render(bytes.NewBuffer(nil), weather.Location{}); err == nil {
			t.Error("expected render to fail, but didn't")
		}
	})
}

func TestFuncs(t *testing.T) {
	t.Run("float format truncates", func(t *testing.T) {
		if got := floatFormat(1.2399, 2); got != "1.23" {
			t.Errorf("expected 1.23, got %s", got)
		}
	})
	t.Run("pad respects wide runes", func(t *testing.T) {
		if got := pad("雨", 4); got != "雨  " {
			t.Errorf("unexpected padding: %q", got)
		}
	})
	t.Run("moon icon wraps around", func(t *testing.T) {
		if moonIcon(360) != "🌑" || moonIcon(90) != "🌓" {
			t.Errorf("unexpected moon icons: %s %s", moonIcon(360), moonIcon(90))
		}
	})
}
