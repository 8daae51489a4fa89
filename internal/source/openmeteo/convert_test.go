// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	forecastFile   = "../../../testdata/openmeteo_forecast.json"
	airQualityFile = "../../../testdata/openmeteo_airquality.json"
	searchFile     = "../../../testdata/openmeteo_search.json"
)

// testNow is 10:30 in Berlin.
var testNow = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

func loadJSON[T any](t *testing.T, file string) T {
	t.Helper()
	var result T
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read JSON file: %s", err)
	}
	if err = json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to unmarshal JSON file %s: %s", file, err)
	}
	return result
}

func testSettings() source.Settings {
	return source.Settings{Now: func() time.Time { return testNow }}
}

func testLocation() weather.Location {
	return weather.Location{
		CityID:      "2950159",
		Latitude:    52.52437,
		Longitude:   13.41053,
		TimeZone:    "Europe/Berlin",
		Country:     "Deutschland",
		CountryCode: "DE",
		Province:    "Land Berlin",
		City:        "Berlin",
		Source:      weather.SourceOpenMeteo,
	}
}

// testForecast returns three days of hourly data starting on May 31st with the
// timestamps as wall clock times, the way omgo decodes them. Every day is overcast
// and warms up by half a degree per hour, with rain around noon of June 1st.
func testForecast() *omgo.Forecast {
	forecast := &omgo.Forecast{
		CurrentWeather: omgo.CurrentWeather{
			Time:          omgo.ApiTime{Time: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)},
			Temperature:   18.7,
			WeatherCode:   2,
			WindSpeed:     12.3,
			WindDirection: 270,
		},
		HourlyMetrics: make(map[string][]float64),
		DailyTimes: []time.Time{
			time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		DailyMetrics: map[string][]float64{
			"temperature_2m_max":       {22, 24, 26},
			"temperature_2m_min":       {8, 9, 11},
			"apparent_temperature_max": {21, 23, 25},
			"apparent_temperature_min": {7, 8, 10},
			"uv_index_max":             {5, 6.4, 7},
			"sunshine_duration":        {36000, 28800, 0},
		},
	}
	add := func(name string, val float64) {
		forecast.HourlyMetrics[name] = append(forecast.HourlyMetrics[name], val)
	}
	for day := 0; day < 3; day++ {
		for hour := 0; hour < 24; hour++ {
			forecast.HourlyTimes = append(forecast.HourlyTimes, time.Date(2025, 5, 31+day, hour, 0, 0, 0, time.UTC))

			precip, code := 0.0, 3.0
			switch {
			case day == 1 && hour >= 6 && hour <= 17:
				precip = 0.5
			case day == 2 && hour == 2:
				precip = 1
			}
			switch {
			case day == 1 && hour == 12:
				code = 61
			case day == 2 && hour == 0:
				code = 45
			}
			speed, direction, probability := 10.0, 270.0, 20.0
			if day == 1 && hour == 14 {
				speed, direction = 25, 180
			}
			if day == 1 && hour == 15 {
				probability = 70
			}
			uv, isDay := 0.0, 0.0
			if hour >= 6 && hour < 21 {
				uv, isDay = 3, 1
			}

			add("temperature_2m", 10+float64(hour)/2)
			add("apparent_temperature", 9+float64(hour)/2)
			add("relative_humidity_2m", 60)
			add("dew_point_2m", 8.4)
			add("pressure_msl", 1013.2)
			add("cloud_cover", 50)
			add("visibility", 24140)
			add("weather_code", code)
			add("precipitation", precip)
			add("rain", precip)
			add("showers", 0)
			add("snowfall", 0)
			add("precipitation_probability", probability)
			add("wind_speed_10m", speed)
			add("wind_direction_10m", direction)
			add("uv_index", uv)
			add("is_day", isDay)
		}
	}
	return forecast
}

func convertFixtures(t *testing.T) *weather.Weather {
	t.Helper()
	result, err := ConvertWeather(testSettings(), testLocation(), testForecast(),
		loadJSON[AirQualityResult](t, airQualityFile))
	if err != nil {
		t.Fatalf("failed to convert weather: %s", err)
	}
	return result
}

func dailyOf(t *testing.T, dailies []weather.Daily, day int) weather.Daily {
	t.Helper()
	for _, daily := range dailies {
		if daily.Date.Day() == day {
			return daily
		}
	}
	t.Fatalf("daily of day %d not found", day)
	return weather.Daily{}
}

func TestWeatherCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want weather.Code
	}{
		{"clear sky", 0, weather.CodeClear},
		{"partly cloudy", 2, weather.CodePartlyCloudy},
		{"overcast", 3, weather.CodeCloudy},
		{"rime fog", 48, weather.CodeFog},
		{"freezing drizzle", 56, weather.CodeSleet},
		{"rain showers", 81, weather.CodeRain},
		{"snow grains", 77, weather.CodeSnow},
		{"thunderstorm", 95, weather.CodeThunderstorm},
		{"thunderstorm with hail", 99, weather.CodeHail},
		{"unknown code", 42, weather.CodeUnset},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if code, _ := WeatherCode(tc.code); code != tc.want {
				t.Errorf("expected code %s, got %s", tc.want, code)
			}
		})
	}
}

func TestConvertWeather(t *testing.T) {
	t.Run("current conditions", func(t *testing.T) {
		result := convertFixtures(t)
		current := result.Current
		if current.WeatherCode != weather.CodePartlyCloudy || current.WeatherText != "Partly cloudy" {
			t.Errorf("unexpected current weather: %s (%s)", current.WeatherCode, current.WeatherText)
		}
		if current.Temperature.Temperature.Value() != 19 || current.Temperature.Apparent.Value() != 14 {
			t.Errorf("unexpected current temperature: %+v", current.Temperature)
		}
		if current.Wind.Speed.Value() != 12.3 || current.Wind.Direction != "W" {
			t.Errorf("unexpected current wind: %+v", current.Wind)
		}
		if current.RelativeHumidity.Value() != 60 || current.Pressure.Value() != 1013.2 {
			t.Errorf("unexpected humidity %s or pressure %s", current.RelativeHumidity, current.Pressure)
		}
		if current.DewPoint.Value() != 8 || current.CloudCover.Value() != 50 {
			t.Errorf("unexpected dew point %s or cloud cover %s", current.DewPoint, current.CloudCover)
		}
		if current.Visibility.Value() != 24.14 {
			t.Errorf("expected visibility of 24.14 km, got %s", current.Visibility)
		}
		if current.Precipitation.Total.Value() != 0.5 || current.PrecipitationProbability.Total.Value() != 20 {
			t.Errorf("unexpected current precipitation: %+v", current.Precipitation)
		}
		if current.UV.Index.Value() != 3 {
			t.Errorf("expected UV index of 3, got %s", current.UV.Index)
		}
		if current.AirQuality.AQIIndex.Value() != 35 || current.AirQuality.AQIText != "Fair" {
			t.Errorf("unexpected current air quality: %+v", current.AirQuality)
		}
		if current.AirQuality.PM25.Value() != 8.2 {
			t.Errorf("expected PM2.5 of 8.2, got %s", current.AirQuality.PM25)
		}
		if !result.Base.PublishTime.Equal(time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)) {
			t.Errorf("unexpected publish time: %s", result.Base.PublishTime)
		}
	})
	t.Run("half-days use the shifted midnight", func(t *testing.T) {
		first := dailyOf(t, convertFixtures(t).Daily, 1)
		if first.Day == nil || first.Night == nil {
			t.Fatal("expected day and night of June 1st")
		}
		if first.Day.WeatherCode != weather.CodeRain || first.Night.WeatherCode != weather.CodeFog {
			t.Errorf("unexpected half-day codes %s/%s", first.Day.WeatherCode, first.Night.WeatherCode)
		}
		if first.Day.Precipitation.Total.Value() != 6 {
			t.Errorf("expected day precipitation of 6, got %s", first.Day.Precipitation.Total)
		}
		if first.Night.Precipitation.Total.Value() != 1 {
			t.Errorf("expected 02:00 of June 2nd in the night of June 1st, got %s",
				first.Night.Precipitation.Total)
		}
		if first.Day.Wind.Speed.Value() != 25 || first.Day.Wind.Direction != "S" {
			t.Errorf("expected strongest wind of the day, got %+v", first.Day.Wind)
		}
		if first.Day.PrecipitationProbability.Total.Value() != 70 {
			t.Errorf("expected probability of 70, got %s", first.Day.PrecipitationProbability.Total)
		}
	})
	t.Run("night lows come from the following day", func(t *testing.T) {
		dailies := convertFixtures(t).Daily
		if len(dailies) != 3 {
			t.Fatalf("expected 3 dailies, got %d", len(dailies))
		}
		first := dailyOf(t, dailies, 1)
		if first.Day.Temperature.Temperature.Value() != 24 || first.Day.Temperature.Apparent.Value() != 23 {
			t.Errorf("expected day maximum of 24, got %+v", first.Day.Temperature)
		}
		if first.Night.Temperature.Temperature.Value() != 11 || first.Night.Temperature.Apparent.Value() != 10 {
			t.Errorf("expected night minimum of June 2nd, got %+v", first.Night.Temperature)
		}
		last := dailyOf(t, dailies, 2)
		if last.Night == nil || last.Night.Temperature.Temperature.Value() != 13 {
			t.Errorf("expected last night to keep its derived minimum, got %+v", last.Night)
		}
	})
	t.Run("stale hours feed the half-days but are not emitted", func(t *testing.T) {
		result := convertFixtures(t)
		if len(result.Hourly) != 38 {
			t.Fatalf("expected 38 hourlies, got %d", len(result.Hourly))
		}
		first := result.Hourly[0]
		if first.Date.Hour() != 10 || first.Date.Day() != 1 || first.Date.Location().String() != "Europe/Berlin" {
			t.Errorf("expected first hourly at 10:00 in Berlin, got %s", first.Date)
		}
		past := dailyOf(t, result.Daily, 31)
		if past.Day == nil || past.Day.Temperature.Temperature.Value() != 22 {
			t.Errorf("expected the past day to be derived, got %+v", past.Day)
		}
		if past.Night == nil || past.Night.Temperature.Temperature.Value() != 9 {
			t.Errorf("expected the past night low of June 1st, got %+v", past.Night)
		}
	})
	t.Run("hourly samples", func(t *testing.T) {
		hourly := convertFixtures(t).Hourly
		first := hourly[0]
		if !first.IsDaylight || first.WeatherCode != weather.CodeCloudy {
			t.Errorf("unexpected first hourly: %+v", first)
		}
		if first.Temperature.Temperature.Value() != 15 || first.Precipitation.Rain.Value() != 0.5 {
			t.Errorf("unexpected first hourly values: %+v", first)
		}
		if first.Pollen.Grass.Index.Value() != 25 || first.Pollen.Grass.Level.Value() != 2 {
			t.Errorf("unexpected grass pollen: %+v", first.Pollen.Grass)
		}
		if first.Pollen.Tree.Index.Value() != 3 || first.Pollen.Tree.Description != "Low" {
			t.Errorf("expected tree pollen from birch, got %+v", first.Pollen.Tree)
		}
		if hourly[13].IsDaylight {
			t.Errorf("expected 23:00 to be dark, got %s", hourly[13].Date)
		}
		if hourly[len(hourly)-1].AirQuality.IsValid() {
			t.Error("expected hours without air quality data to stay empty")
		}
	})
	t.Run("daily astro and air quality", func(t *testing.T) {
		dailies := convertFixtures(t).Daily
		first := dailyOf(t, dailies, 1)
		if first.UV.Index.Value() != 6.4 || first.UV.Level != weather.UVLevelHigh {
			t.Errorf("unexpected daily UV: %+v", first.UV)
		}
		if first.HoursOfSun.Value() != 8 {
			t.Errorf("expected 8 hours of sun, got %s", first.HoursOfSun)
		}
		if last := dailyOf(t, dailies, 2); !last.HoursOfSun.IsSet() || last.HoursOfSun.Value() != 0 {
			t.Errorf("expected zero hours of sun, got %s", last.HoursOfSun)
		}
		if !first.Sun.IsValid() || !first.MoonPhase.Angle.IsSet() {
			t.Error("expected calculated sun and moon")
		}
		if first.AirQuality.AQIIndex.Value() != 55 || first.AirQuality.AQIText != "Moderate" {
			t.Errorf("expected worst air quality of the day, got %+v", first.AirQuality)
		}
		if first.Pollen.Grass.Index.Value() != 60 || first.Pollen.Grass.Description != "High" {
			t.Errorf("expected highest grass pollen of the day, got %+v", first.Pollen.Grass)
		}
	})
	t.Run("missing air quality", func(t *testing.T) {
		result, err := ConvertWeather(testSettings(), testLocation(), testForecast(), AirQualityResult{})
		if err != nil {
			t.Fatalf("failed to convert weather: %s", err)
		}
		if result.Current.AirQuality.IsValid() || result.Hourly[0].Pollen.IsValid() {
			t.Error("expected empty air quality")
		}
	})
	t.Run("empty forecast fails", func(t *testing.T) {
		if _, err := ConvertWeather(testSettings(), testLocation(), nil, AirQualityResult{}); !errors.Is(err, weather.ErrConversion) {
			t.Errorf("expected conversion error, got %v", err)
		}
		forecast := testForecast()
		forecast.CurrentWeather = omgo.CurrentWeather{}
		if _, err := ConvertWeather(testSettings(), testLocation(), forecast, AirQualityResult{}); !errors.Is(err, weather.ErrConversion) {
			t.Errorf("expected conversion error, got %v", err)
		}
	})
}

func TestConvertLocation(t *testing.T) {
	places := loadJSON[SearchResult](t, searchFile).Results
	t.Run("province falls back through the admin levels", func(t *testing.T) {
		berlin := ConvertLocation(nil, places[0])
		if berlin.CityID != "2950159" || berlin.Province != "Land Berlin" || berlin.TimeZone != "Europe/Berlin" {
			t.Errorf("unexpected location: %+v", berlin)
		}
		nh := ConvertLocation(nil, places[1])
		if nh.Province != "Coös County" || nh.CountryCode != "US" {
			t.Errorf("expected admin2 as province, got %+v", nh)
		}
		if berlin.China || berlin.Source != weather.SourceOpenMeteo {
			t.Errorf("unexpected flags: %+v", berlin)
		}
	})
	t.Run("existing names are kept", func(t *testing.T) {
		existing := weather.Location{City: "Home", Province: "Mine", CurrentPosition: true}
		merged := ConvertLocation(&existing, places[0])
		if merged.City != "Home" || merged.Province != "Mine" || !merged.CurrentPosition {
			t.Errorf("expected existing names, got %+v", merged)
		}
		if merged.CityID != "2950159" {
			t.Errorf("expected refreshed city ID, got %q", merged.CityID)
		}
	})
	t.Run("reverse geocoded addresses use the coordinates as ID", func(t *testing.T) {
		loc := ConvertAddress(nil, geocode.Address{Latitude: 52.52, Longitude: 13.405, City: "Berlin", CountryCode: "de"})
		if loc.CityID != "52.5200,13.4050" || loc.Source != weather.SourceOpenMeteo {
			t.Errorf("unexpected location: %+v", loc)
		}
	})
}
