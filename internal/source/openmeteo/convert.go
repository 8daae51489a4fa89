// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/timezone"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

// timeLayout is the format of all hourly timestamps of the APIs.
const timeLayout = "2006-01-02T15:04"

type wmoCode struct {
	code weather.Code
	text string
}

// wmoCodes maps the WMO weather interpretation codes.
var wmoCodes = map[int]wmoCode{
	0:  {weather.CodeClear, "Clear sky"},
	1:  {weather.CodeClear, "Mainly clear"},
	2:  {weather.CodePartlyCloudy, "Partly cloudy"},
	3:  {weather.CodeCloudy, "Overcast"},
	45: {weather.CodeFog, "Fog"},
	48: {weather.CodeFog, "Depositing rime fog"},
	51: {weather.CodeRain, "Light drizzle"},
	53: {weather.CodeRain, "Moderate drizzle"},
	55: {weather.CodeRain, "Dense drizzle"},
	56: {weather.CodeSleet, "Light freezing drizzle"},
	57: {weather.CodeSleet, "Dense freezing drizzle"},
	61: {weather.CodeRain, "Slight rain"},
	63: {weather.CodeRain, "Moderate rain"},
	65: {weather.CodeRain, "Heavy rain"},
	66: {weather.CodeSleet, "Light freezing rain"},
	67: {weather.CodeSleet, "Heavy freezing rain"},
	71: {weather.CodeSnow, "Slight snow fall"},
	73: {weather.CodeSnow, "Moderate snow fall"},
	75: {weather.CodeSnow, "Heavy snow fall"},
	77: {weather.CodeSnow, "Snow grains"},
	80: {weather.CodeRain, "Slight rain showers"},
	81: {weather.CodeRain, "Moderate rain showers"},
	82: {weather.CodeRain, "Violent rain showers"},
	85: {weather.CodeSnow, "Slight snow showers"},
	86: {weather.CodeSnow, "Heavy snow showers"},
	95: {weather.CodeThunderstorm, "Thunderstorm"},
	96: {weather.CodeHail, "Thunderstorm with slight hail"},
	99: {weather.CodeHail, "Thunderstorm with heavy hail"},
}

// WeatherCode maps a WMO code into a weather code and an English description.
// Unknown codes yield an unset code.
func WeatherCode(code int) (weather.Code, string) {
	wmo, ok := wmoCodes[code]
	if !ok {
		return weather.CodeUnset, ""
	}
	return wmo.code, wmo.text
}

// ConvertLocation builds a Location from a geocoding API place. The province is
// the most specific administrative area the place carries.
func ConvertLocation(existing *weather.Location, place Place) weather.Location {
	tz := place.Timezone
	if tz == "" {
		tz = timezone.NameOrLocal(place.Latitude, place.Longitude)
	}
	fresh := weather.Location{
		CityID:      strconv.FormatInt(place.ID, 10),
		Latitude:    place.Latitude,
		Longitude:   place.Longitude,
		TimeZone:    tz,
		Country:     place.Country,
		CountryCode: strings.ToUpper(place.CountryCode),
		Province:    source.FirstNonEmpty(place.Admin2, place.Admin1, place.Admin3, place.Admin4),
		City:        place.Name,
		Source:      weather.SourceOpenMeteo,
		China:       weather.IsChina(place.CountryCode),
	}
	return source.MergeLocation(existing, fresh)
}

// ConvertAddress builds a Location from a reverse geocoded address. The coordinates
// serve as city ID.
func ConvertAddress(existing *weather.Location, addr geocode.Address) weather.Location {
	fresh := addr.Location(weather.SourceOpenMeteo)
	fresh.CityID = fmt.Sprintf("%.4f,%.4f", addr.Latitude, addr.Longitude)
	fresh.TimeZone = timezone.NameOrLocal(addr.Latitude, addr.Longitude)
	return source.MergeLocation(existing, fresh)
}

// ConvertWeather folds an Open-Meteo forecast and the air quality of the same hours
// into a Weather. The forecast timestamps are wall clock times of the location.
func ConvertWeather(settings source.Settings, location weather.Location, forecast *omgo.Forecast,
	aqi AirQualityResult,
) (*weather.Weather, error) {
	return source.Guard("openmeteo", func() (*weather.Weather, error) {
		if forecast == nil || len(forecast.HourlyTimes) == 0 {
			return nil, errors.New("hourly forecast is empty")
		}
		if forecast.CurrentWeather.Time.Time.IsZero() {
			return nil, errors.New("current weather is missing")
		}

		tz := location.TZ()
		now := settings.CurrentTime()
		result := weather.NewWeather()
		result.Base = weather.Base{
			CityID:      location.CityID,
			PublishTime: wallClock(forecast.CurrentWeather.Time.Time, tz),
			UpdateTime:  now,
		}

		air := newAirIndex(aqi, tz)
		hourlies := make([]weather.Hourly, 0, len(forecast.HourlyTimes))
		current := 0
		for i, t := range forecast.HourlyTimes {
			date := wallClock(t, tz)
			hourlies = append(hourlies, convertHourly(settings, forecast.HourlyMetrics, i, date, air))
			if !date.After(now) {
				current = i
			}
		}
		result.Current = convertCurrent(settings, forecast, current)
		result.Current.AirQuality = air.at(hourlies[current].Date).quality

		// The 06:00 to 05:59 half-day buckets of CompleteDaily attribute early
		// morning hours to the previous day. Stale hours take part as well.
		dailies, index := convertDailies(forecast, air, tz)
		result.Daily = weather.CompleteDaily(dailies, hourlies, tz)
		applyExtremes(result.Daily, forecast.DailyMetrics, index)
		weather.CompleteAstro(result.Daily, location.Latitude, location.Longitude, tz)

		result.Hourly = weather.FilterHourly(hourlies, now)
		return result, nil
	})
}

func convertCurrent(settings source.Settings, forecast *omgo.Forecast, idx int) weather.Current {
	cw := forecast.CurrentWeather
	metrics := forecast.HourlyMetrics
	result := weather.Current{
		Temperature:      weather.NewTemperature(cw.Temperature),
		Wind:             weather.NewWind(cw.WindDirection, cw.WindSpeed),
		RelativeHumidity: metric(metrics, "relative_humidity_2m", idx),
		Pressure:         metric(metrics, "pressure_msl", idx),
		DewPoint:         weather.CelsiusFrom(metric(metrics, "dew_point_2m", idx)),
		CloudCover:       rounded(metric(metrics, "cloud_cover", idx)),
		Visibility: vartype.Convert(metric(metrics, "visibility", idx), func(m float64) float64 {
			return math.Round(m/10) / 100
		}),
	}
	result.Temperature.Apparent = weather.CelsiusFrom(metric(metrics, "apparent_temperature", idx))
	result.WeatherCode, result.WeatherText = WeatherCode(int(math.Round(cw.WeatherCode)))
	result.WeatherText = settings.Translate(result.WeatherText)
	result.Precipitation = precipitation(metrics, idx)
	result.PrecipitationProbability.Total = metric(metrics, "precipitation_probability", idx)
	if uv := metric(metrics, "uv_index", idx); uv.IsSet() {
		result.UV = weather.NewUV(uv.Value(), "")
	}
	return result
}

func convertHourly(settings source.Settings, metrics map[string][]float64, idx int, date time.Time,
	air *airIndex,
) weather.Hourly {
	result := weather.Hourly{
		Date:       date,
		IsDaylight: metric(metrics, "is_day", idx).ValueOr(1) > 0,
		Temperature: weather.Temperature{
			Temperature: weather.CelsiusFrom(metric(metrics, "temperature_2m", idx)),
			Apparent:    weather.CelsiusFrom(metric(metrics, "apparent_temperature", idx)),
		},
		Precipitation: precipitation(metrics, idx),
	}
	if code := metric(metrics, "weather_code", idx); code.IsSet() {
		result.WeatherCode, result.WeatherText = WeatherCode(int(math.Round(code.Value())))
		result.WeatherText = settings.Translate(result.WeatherText)
	}
	result.PrecipitationProbability.Total = metric(metrics, "precipitation_probability", idx)
	if speed := metric(metrics, "wind_speed_10m", idx); speed.IsSet() {
		result.Wind = weather.NewWind(metric(metrics, "wind_direction_10m", idx).ValueOr(-1), speed.Value())
	}
	if uv := metric(metrics, "uv_index", idx); uv.IsSet() {
		result.UV = weather.NewUV(uv.Value(), "")
	}
	sample := air.at(date)
	result.AirQuality = sample.quality
	result.Pollen = sample.pollen
	return result
}

// precipitation returns the amounts of an hour in millimeters. Snowfall is reported
// in centimeters.
func precipitation(metrics map[string][]float64, idx int) weather.Precipitation {
	return weather.Precipitation{
		Total: metric(metrics, "precipitation", idx),
		Rain:  vartype.Sum(metric(metrics, "rain", idx), metric(metrics, "showers", idx)),
		Snow:  vartype.Convert(metric(metrics, "snowfall", idx), func(cm float64) float64 { return cm * 10 }),
	}
}

// convertDailies returns one Daily per forecast day and the index of each day in
// the daily metrics, keyed by date.
func convertDailies(forecast *omgo.Forecast, air *airIndex, tz *time.Location) ([]weather.Daily, map[string]int) {
	dailies := make([]weather.Daily, 0, len(forecast.DailyTimes))
	index := make(map[string]int, len(forecast.DailyTimes))
	for i, t := range forecast.DailyTimes {
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, tz)
		daily := weather.Daily{Date: date}
		if uv := metric(forecast.DailyMetrics, "uv_index_max", i); uv.IsSet() {
			daily.UV = weather.NewUV(uv.Value(), "")
		}
		daily.HoursOfSun = vartype.Convert(metric(forecast.DailyMetrics, "sunshine_duration", i),
			func(sec float64) float64 { return math.Round(sec/36) / 100 })
		sample := air.day(date)
		daily.AirQuality = sample.quality
		daily.Pollen = sample.pollen
		dailies = append(dailies, daily)
		index[date.Format(time.DateOnly)] = i
	}
	return dailies, index
}

// applyExtremes replaces the derived half-day temperatures with the daily extremes.
// The low of a night is the minimum of the following day, the last night keeps
// its derived low.
func applyExtremes(dailies []weather.Daily, metrics map[string][]float64, index map[string]int) {
	for _, daily := range dailies {
		i, ok := index[daily.Date.Format(time.DateOnly)]
		if !ok {
			continue
		}
		if day := daily.Day; day != nil {
			if high := metric(metrics, "temperature_2m_max", i); high.IsSet() {
				day.Temperature.Temperature = weather.CelsiusFrom(high)
			}
			if high := metric(metrics, "apparent_temperature_max", i); high.IsSet() {
				day.Temperature.Apparent = weather.CelsiusFrom(high)
			}
		}
		if night := daily.Night; night != nil {
			if low := metric(metrics, "temperature_2m_min", i+1); low.IsSet() {
				night.Temperature.Temperature = weather.CelsiusFrom(low)
			}
			if low := metric(metrics, "apparent_temperature_min", i+1); low.IsSet() {
				night.Temperature.Apparent = weather.CelsiusFrom(low)
			}
		}
	}
}

// metric returns the value of a metric at idx, unset if the metric was not
// returned or the series is too short.
func metric(metrics map[string][]float64, name string, idx int) vartype.VarFloat64 {
	values, ok := metrics[name]
	if !ok || idx < 0 || idx >= len(values) || math.IsNaN(values[idx]) {
		return vartype.VarFloat64{}
	}
	return vartype.NewVariable(values[idx])
}

// wallClock reinterprets a timestamp that was parsed as UTC as wall clock time in tz.
func wallClock(t time.Time, tz *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tz)
}

func rounded(val vartype.VarFloat64) vartype.VarInt {
	return vartype.Convert(val, func(f float64) int { return int(math.Round(f)) })
}

type airSample struct {
	quality weather.AirQuality
	pollen  weather.Pollen
}

// airIndex holds the air quality samples by local hour.
type airIndex struct {
	tz    *time.Location
	hours map[int64]airSample
}

func newAirIndex(aqi AirQualityResult, tz *time.Location) *airIndex {
	index := &airIndex{tz: tz, hours: make(map[int64]airSample)}
	hourly := aqi.Hourly
	for i, raw := range hourly.Time {
		t, err := time.ParseInLocation(timeLayout, raw, tz)
		if err != nil {
			continue
		}
		quality := weather.AirQuality{
			AQIIndex: rounded(at(hourly.EuropeanAQI, i)),
			PM25:     at(hourly.PM25, i),
			PM10:     at(hourly.PM10, i),
			SO2:      at(hourly.SulphurDioxide, i),
			NO2:      at(hourly.NitrogenDioxide, i),
			O3:       at(hourly.Ozone, i),
			CO:       at(hourly.CarbonMonoxide, i),
		}
		if quality.AQIIndex.IsSet() {
			quality.AQIText = aqiText(quality.AQIIndex.Value())
		}
		pollen := weather.Pollen{
			Alder:   pollenIndex(at(hourly.AlderPollen, i)),
			Birch:   pollenIndex(at(hourly.BirchPollen, i)),
			Grass:   pollenIndex(at(hourly.GrassPollen, i)),
			Mugwort: pollenIndex(at(hourly.MugwortPollen, i)),
			Olive:   pollenIndex(at(hourly.OlivePollen, i)),
			Ragweed: pollenIndex(at(hourly.RagweedPollen, i)),
		}
		pollen.Tree = maxPollen(pollen.Alder, pollen.Birch, pollen.Olive)
		index.hours[t.Unix()] = airSample{quality: quality, pollen: pollen}
	}
	return index
}

func (a *airIndex) at(t time.Time) airSample {
	return a.hours[t.Truncate(time.Hour).Unix()]
}

// day returns the air quality of the worst hour and the highest pollen indices of
// the calendar day of date.
func (a *airIndex) day(date time.Time) airSample {
	var result airSample
	for _, unix := range slices.Sorted(maps.Keys(a.hours)) {
		sample := a.hours[unix]
		if !weather.DateOf(time.Unix(unix, 0), a.tz).Equal(date) {
			continue
		}
		if sample.quality.AQIIndex.Value() > result.quality.AQIIndex.Value() || !result.quality.AQIIndex.IsSet() {
			result.quality = sample.quality
		}
		p := &result.pollen
		p.Alder = maxPollen(p.Alder, sample.pollen.Alder)
		p.Birch = maxPollen(p.Birch, sample.pollen.Birch)
		p.Grass = maxPollen(p.Grass, sample.pollen.Grass)
		p.Mugwort = maxPollen(p.Mugwort, sample.pollen.Mugwort)
		p.Olive = maxPollen(p.Olive, sample.pollen.Olive)
		p.Ragweed = maxPollen(p.Ragweed, sample.pollen.Ragweed)
		p.Tree = maxPollen(p.Tree, sample.pollen.Tree)
	}
	return result
}

func at(values []*float64, idx int) vartype.VarFloat64 {
	if idx >= len(values) {
		return vartype.VarFloat64{}
	}
	return vartype.FromPointer(values[idx])
}

// aqiText names a European AQI value.
func aqiText(index int) string {
	switch {
	case index <= 20:
		return "Good"
	case index <= 40:
		return "Fair"
	case index <= 60:
		return "Moderate"
	case index <= 80:
		return "Poor"
	case index <= 100:
		return "Very poor"
	default:
		return "Extremely poor"
	}
}

var pollenLevels = []string{"None", "Low", "Moderate", "High", "Very high"}

// pollenIndex rates a pollen concentration in grains/m³.
func pollenIndex(grains vartype.VarFloat64) weather.PollenIndex {
	if !grains.IsSet() {
		return weather.PollenIndex{}
	}
	val := grains.Value()
	level := 0
	switch {
	case val >= 200:
		level = 4
	case val >= 50:
		level = 3
	case val >= 20:
		level = 2
	case val >= 1:
		level = 1
	}
	return weather.PollenIndex{
		Index:       vartype.NewVariable(int(math.Round(val))),
		Level:       vartype.NewVariable(level),
		Description: pollenLevels[level],
	}
}

func maxPollen(indices ...weather.PollenIndex) weather.PollenIndex {
	var result weather.PollenIndex
	for _, idx := range indices {
		if !idx.Index.IsSet() {
			continue
		}
		if !result.Index.IsSet() || idx.Index.Value() > result.Index.Value() {
			result = idx
		}
	}
	return result
}
