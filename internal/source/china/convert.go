// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package china

import (
	"errors"
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/timezone"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

// keyPrefix marks the location keys of the China Weather Network.
const keyPrefix = "weathercn:"

type code struct {
	code weather.Code
	text string
}

var codes = map[int]code{
	0:  {weather.CodeClear, "Clear"},
	1:  {weather.CodePartlyCloudy, "Partly cloudy"},
	2:  {weather.CodeCloudy, "Overcast"},
	3:  {weather.CodeRain, "Showers"},
	4:  {weather.CodeThunderstorm, "Thundershowers"},
	5:  {weather.CodeHail, "Thundershowers with hail"},
	6:  {weather.CodeSleet, "Sleet"},
	7:  {weather.CodeRain, "Light rain"},
	8:  {weather.CodeRain, "Moderate rain"},
	9:  {weather.CodeRain, "Heavy rain"},
	10: {weather.CodeRain, "Storm"},
	11: {weather.CodeRain, "Heavy storm"},
	12: {weather.CodeRain, "Severe storm"},
	13: {weather.CodeSnow, "Snow flurries"},
	14: {weather.CodeSnow, "Light snow"},
	15: {weather.CodeSnow, "Moderate snow"},
	16: {weather.CodeSnow, "Heavy snow"},
	17: {weather.CodeSnow, "Snowstorm"},
	18: {weather.CodeFog, "Fog"},
	19: {weather.CodeSleet, "Freezing rain"},
	20: {weather.CodeWind, "Duststorm"},
	21: {weather.CodeRain, "Light to moderate rain"},
	22: {weather.CodeRain, "Moderate to heavy rain"},
	23: {weather.CodeRain, "Heavy rain to storm"},
	24: {weather.CodeRain, "Storm to heavy storm"},
	25: {weather.CodeRain, "Heavy to severe storm"},
	26: {weather.CodeSnow, "Light to moderate snow"},
	27: {weather.CodeSnow, "Moderate to heavy snow"},
	28: {weather.CodeSnow, "Heavy snow to snowstorm"},
	29: {weather.CodeHaze, "Dust"},
	30: {weather.CodeWind, "Sand"},
	31: {weather.CodeWind, "Sandstorm"},
	32: {weather.CodeFog, "Dense fog"},
	49: {weather.CodeFog, "Heavy fog"},
	53: {weather.CodeHaze, "Haze"},
	54: {weather.CodeHaze, "Moderate haze"},
	55: {weather.CodeHaze, "Heavy haze"},
	56: {weather.CodeHaze, "Severe haze"},
	57: {weather.CodeFog, "Extremely dense fog"},
}

// alertLevels rates the color levels of the Chinese warning system, in both the
// Chinese and the English spelling.
var alertLevels = []struct {
	names    []string
	priority int
	color    color.RGBA
}{
	{[]string{"红色", "red"}, 1, weather.ColorAlertRed},
	{[]string{"橙色", "orange"}, 2, weather.ColorAlertOrange},
	{[]string{"黄色", "yellow"}, 3, weather.ColorAlertYellow},
	{[]string{"蓝色", "blue"}, 4, weather.ColorAlertBlue},
}

// WeatherCode maps a numeric weather code of the API into a weather code and an
// English description. Unknown codes, including 99, yield an unset code.
func WeatherCode(value int) (weather.Code, string) {
	known, ok := codes[value]
	if !ok {
		return weather.CodeUnset, ""
	}
	return known.code, known.text
}

// ConvertLocation builds a Location from a city lookup result. Every city of the
// API lies within the China region.
func ConvertLocation(existing *weather.Location, city CityResult) (weather.Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(city.Latitude), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid latitude %q: %w", city.Latitude, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(city.Longitude), 64)
	if err != nil {
		return weather.Location{}, fmt.Errorf("invalid longitude %q: %w", city.Longitude, err)
	}
	countryCode := "CN"
	var province string
	for _, part := range strings.Split(city.Affiliation, ",") {
		part = strings.TrimSpace(part)
		switch part {
		case "香港", "Hong Kong":
			countryCode = "HK"
		case "台湾", "Taiwan":
			countryCode = "TW"
		case "", city.Name, "中国", "China":
		default:
			if province == "" {
				province = part
			}
		}
	}
	fresh := weather.Location{
		CityID:      strings.TrimPrefix(city.Key, keyPrefix),
		Latitude:    lat,
		Longitude:   lon,
		TimeZone:    timezone.NameOrLocal(lat, lon),
		Country:     source.CountryName(countryCode),
		CountryCode: countryCode,
		Province:    province,
		City:        city.Name,
		Source:      weather.SourceChina,
		China:       true,
	}
	return source.MergeLocation(existing, fresh), nil
}

// ConvertWeather folds the aggregate response and the minutely nowcast of one fetch
// into a Weather.
func ConvertWeather(settings source.Settings, location weather.Location, result WeatherResult,
	minutely MinutelyResult,
) (*weather.Weather, error) {
	return source.Guard("china", func() (*weather.Weather, error) {
		if err := source.Require(result.Current, "current"); err != nil {
			return nil, err
		}
		if err := source.Require(result.ForecastDaily, "forecastDaily"); err != nil {
			return nil, err
		}
		tz := location.TZ()
		now := settings.CurrentTime()

		published, err := parseTime(result.Current.PubTime, tz)
		if err != nil {
			return nil, fmt.Errorf("invalid publish time: %w", err)
		}
		converted := weather.NewWeather()
		converted.Base = weather.Base{
			CityID:      location.CityID,
			PublishTime: published,
			UpdateTime:  now,
		}
		converted.Current = convertCurrent(settings, result.Current, result.AQI)
		converted.History = convertHistory(result.Yesterday, tz)

		converted.Daily, err = convertDailies(settings, result.ForecastDaily, tz)
		if err != nil {
			return nil, err
		}
		weather.CompleteAstro(converted.Daily, location.Latitude, location.Longitude, tz)
		suns := make(map[string]weather.Astro, len(converted.Daily))
		for _, daily := range converted.Daily {
			suns[daily.Date.Format(time.DateOnly)] = daily.Sun
		}

		if result.ForecastHourly != nil {
			hourlies, err := convertHourlies(settings, result.ForecastHourly, suns, tz)
			if err != nil {
				return nil, err
			}
			converted.Hourly = weather.FilterHourly(hourlies, now)
			converted.Current.DailyForecast = result.ForecastHourly.Desc
		}

		if minutely.Precipitation != nil {
			converted.Minutely, err = convertMinutely(minutely, suns, tz)
			if err != nil {
				return nil, err
			}
			converted.Current.HourlyForecast = source.FirstNonEmpty(minutely.Precipitation.Description,
				minutely.Precipitation.HeadDescription)
		}

		converted.Alerts = convertAlerts(result.Alerts, tz)
		return converted, nil
	})
}

func convertCurrent(settings source.Settings, current *Current, aqi *AQI) weather.Current {
	result := weather.Current{
		Temperature: weather.Temperature{
			Temperature: weather.CelsiusFrom(number(current.Temperature.Value)),
			Apparent:    weather.CelsiusFrom(number(current.FeelsLike.Value)),
		},
		Wind:             wind(current.Wind.Direction.Value, current.Wind.Speed.Value),
		RelativeHumidity: number(current.Humidity.Value),
		Pressure:         number(current.Pressure.Value),
		Visibility:       number(current.Visibility.Value),
		AirQuality:       convertAQI(aqi),
	}
	result.WeatherCode, result.WeatherText = weatherCode(current.Weather)
	result.WeatherText = settings.Translate(result.WeatherText)
	if uv := number(current.UVIndex); uv.IsSet() {
		result.UV = weather.NewUV(uv.Value(), "")
	}
	return result
}

func convertHistory(yesterday *Yesterday, tz *time.Location) *weather.History {
	if yesterday == nil {
		return nil
	}
	date, err := parseTime(yesterday.Date, tz)
	if err != nil {
		return nil
	}
	history := &weather.History{
		Date:                 weather.DateOf(date, tz),
		DaytimeTemperature:   weather.CelsiusFrom(number(yesterday.TempMax)),
		NighttimeTemperature: weather.CelsiusFrom(number(yesterday.TempMin)),
	}
	if !history.DaytimeTemperature.IsSet() && !history.NighttimeTemperature.IsSet() {
		return nil
	}
	return history
}

// convertDailies reads the day values from the From and the night values from the
// To side of every range.
func convertDailies(settings source.Settings, daily *ForecastDaily, tz *time.Location) ([]weather.Daily, error) {
	published, err := parseTime(daily.PubTime, tz)
	if err != nil {
		return nil, fmt.Errorf("invalid daily publish time: %w", err)
	}
	first := weather.DateOf(published, tz)

	result := make([]weather.Daily, 0, len(daily.Temperature.Value))
	for i, temp := range daily.Temperature.Value {
		conditions := at(daily.Weather.Value, i)
		directions := at(daily.Wind.Direction.Value, i)
		speeds := at(daily.Wind.Speed.Value, i)
		probability := weather.PrecipitationProbability{Total: number(at(daily.PrecipitationProbability.Value, i))}

		half := func(cond, temperature, direction, speed string) *weather.HalfDay {
			halfDay := &weather.HalfDay{
				Temperature:              weather.Temperature{Temperature: weather.CelsiusFrom(number(temperature))},
				PrecipitationProbability: probability,
				Wind:                     wind(direction, speed),
			}
			halfDay.WeatherCode, halfDay.WeatherText = weatherCode(cond)
			halfDay.WeatherText = settings.Translate(halfDay.WeatherText)
			halfDay.WeatherPhase = halfDay.WeatherText
			return halfDay
		}

		date := first.AddDate(0, 0, i)
		converted := weather.Daily{
			Date:  date,
			Day:   half(conditions.From, temp.From, directions.From, speeds.From),
			Night: half(conditions.To, temp.To, directions.To, speeds.To),
		}
		if sun := at(daily.SunRiseSet.Value, i); sun.From != "" && sun.To != "" {
			rise, riseErr := parseTime(sun.From, tz)
			set, setErr := parseTime(sun.To, tz)
			if riseErr == nil && setErr == nil {
				converted.Sun = weather.Astro{Rise: rise, Set: set}
			}
		}
		if i < len(daily.AQI.Value) {
			converted.AirQuality = aqiIndex(daily.AQI.Value[i])
		}
		result = append(result, converted)
	}
	return result, nil
}

func convertHourlies(settings source.Settings, hourly *ForecastHourly, suns map[string]weather.Astro,
	tz *time.Location,
) ([]weather.Hourly, error) {
	published, err := parseTime(hourly.PubTime, tz)
	if err != nil {
		return nil, fmt.Errorf("invalid hourly publish time: %w", err)
	}
	start := published.Truncate(time.Hour)

	result := make([]weather.Hourly, 0, len(hourly.Temperature.Value))
	for i, temp := range hourly.Temperature.Value {
		date := start.Add(time.Duration(i+1) * time.Hour)
		if i < len(hourly.Wind.Value) && hourly.Wind.Value[i].Datetime != "" {
			if parsed, err := parseTime(hourly.Wind.Value[i].Datetime, tz); err == nil {
				date = parsed
			}
		}
		converted := weather.Hourly{
			Date:        date,
			Temperature: weather.NewTemperature(temp),
		}
		sun := suns[weather.DateOf(date, tz).Format(time.DateOnly)]
		converted.IsDaylight = weather.IsDaylight(sun.Rise, sun.Set, date, tz)
		if i < len(hourly.Weather.Value) {
			converted.WeatherCode, converted.WeatherText = WeatherCode(hourly.Weather.Value[i])
			converted.WeatherText = settings.Translate(converted.WeatherText)
		}
		if i < len(hourly.Wind.Value) {
			converted.Wind = wind(hourly.Wind.Value[i].Direction, hourly.Wind.Value[i].Speed)
		}
		if i < len(hourly.AQI.Value) {
			converted.AirQuality = aqiIndex(hourly.AQI.Value[i])
		}
		result = append(result, converted)
	}
	return result, nil
}

func convertMinutely(minutely MinutelyResult, suns map[string]weather.Astro, tz *time.Location) ([]weather.Minutely, error) {
	published, err := parseTime(minutely.Precipitation.PubTime, tz)
	if err != nil {
		return nil, fmt.Errorf("invalid minutely publish time: %w", err)
	}
	start := published.Truncate(time.Minute)
	result := make([]weather.Minutely, 0, len(minutely.Precipitation.Value))
	for i, intensity := range minutely.Precipitation.Value {
		date := start.Add(time.Duration(i) * time.Minute)
		sun := suns[weather.DateOf(date, tz).Format(time.DateOnly)]
		converted := weather.Minutely{
			Date:           date,
			IsDaylight:     weather.IsDaylight(sun.Rise, sun.Set, date, tz),
			MinuteInterval: 1,
			Precipitation:  vartype.NewVariable(intensity),
		}
		if intensity > 0 {
			converted.WeatherCode = weather.CodeRain
		}
		result = append(result, converted)
	}
	return result, nil
}

// convertAlerts rates the alerts by their color level. The string IDs of the API
// are hashed into numeric ones.
func convertAlerts(alerts []Alert, tz *time.Location) []weather.Alert {
	result := make([]weather.Alert, 0, len(alerts))
	for _, alert := range alerts {
		hash := fnv.New64a()
		_, _ = hash.Write([]byte(alert.AlertID))
		date, _ := parseTime(alert.PubTime, tz)
		priority, alertColor := level(alert.Level)
		result = append(result, weather.Alert{
			ID:          int64(hash.Sum64() >> 1),
			Date:        date,
			Description: alert.Title,
			Content:     alert.Detail,
			Type:        alert.Type,
			Priority:    priority,
			Color:       alertColor,
		})
	}
	return weather.DeduplicateAlerts(result)
}

func level(name string) (int, color.RGBA) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, lvl := range alertLevels {
		for _, candidate := range lvl.names {
			if strings.Contains(lower, candidate) {
				return lvl.priority, lvl.color
			}
		}
	}
	return len(alertLevels) + 1, weather.ColorAlertGray
}

func convertAQI(aqi *AQI) weather.AirQuality {
	if aqi == nil {
		return weather.AirQuality{}
	}
	index := vartype.Convert(number(aqi.AQI), func(f float64) int { return int(math.Round(f)) })
	result := weather.AirQuality{
		AQIIndex: index,
		PM25:     number(aqi.PM25),
		PM10:     number(aqi.PM10),
		SO2:      number(aqi.SO2),
		NO2:      number(aqi.NO2),
		O3:       number(aqi.O3),
		CO:       vartype.Convert(number(aqi.CO), func(mg float64) float64 { return math.Round(mg * 1000) }),
	}
	if index.IsSet() {
		result.AQIText = aqiText(index.Value())
	}
	return result
}

func aqiIndex(index int) weather.AirQuality {
	return weather.AirQuality{AQIIndex: vartype.NewVariable(index), AQIText: aqiText(index)}
}

// aqiText names the bands of the Chinese air quality index.
func aqiText(index int) string {
	switch {
	case index <= 50:
		return "Excellent"
	case index <= 100:
		return "Good"
	case index <= 150:
		return "Lightly polluted"
	case index <= 200:
		return "Moderately polluted"
	case index <= 300:
		return "Heavily polluted"
	default:
		return "Severely polluted"
	}
}

func weatherCode(value string) (weather.Code, string) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return weather.CodeUnset, ""
	}
	return WeatherCode(parsed)
}

func wind(direction, speed string) weather.Wind {
	kmh := number(speed)
	if !kmh.IsSet() {
		return weather.Wind{}
	}
	return weather.NewWind(number(direction).ValueOr(-1), kmh.Value())
}

// number parses a numeric string of the API. Empty and malformed values are unset.
func number(value string) vartype.VarFloat64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) {
		return vartype.VarFloat64{}
	}
	return vartype.NewVariable(parsed)
}

func parseTime(value string, tz *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.In(tz), nil
}

func at[T any](values []T, idx int) T {
	var zero T
	if idx < 0 || idx >= len(values) {
		return zero
	}
	return values[idx]
}
