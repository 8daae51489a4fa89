// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package owm

import (
	"errors"
	"fmt"
	"hash/fnv"
	"image/color"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/timezone"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

// msToKmh converts the wind speeds of the API from m/s.
const msToKmh = 3.6

var aqiTexts = map[int]string{1: "Good", 2: "Fair", 3: "Moderate", 4: "Poor", 5: "Very poor"}

type severity struct {
	keywords []string
	priority int
	color    color.RGBA
}

// severities rate an alert by the keywords of its event, checked in order.
var severities = []severity{
	{[]string{"red", "extreme"}, 1, weather.ColorAlertRed},
	{[]string{"orange", "severe"}, 2, weather.ColorAlertOrange},
	{[]string{"yellow", "moderate"}, 3, weather.ColorAlertYellow},
}

// WeatherCode maps an OpenWeatherMap condition ID into a weather code.
func WeatherCode(id int) weather.Code {
	switch {
	case id >= 200 && id < 300:
		return weather.CodeThunderstorm
	case id >= 300 && id < 400:
		return weather.CodeRain
	case id == 511:
		return weather.CodeSleet
	case id >= 500 && id < 600:
		return weather.CodeRain
	case id >= 611 && id <= 616:
		return weather.CodeSleet
	case id >= 600 && id < 700:
		return weather.CodeSnow
	case id == 701 || id == 741:
		return weather.CodeFog
	case id == 771 || id == 781:
		return weather.CodeWind
	case id >= 700 && id < 800:
		return weather.CodeHaze
	case id == 800:
		return weather.CodeClear
	case id == 801 || id == 802:
		return weather.CodePartlyCloudy
	case id == 803 || id == 804:
		return weather.CodeCloudy
	default:
		return weather.CodeUnset
	}
}

// ConvertLocation builds a Location from a geocoding result. The city name is
// taken in the requested language if the API knows it. OpenWeatherMap has no
// location IDs, so the coordinates serve as city ID.
func ConvertLocation(existing *weather.Location, geo GeoResult, lang string) weather.Location {
	city := geo.Name
	if local, ok := geo.LocalNames[lang]; ok && local != "" {
		city = local
	}
	fresh := weather.Location{
		CityID:      fmt.Sprintf("%.4f,%.4f", geo.Lat, geo.Lon),
		Latitude:    geo.Lat,
		Longitude:   geo.Lon,
		TimeZone:    timezone.NameOrLocal(geo.Lat, geo.Lon),
		Country:     source.CountryName(geo.Country),
		CountryCode: strings.ToUpper(geo.Country),
		Province:    geo.State,
		City:        city,
		Source:      weather.SourceOwm,
		China:       weather.IsChina(geo.Country),
	}
	return source.MergeLocation(existing, fresh)
}

// ConvertWeather folds the One Call and air pollution responses of one fetch into
// a Weather.
func ConvertWeather(settings source.Settings, location weather.Location, onecall OneCallResult,
	pollution AirPollutionResult,
) (*weather.Weather, error) {
	return source.Guard("owm", func() (*weather.Weather, error) {
		if onecall.Current == nil || onecall.Current.Temp == nil {
			return nil, errors.New("current weather is missing")
		}

		tz := location.TZ()
		now := settings.CurrentTime()
		result := weather.NewWeather()
		result.Base = weather.Base{
			CityID:      location.CityID,
			PublishTime: time.Unix(onecall.Current.Dt, 0).In(tz),
			UpdateTime:  now,
		}

		result.Current = convertCurrent(onecall.Current)
		result.Current.AirQuality = pollutionAt(pollution, now)

		today := weather.DateOf(now, tz)
		for _, daily := range onecall.Daily {
			converted := convertDaily(daily, pollution, tz)
			if converted.Date.Equal(today) {
				result.Current.DailyForecast = daily.Summary
			}
			result.Daily = append(result.Daily, converted)
		}
		weather.CompleteAstro(result.Daily, location.Latitude, location.Longitude, tz)

		hourlies := make([]weather.Hourly, 0, len(onecall.Hourly))
		for _, hourly := range onecall.Hourly {
			hourlies = append(hourlies, convertHourly(hourly, pollution, tz))
		}
		result.Hourly = weather.FilterHourly(hourlies, now)

		sun := astro(onecall.Current.Sunrise, onecall.Current.Sunset, tz)
		for _, minutely := range onecall.Minutely {
			result.Minutely = append(result.Minutely, convertMinutely(minutely, sun, tz))
		}
		result.Current.HourlyForecast = settings.Translate(nowcastSummary(result.Minutely))

		result.Alerts = convertAlerts(onecall.Alerts, tz)
		return result, nil
	})
}

func convertCurrent(current *Current) weather.Current {
	result := weather.Current{
		Temperature: weather.Temperature{
			Temperature: weather.CelsiusFrom(vartype.FromPointer(current.Temp)),
			Apparent:    weather.CelsiusFrom(vartype.FromPointer(current.FeelsLike)),
		},
		Precipitation:    hourPrecipitation(current.Rain, current.Snow),
		Wind:             convertWind(current.WindSpeed, current.WindDeg),
		RelativeHumidity: vartype.FromPointer(current.Humidity),
		Pressure:         vartype.FromPointer(current.Pressure),
		DewPoint:         weather.CelsiusFrom(vartype.FromPointer(current.DewPoint)),
		CloudCover:       rounded(current.Clouds),
		Visibility: vartype.Convert(vartype.FromPointer(current.Visibility), func(m float64) float64 {
			return math.Round(m/10) / 100
		}),
	}
	result.WeatherCode, result.WeatherText = condition(current.Weather)
	if current.UVI != nil {
		result.UV = weather.NewUV(*current.UVI, "")
	}
	return result
}

// convertDaily splits a day into halves of equal precipitation. The day half
// carries the maximum, the night half the minimum temperature.
func convertDaily(daily Daily, pollution AirPollutionResult, tz *time.Location) weather.Daily {
	code, text := condition(daily.Weather)
	precip := halfPrecipitation(daily.Rain, daily.Snow)
	probability := weather.PrecipitationProbability{Total: percent(daily.Pop)}
	wind := convertWind(daily.WindSpeed, daily.WindDeg)
	half := func(temp, apparent *float64) *weather.HalfDay {
		return &weather.HalfDay{
			WeatherText:  text,
			WeatherPhase: text,
			WeatherCode:  code,
			Temperature: weather.Temperature{
				Temperature: weather.CelsiusFrom(vartype.FromPointer(temp)),
				Apparent:    weather.CelsiusFrom(vartype.FromPointer(apparent)),
			},
			Precipitation:            precip,
			PrecipitationProbability: probability,
			Wind:                     wind,
			CloudCover:               rounded(daily.Clouds),
		}
	}

	date := weather.DateOf(time.Unix(daily.Dt, 0), tz)
	result := weather.Daily{
		Date:       date,
		Day:        half(daily.Temp.Max, daily.FeelsLike.Day),
		Night:      half(daily.Temp.Min, daily.FeelsLike.Night),
		Sun:        astro(daily.Sunrise, daily.Sunset, tz),
		Moon:       astro(daily.Moonrise, daily.Moonset, tz),
		AirQuality: dailyAirQuality(pollution, date, tz),
	}
	if daily.MoonPhase != nil {
		result.MoonPhase = moonPhase(*daily.MoonPhase)
	}
	if daily.UVI != nil {
		result.UV = weather.NewUV(*daily.UVI, "")
	}
	return result
}

func convertHourly(hourly Hourly, pollution AirPollutionResult, tz *time.Location) weather.Hourly {
	date := time.Unix(hourly.Dt, 0).In(tz)
	result := weather.Hourly{
		Date:       date,
		IsDaylight: isDaylight(hourly.Weather),
		Temperature: weather.Temperature{
			Temperature: weather.CelsiusFrom(vartype.FromPointer(hourly.Temp)),
			Apparent:    weather.CelsiusFrom(vartype.FromPointer(hourly.FeelsLike)),
		},
		Precipitation:            hourPrecipitation(hourly.Rain, hourly.Snow),
		PrecipitationProbability: weather.PrecipitationProbability{Total: percent(hourly.Pop)},
		Wind:                     convertWind(hourly.WindSpeed, hourly.WindDeg),
		AirQuality:               pollutionAt(pollution, date),
	}
	result.WeatherCode, result.WeatherText = condition(hourly.Weather)
	if hourly.UVI != nil {
		result.UV = weather.NewUV(*hourly.UVI, "")
	}
	return result
}

func convertMinutely(minutely Minutely, sun weather.Astro, tz *time.Location) weather.Minutely {
	date := time.Unix(minutely.Dt, 0).In(tz)
	result := weather.Minutely{
		Date:           date,
		IsDaylight:     weather.IsDaylight(sun.Rise, sun.Set, date, tz),
		MinuteInterval: 1,
		Precipitation:  vartype.FromPointer(minutely.Precipitation),
	}
	if minutely.Precipitation != nil && *minutely.Precipitation > 0 {
		result.WeatherCode = weather.CodeRain
	}
	return result
}

// nowcastSummary describes the next hour of the minutely forecast.
func nowcastSummary(minutely []weather.Minutely) string {
	if len(minutely) == 0 {
		return ""
	}
	for _, minute := range minutely {
		if minute.Precipitation.ValueOr(0) > 0 {
			return "Precipitation expected within the next hour"
		}
	}
	return "No precipitation expected within the next hour"
}

// convertAlerts rates the alerts by their event names. Alerts carry no IDs, so the
// ID is derived from sender, event and onset.
func convertAlerts(alerts []Alert, tz *time.Location) []weather.Alert {
	result := make([]weather.Alert, 0, len(alerts))
	for _, alert := range alerts {
		hash := fnv.New64a()
		_, _ = fmt.Fprintf(hash, "%s|%s|%d", alert.SenderName, alert.Event, alert.Start)
		alertType := alert.Event
		if len(alert.Tags) > 0 {
			alertType = alert.Tags[0]
		}
		priority, alertColor := rate(alert.Event)
		result = append(result, weather.Alert{
			ID:          int64(hash.Sum64() >> 1),
			Date:        time.Unix(alert.Start, 0).In(tz),
			Description: alert.Event,
			Content:     alert.Description,
			Type:        alertType,
			Priority:    priority,
			Color:       alertColor,
		})
	}
	return weather.DeduplicateAlerts(result)
}

func rate(event string) (int, color.RGBA) {
	lower := strings.ToLower(event)
	for _, sev := range severities {
		for _, keyword := range sev.keywords {
			if strings.Contains(lower, keyword) {
				return sev.priority, sev.color
			}
		}
	}
	return len(severities) + 1, weather.ColorAlertGray
}

// halfPrecipitation attributes half of the 24 hour totals to each half-day.
func halfPrecipitation(rain, snow *float64) weather.Precipitation {
	halve := func(val float64) float64 { return val / 2 }
	halfRain := vartype.Convert(vartype.FromPointer(rain), halve)
	halfSnow := vartype.Convert(vartype.FromPointer(snow), halve)
	return weather.Precipitation{
		Total: vartype.Sum(halfRain, halfSnow),
		Rain:  halfRain,
		Snow:  halfSnow,
	}
}

func hourPrecipitation(rain, snow *Volume) weather.Precipitation {
	var result weather.Precipitation
	if rain != nil {
		result.Rain = vartype.FromPointer(rain.OneHour)
	}
	if snow != nil {
		result.Snow = vartype.FromPointer(snow.OneHour)
	}
	result.Total = vartype.Sum(result.Rain, result.Snow)
	return result
}

// pollutionAt returns the air quality of the forecast hour that contains t.
func pollutionAt(pollution AirPollutionResult, t time.Time) weather.AirQuality {
	for _, entry := range pollution.List {
		start := time.Unix(entry.Dt, 0)
		if t.Before(start) || !t.Before(start.Add(time.Hour)) {
			continue
		}
		return airQuality(entry)
	}
	return weather.AirQuality{}
}

// dailyAirQuality returns the first forecast entry of the calendar day of date.
func dailyAirQuality(pollution AirPollutionResult, date time.Time, tz *time.Location) weather.AirQuality {
	day := date.Format(time.DateOnly)
	for _, entry := range pollution.List {
		if time.Unix(entry.Dt, 0).In(tz).Format(time.DateOnly) == day {
			return airQuality(entry)
		}
	}
	return weather.AirQuality{}
}

func airQuality(entry AirPollution) weather.AirQuality {
	result := weather.AirQuality{
		AQIIndex: vartype.FromPointer(entry.Main.AQI),
		PM25:     vartype.FromPointer(entry.Components.PM25),
		PM10:     vartype.FromPointer(entry.Components.PM10),
		SO2:      vartype.FromPointer(entry.Components.SO2),
		NO2:      vartype.FromPointer(entry.Components.NO2),
		O3:       vartype.FromPointer(entry.Components.O3),
		CO:       vartype.FromPointer(entry.Components.CO),
	}
	if entry.Main.AQI != nil {
		result.AQIText = aqiTexts[*entry.Main.AQI]
	}
	return result
}

// condition returns the code and the capitalized description of the first
// condition. Descriptions are localized by the API.
func condition(conditions []Condition) (weather.Code, string) {
	if len(conditions) == 0 {
		return weather.CodeUnset, ""
	}
	desc := conditions[0].Description
	if first, size := utf8.DecodeRuneInString(desc); size > 0 {
		desc = string(unicode.ToUpper(first)) + desc[size:]
	}
	return WeatherCode(conditions[0].ID), desc
}

func isDaylight(conditions []Condition) bool {
	if len(conditions) == 0 {
		return true
	}
	return !strings.HasSuffix(conditions[0].Icon, "n")
}

// moonPhase converts the lunation fraction of the API, 0 and 1 being new moon.
func moonPhase(fraction float64) weather.MoonPhase {
	var desc string
	switch {
	case fraction <= 0 || fraction >= 1:
		desc = "New moon"
	case fraction < 0.25:
		desc = "Waxing crescent"
	case fraction == 0.25:
		desc = "First quarter"
	case fraction < 0.5:
		desc = "Waxing gibbous"
	case fraction == 0.5:
		desc = "Full moon"
	case fraction < 0.75:
		desc = "Waning gibbous"
	case fraction == 0.75:
		desc = "Last quarter"
	default:
		desc = "Waning crescent"
	}
	angle := int(math.Round(fraction*360)) % 360
	if angle <= 0 {
		angle = 360
	}
	return weather.MoonPhase{
		Angle:       vartype.NewVariable(angle),
		Description: desc,
	}
}

func convertWind(speed, degree *float64) weather.Wind {
	if speed == nil {
		return weather.Wind{}
	}
	deg := -1.0
	if degree != nil {
		deg = *degree
	}
	return weather.NewWind(deg, math.Round(*speed*msToKmh*100)/100)
}

func astro(rise, set int64, tz *time.Location) weather.Astro {
	var result weather.Astro
	if rise > 0 {
		result.Rise = time.Unix(rise, 0).In(tz)
	}
	if set > 0 {
		result.Set = time.Unix(set, 0).In(tz)
	}
	return result
}

func percent(pop *float64) vartype.VarFloat64 {
	return vartype.Convert(vartype.FromPointer(pop), func(p float64) float64 { return math.Round(p * 100) })
}

func rounded(val *float64) vartype.VarInt {
	return vartype.Convert(vartype.FromPointer(val), func(f float64) int { return int(math.Round(f)) })
}
