// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package metno

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/timezone"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

// msToKmh converts the wind speeds of the API from m/s.
const msToKmh = 3.6

type symbol struct {
	code weather.Code
	text string
}

// symbols maps the yr.no symbol codes without their variant suffix.
var symbols = map[string]symbol{
	"clearsky":     {weather.CodeClear, "Clear sky"},
	"fair":         {weather.CodeClear, "Fair"},
	"partlycloudy": {weather.CodePartlyCloudy, "Partly cloudy"},
	"cloudy":       {weather.CodeCloudy, "Cloudy"},
	"fog":          {weather.CodeFog, "Fog"},

	"lightrainshowers":           {weather.CodeRain, "Light rain showers"},
	"rainshowers":                {weather.CodeRain, "Rain showers"},
	"heavyrainshowers":           {weather.CodeRain, "Heavy rain showers"},
	"lightrainshowersandthunder": {weather.CodeThunderstorm, "Light rain showers and thunder"},
	"rainshowersandthunder":      {weather.CodeThunderstorm, "Rain showers and thunder"},
	"heavyrainshowersandthunder": {weather.CodeThunderstorm, "Heavy rain showers and thunder"},
	"lightrain":                  {weather.CodeRain, "Light rain"},
	"rain":                       {weather.CodeRain, "Rain"},
	"heavyrain":                  {weather.CodeRain, "Heavy rain"},
	"lightrainandthunder":        {weather.CodeThunderstorm, "Light rain and thunder"},
	"rainandthunder":             {weather.CodeThunderstorm, "Rain and thunder"},
	"heavyrainandthunder":        {weather.CodeThunderstorm, "Heavy rain and thunder"},

	"lightsleetshowers":            {weather.CodeSleet, "Light sleet showers"},
	"sleetshowers":                 {weather.CodeSleet, "Sleet showers"},
	"heavysleetshowers":            {weather.CodeSleet, "Heavy sleet showers"},
	"lightssleetshowersandthunder": {weather.CodeThunderstorm, "Light sleet showers and thunder"},
	"sleetshowersandthunder":       {weather.CodeThunderstorm, "Sleet showers and thunder"},
	"heavysleetshowersandthunder":  {weather.CodeThunderstorm, "Heavy sleet showers and thunder"},
	"lightsleet":                   {weather.CodeSleet, "Light sleet"},
	"sleet":                        {weather.CodeSleet, "Sleet"},
	"heavysleet":                   {weather.CodeSleet, "Heavy sleet"},
	"lightsleetandthunder":         {weather.CodeThunderstorm, "Light sleet and thunder"},
	"sleetandthunder":              {weather.CodeThunderstorm, "Sleet and thunder"},
	"heavysleetandthunder":         {weather.CodeThunderstorm, "Heavy sleet and thunder"},

	"lightsnowshowers":            {weather.CodeSnow, "Light snow showers"},
	"snowshowers":                 {weather.CodeSnow, "Snow showers"},
	"heavysnowshowers":            {weather.CodeSnow, "Heavy snow showers"},
	"lightssnowshowersandthunder": {weather.CodeThunderstorm, "Light snow showers and thunder"},
	"snowshowersandthunder":       {weather.CodeThunderstorm, "Snow showers and thunder"},
	"heavysnowshowersandthunder":  {weather.CodeThunderstorm, "Heavy snow showers and thunder"},
	"lightsnow":                   {weather.CodeSnow, "Light snow"},
	"snow":                        {weather.CodeSnow, "Snow"},
	"heavysnow":                   {weather.CodeSnow, "Heavy snow"},
	"lightsnowandthunder":         {weather.CodeThunderstorm, "Light snow and thunder"},
	"snowandthunder":              {weather.CodeThunderstorm, "Snow and thunder"},
	"heavysnowandthunder":         {weather.CodeThunderstorm, "Heavy snow and thunder"},
}

// WeatherCode maps a yr.no symbol code like "partlycloudy_night" into a weather code
// and an English description. Unknown symbols yield an unset code.
func WeatherCode(symbolCode string) (weather.Code, string) {
	base, _, _ := strings.Cut(symbolCode, "_")
	sym, ok := symbols[base]
	if !ok {
		return weather.CodeUnset, ""
	}
	return sym.code, sym.text
}

// ConvertLocation builds a Location from a geocoded address. MET Norway has no
// location IDs, so the coordinates serve as city ID.
func ConvertLocation(existing *weather.Location, addr geocode.Address) weather.Location {
	fresh := addr.Location(weather.SourceMetNo)
	fresh.CityID = fmt.Sprintf("%.4f,%.4f", addr.Latitude, addr.Longitude)
	fresh.TimeZone = timezone.NameOrLocal(addr.Latitude, addr.Longitude)
	return source.MergeLocation(existing, fresh)
}

// ConvertWeather folds the MET Norway responses of one fetch into a Weather.
func ConvertWeather(settings source.Settings, location weather.Location, forecast LocationforecastResult,
	sun SunriseResult, aqi AirQualityResult,
) (*weather.Weather, error) {
	return source.Guard("metno", func() (*weather.Weather, error) {
		series := forecast.Properties.Timeseries
		if len(series) == 0 {
			return nil, errors.New("forecast timeseries is empty")
		}

		tz := location.TZ()
		now := settings.CurrentTime()
		result := weather.NewWeather()
		result.Base = weather.Base{
			CityID:      location.CityID,
			PublishTime: forecast.Properties.Meta.UpdatedAt.In(tz),
			UpdateTime:  now,
		}

		astro := newSunCache(location, sun, tz)
		hourlies := make([]weather.Hourly, 0, len(series))
		nextHours := make([]weather.Hourly, 0, len(series))
		dates := make([]time.Time, 0)
		for _, entry := range series {
			hourly := convertHourly(settings, entry, astro, tz)
			hourlies = append(hourlies, hourly)
			if entry.Data.Next1Hours != nil {
				nextHours = append(nextHours, hourly)
			}
			date := weather.DateOf(entry.Time, tz)
			if len(dates) == 0 || !dates[len(dates)-1].Equal(date) {
				dates = append(dates, date)
			}
		}

		current := currentEntry(series, now)
		if current.Data.Instant.Details.AirTemperature == nil {
			return nil, errors.New("current air temperature is missing")
		}
		result.Current = convertCurrent(settings, current)
		result.Current.AirQuality = airQualityAt(aqi, now)

		dailies := make([]weather.Daily, 0, len(dates))
		for _, date := range dates {
			daily := weather.Daily{Date: date, Sun: astro.at(date), AirQuality: dailyAirQuality(aqi, date, tz)}
			dailies = append(dailies, daily)
		}
		result.Daily = weather.CompleteDaily(dailies, hourlies, tz)
		weather.CompleteAstro(result.Daily, location.Latitude, location.Longitude, tz)
		for i := range result.Daily {
			result.Daily[i].UV = dailyUV(hourlies, result.Daily[i].Date, tz)
		}

		result.Hourly = weather.FilterHourly(nextHours, now)
		return result, nil
	})
}

// horizon returns the most specific forecast horizon of an entry, or nil.
func horizon(entry Timeseries) *NextHours {
	switch {
	case entry.Data.Next1Hours != nil:
		return entry.Data.Next1Hours
	case entry.Data.Next6Hours != nil:
		return entry.Data.Next6Hours
	default:
		return entry.Data.Next12Hours
	}
}

// currentEntry returns the latest entry at or before now, or the first one.
func currentEntry(series []Timeseries, now time.Time) Timeseries {
	current := series[0]
	for _, entry := range series {
		if entry.Time.After(now) {
			break
		}
		current = entry
	}
	return current
}

func convertCurrent(settings source.Settings, entry Timeseries) weather.Current {
	details := entry.Data.Instant.Details
	result := weather.Current{
		Temperature:      temperature(details.AirTemperature),
		RelativeHumidity: vartype.FromPointer(details.RelativeHumidity),
		Pressure:         vartype.FromPointer(details.AirPressureAtSeaLevel),
		DewPoint:         weather.CelsiusFrom(vartype.FromPointer(details.DewPointTemperature)),
		CloudCover:       rounded(details.CloudAreaFraction),
		Wind:             convertWind(details),
	}
	if next := horizon(entry); next != nil {
		result.WeatherCode, result.WeatherText = WeatherCode(next.Summary.SymbolCode)
		result.WeatherText = settings.Translate(result.WeatherText)
		result.Precipitation.Total = vartype.FromPointer(next.Details.PrecipitationAmount)
		result.PrecipitationProbability.Total = vartype.FromPointer(next.Details.ProbabilityOfPrecipitation)
		result.PrecipitationProbability.Thunderstorm = vartype.FromPointer(next.Details.ProbabilityOfThunder)
	}
	if details.UltravioletIndexClearSky != nil {
		result.UV = weather.NewUV(*details.UltravioletIndexClearSky, "")
	}
	return result
}

func convertHourly(settings source.Settings, entry Timeseries, astro *sunCache, tz *time.Location) weather.Hourly {
	details := entry.Data.Instant.Details
	sun := astro.at(entry.Time)
	result := weather.Hourly{
		Date:        entry.Time.In(tz),
		IsDaylight:  weather.IsDaylight(sun.Rise, sun.Set, entry.Time, tz),
		Temperature: temperature(details.AirTemperature),
		Wind:        convertWind(details),
	}
	if next := horizon(entry); next != nil {
		result.WeatherCode, result.WeatherText = WeatherCode(next.Summary.SymbolCode)
		result.WeatherText = settings.Translate(result.WeatherText)
		result.Precipitation.Total = vartype.FromPointer(next.Details.PrecipitationAmount)
		result.PrecipitationProbability.Total = vartype.FromPointer(next.Details.ProbabilityOfPrecipitation)
		result.PrecipitationProbability.Thunderstorm = vartype.FromPointer(next.Details.ProbabilityOfThunder)
	}
	if details.UltravioletIndexClearSky != nil {
		result.UV = weather.NewUV(*details.UltravioletIndexClearSky, "")
	}
	return result
}

func convertWind(details InstantDetails) weather.Wind {
	if details.WindSpeed == nil {
		return weather.Wind{}
	}
	degree := -1.0
	if details.WindFromDirection != nil {
		degree = *details.WindFromDirection
	}
	return weather.NewWind(degree, math.Round(*details.WindSpeed*msToKmh*100)/100)
}

// dailyUV returns the highest clear sky UV index of the calendar day.
func dailyUV(hourlies []weather.Hourly, date time.Time, tz *time.Location) weather.UV {
	var peak vartype.VarFloat64
	for _, hourly := range hourlies {
		if !weather.DateOf(hourly.Date, tz).Equal(date) {
			continue
		}
		peak = vartype.Max(peak, hourly.UV.Index)
	}
	if !peak.IsSet() {
		return weather.UV{}
	}
	return weather.NewUV(peak.Value(), "")
}

func airQualityAt(aqi AirQualityResult, at time.Time) weather.AirQuality {
	for _, entry := range aqi.Data.Time {
		if at.Before(entry.From) || !at.Before(entry.To) {
			continue
		}
		return airQuality(entry.Variables.AQI, entry.Variables.PM25, entry.Variables.PM10,
			entry.Variables.NO2, entry.Variables.O3)
	}
	return weather.AirQuality{}
}

// dailyAirQuality returns the air quality of the worst interval of the day.
func dailyAirQuality(aqi AirQualityResult, date time.Time, tz *time.Location) weather.AirQuality {
	var (
		worst weather.AirQuality
		index float64
	)
	for _, entry := range aqi.Data.Time {
		val := entry.Variables.AQI.Value
		if val == nil || !weather.DateOf(entry.From, tz).Equal(date) || *val <= index {
			continue
		}
		index = *val
		worst = airQuality(entry.Variables.AQI, entry.Variables.PM25, entry.Variables.PM10,
			entry.Variables.NO2, entry.Variables.O3)
	}
	return worst
}

func airQuality(index, pm25, pm10, no2, o3 AirQualityValue) weather.AirQuality {
	return weather.AirQuality{
		AQIIndex: rounded(index.Value),
		PM25:     vartype.FromPointer(pm25.Value),
		PM10:     vartype.FromPointer(pm10.Value),
		NO2:      vartype.FromPointer(no2.Value),
		O3:       vartype.FromPointer(o3.Value),
	}
}

func temperature(val *float64) weather.Temperature {
	if val == nil {
		return weather.Temperature{}
	}
	return weather.NewTemperature(*val)
}

func rounded(val *float64) vartype.VarInt {
	return vartype.Convert(vartype.FromPointer(val), func(f float64) int { return int(math.Round(f)) })
}

// sunCache memoizes sun times per calendar day. The sunrise API response, if any,
// takes precedence over the calculation for its day.
type sunCache struct {
	lat, lon float64
	tz       *time.Location
	days     map[string]weather.Astro
}

func newSunCache(location weather.Location, sun SunriseResult, tz *time.Location) *sunCache {
	cache := &sunCache{
		lat:  location.Latitude,
		lon:  location.Longitude,
		tz:   tz,
		days: make(map[string]weather.Astro),
	}
	rise, set := sun.Properties.Sunrise.Time.Time, sun.Properties.Sunset.Time.Time
	if !rise.IsZero() && !set.IsZero() {
		cache.days[weather.DateOf(rise, tz).Format(time.DateOnly)] = weather.Astro{Rise: rise.In(tz), Set: set.In(tz)}
	}
	return cache
}

func (c *sunCache) at(t time.Time) weather.Astro {
	date := weather.DateOf(t, c.tz)
	key := date.Format(time.DateOnly)
	if astro, ok := c.days[key]; ok {
		return astro
	}
	astro := weather.SunAt(c.lat, c.lon, date, c.tz)
	c.days[key] = astro
	return astro
}
