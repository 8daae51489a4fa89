// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package mf

import (
	"errors"
	"image/color"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/timezone"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

const (
	msToKmh = 3.6

	// atmoDateLayout is the yyyyMMdd date format of AtmoAuRA.
	atmoDateLayout = "20060102"
)

var iconPattern = regexp.MustCompile(`^p(\d+)`)

// iconCodes maps the numbers of the Météo-France pictograms into weather codes.
var iconCodes = map[int]weather.Code{
	1: weather.CodeClear,
	2: weather.CodePartlyCloudy, 3: weather.CodePartlyCloudy,
	4: weather.CodeCloudy, 5: weather.CodeCloudy, 17: weather.CodeCloudy,
	6: weather.CodeFog, 7: weather.CodeFog, 8: weather.CodeFog,
	9: weather.CodeRain, 10: weather.CodeRain, 11: weather.CodeRain, 12: weather.CodeRain,
	13: weather.CodeRain, 14: weather.CodeRain, 15: weather.CodeRain,
	16: weather.CodeThunderstorm, 24: weather.CodeThunderstorm, 25: weather.CodeThunderstorm,
	26: weather.CodeThunderstorm, 27: weather.CodeThunderstorm, 28: weather.CodeThunderstorm,
	29: weather.CodeThunderstorm,
	18: weather.CodeSnow, 19: weather.CodeSnow, 21: weather.CodeSnow, 22: weather.CodeSnow,
	20: weather.CodeSleet,
	23: weather.CodeHail,
	30: weather.CodeHaze, 31: weather.CodeHaze, 32: weather.CodeHaze,
}

// rainIntensities maps the nowcast intensity levels into mm/h.
var rainIntensities = map[int]float64{1: 0, 2: 1, 3: 4, 4: 10}

// phenomena are the names of the vigilance phenomena by ID.
var phenomena = map[string]string{
	"1": "Wind",
	"2": "Rain-flood",
	"3": "Thunderstorms",
	"4": "Flood",
	"5": "Snow-ice",
	"6": "Heat wave",
	"7": "Extreme cold",
	"8": "Avalanches",
	"9": "Waves-submersion",
}

// warningColors maps the vigilance color IDs. Green (1) is not a warning.
var warningColors = map[int]struct {
	name     string
	priority int
	color    color.RGBA
}{
	2: {"Yellow", 3, weather.ColorAlertYellow},
	3: {"Orange", 2, weather.ColorAlertOrange},
	4: {"Red", 1, weather.ColorAlertRed},
}

// WeatherCode maps a pictogram name like "p3j" into a weather code.
func WeatherCode(icon string) weather.Code {
	if icon == "" {
		return weather.CodeUnset
	}
	match := iconPattern.FindStringSubmatch(icon)
	if match == nil {
		return weather.CodeCloudy
	}
	num, err := strconv.Atoi(match[1])
	if err != nil {
		return weather.CodeCloudy
	}
	if code, ok := iconCodes[num]; ok {
		return code
	}
	return weather.CodeCloudy
}

// ConvertLocation builds a Location from a Météo-France place.
func ConvertLocation(existing *weather.Location, place PlaceResult) weather.Location {
	fresh := weather.Location{
		CityID:      place.Insee,
		Latitude:    place.Lat,
		Longitude:   place.Lon,
		TimeZone:    timezone.NameOrLocal(place.Lat, place.Lon),
		Country:     source.CountryName(place.Country),
		CountryCode: strings.ToUpper(place.Country),
		Province:    source.FirstNonEmpty(place.Admin, place.Admin2),
		City:        place.Name,
		Source:      weather.SourceMf,
		China:       weather.IsChina(place.Country),
	}
	return source.MergeLocation(existing, fresh)
}

// ConvertWeather folds the Météo-France responses of one fetch into a Weather.
func ConvertWeather(settings source.Settings, location weather.Location, forecast ForecastResult,
	observation ObservationResult, ephemeris EphemerisResult, rain RainResult, warnings WarningResult,
	atmo AtmoAuRAResult,
) (*weather.Weather, error) {
	return source.Guard("mf", func() (*weather.Weather, error) {
		props := forecast.Properties
		if len(props.Forecast) == 0 {
			return nil, errors.New("hourly forecast is empty")
		}
		if len(props.DailyForecast) == 0 {
			return nil, errors.New("daily forecast is empty")
		}

		tz := location.TZ()
		now := settings.CurrentTime()
		result := weather.NewWeather()
		result.Base = weather.Base{
			CityID:      location.CityID,
			PublishTime: time.Unix(forecast.UpdateTime, 0).In(tz),
			UpdateTime:  now,
		}

		dailies := convertDailies(props.DailyForecast, atmo, tz)
		suns := make(map[string]weather.Astro, len(dailies))
		for _, daily := range dailies {
			suns[daily.Date.Format(time.DateOnly)] = daily.Sun
		}

		hourlies := make([]weather.Hourly, 0, len(props.Forecast))
		for _, h := range props.Forecast {
			hourly := convertHourly(h, props.ProbabilityForecast, tz)
			sun, ok := suns[weather.DateOf(hourly.Date, tz).Format(time.DateOnly)]
			if !ok {
				sun = weather.SunAt(location.Latitude, location.Longitude, hourly.Date, tz)
			}
			hourly.IsDaylight = weather.IsDaylight(sun.Rise, sun.Set, hourly.Date, tz)
			hourlies = append(hourlies, hourly)
		}

		result.Daily = completeHalfDays(dailies, props.DailyForecast, hourlies, tz)
		applyEphemeris(result.Daily, ephemeris, now, tz)
		weather.CompleteAstro(result.Daily, location.Latitude, location.Longitude, tz)

		result.Current = convertCurrent(settings, props.Forecast, hourlies, observation, result.Daily, now, tz)
		result.Current.AirQuality = atmoAirQuality(atmo, now.In(tz))
		result.Current.HourlyForecast = settings.Translate(nowcastSummary(rain))
		result.Hourly = weather.FilterHourly(hourlies, now)
		result.Minutely = convertMinutely(rain, suns, tz)
		result.Alerts = convertAlerts(warnings, tz)

		return result, nil
	})
}

func convertDailies(forecasts []DailyForecast, atmo AtmoAuRAResult, tz *time.Location) []weather.Daily {
	dailies := make([]weather.Daily, 0, len(forecasts))
	for _, forecast := range forecasts {
		date := weather.DateOf(time.Unix(forecast.Time, 0), tz)
		daily := weather.Daily{
			Date:       date,
			AirQuality: atmoAirQuality(atmo, date),
		}
		if forecast.SunriseTime > 0 && forecast.SunsetTime > 0 {
			daily.Sun = weather.Astro{
				Rise: time.Unix(forecast.SunriseTime, 0).In(tz),
				Set:  time.Unix(forecast.SunsetTime, 0).In(tz),
			}
		}
		if forecast.UVIndex != nil {
			daily.UV = weather.NewUV(*forecast.UVIndex, "")
		}
		dailies = append(dailies, daily)
	}
	return dailies
}

// completeHalfDays derives the half-days from the hourly samples and overrides their
// temperatures with the daily extremes: the day takes the maximum, the night the
// minimum of the following morning. Days beyond the hourly forecast fall back to the
// daily summary.
func completeHalfDays(dailies []weather.Daily, forecasts []DailyForecast, hourlies []weather.Hourly,
	tz *time.Location,
) []weather.Daily {
	derived := make(map[string]weather.Daily)
	for _, daily := range weather.CompleteDaily(dailies, hourlies, tz) {
		derived[daily.Date.Format(time.DateOnly)] = daily
	}

	result := make([]weather.Daily, 0, len(dailies))
	for i, daily := range dailies {
		forecast := forecasts[i]
		if d, ok := derived[daily.Date.Format(time.DateOnly)]; ok {
			daily.Day, daily.Night = d.Day, d.Night
		}

		nightMin := forecast.TemperatureMin
		if i+1 < len(forecasts) && forecasts[i+1].TemperatureMin != nil {
			nightMin = forecasts[i+1].TemperatureMin
		}
		if forecast.TemperatureMax != nil {
			if daily.Day == nil {
				daily.Day = summaryHalf(forecast)
			}
			daily.Day.Temperature.Temperature = weather.Celsius(*forecast.TemperatureMax)
		}
		if nightMin != nil {
			if daily.Night == nil {
				daily.Night = summaryHalf(forecast)
			}
			daily.Night.Temperature.Temperature = weather.Celsius(*nightMin)
		}
		if daily.Day == nil && daily.Night == nil {
			continue
		}
		result = append(result, daily)
	}
	return result
}

// summaryHalf builds a half-day from the daily summary. Each half gets half of the
// daily precipitation.
func summaryHalf(forecast DailyForecast) *weather.HalfDay {
	half := &weather.HalfDay{
		WeatherText:  forecast.WeatherDescription,
		WeatherPhase: forecast.WeatherDescription,
		WeatherCode:  WeatherCode(forecast.WeatherIcon),
	}
	if forecast.Precipitation24h != nil {
		half.Precipitation.Total = vartype.NewVariable(*forecast.Precipitation24h / 2)
	}
	return half
}

func applyEphemeris(dailies []weather.Daily, ephemeris EphemerisResult, now time.Time, tz *time.Location) {
	eph := ephemeris.Properties.Ephemeris
	today := weather.DateOf(now, tz)
	for i := range dailies {
		if !dailies[i].Date.Equal(today) {
			continue
		}
		if !dailies[i].Sun.IsValid() {
			dailies[i].Sun = weather.Astro{Rise: parseTime(eph.SunriseTime, tz), Set: parseTime(eph.SunsetTime, tz)}
		}
		dailies[i].Moon = weather.Astro{Rise: parseTime(eph.MoonriseTime, tz), Set: parseTime(eph.MoonsetTime, tz)}
		if eph.MoonPhaseDescription != "" {
			dailies[i].MoonPhase = weather.MoonPhase{
				Angle:       vartype.NewVariable(weather.MoonPhaseAngle(eph.MoonPhaseDescription)),
				Description: eph.MoonPhaseDescription,
			}
		}
	}
}

func convertHourly(h HourlyForecast, probabilities []ProbabilityForecast, tz *time.Location) weather.Hourly {
	date := time.Unix(h.Time, 0).In(tz)
	rain := firstSet(h.Rain1h, h.Rain3h, h.Rain6h)
	snow := firstSet(h.Snow1h, h.Snow3h, h.Snow6h)
	result := weather.Hourly{
		Date:        date,
		WeatherText: h.WeatherDescription,
		WeatherCode: WeatherCode(h.WeatherIcon),
		Temperature: weather.Temperature{
			Temperature: weather.CelsiusFrom(vartype.FromPointer(h.Temperature)),
			WindChill:   weather.CelsiusFrom(vartype.FromPointer(h.WindChill)),
		},
		Precipitation: weather.Precipitation{
			Total: vartype.Sum(rain, snow),
			Rain:  rain,
			Snow:  snow,
		},
		PrecipitationProbability: probabilityAt(probabilities, h.Time),
		Wind:                     convertWind(h.WindDirection, h.WindSpeed),
	}
	return result
}

// probabilityAt returns the probabilities of the three hour window containing ts.
func probabilityAt(probabilities []ProbabilityForecast, ts int64) weather.PrecipitationProbability {
	for _, p := range probabilities {
		if ts < p.Time || ts >= p.Time+int64((3*time.Hour).Seconds()) {
			continue
		}
		rain := vartype.FromPointer(firstPointer(p.RainHazard3h, p.RainHazard6h))
		snow := vartype.FromPointer(firstPointer(p.SnowHazard3h, p.SnowHazard6h))
		ice := vartype.FromPointer(p.FreezingHazard)
		storm := vartype.FromPointer(p.StormHazard)
		return weather.PrecipitationProbability{
			Total:        vartype.Max(rain, snow, ice, storm),
			Thunderstorm: storm,
			Rain:         rain,
			Snow:         snow,
			Ice:          ice,
		}
	}
	return weather.PrecipitationProbability{}
}

func convertCurrent(settings source.Settings, forecasts []HourlyForecast, hourlies []weather.Hourly,
	observation ObservationResult, dailies []weather.Daily, now time.Time, tz *time.Location,
) weather.Current {
	idx := 0
	for i, h := range forecasts {
		if time.Unix(h.Time, 0).After(now) {
			break
		}
		idx = i
	}
	raw, hourly := forecasts[idx], hourlies[idx]
	result := weather.Current{
		WeatherText:              hourly.WeatherText,
		WeatherCode:              hourly.WeatherCode,
		Temperature:              hourly.Temperature,
		Precipitation:            hourly.Precipitation,
		PrecipitationProbability: hourly.PrecipitationProbability,
		Wind:                     hourly.Wind,
		RelativeHumidity:         vartype.FromPointer(raw.RelativeHumidity),
		Pressure:                 vartype.FromPointer(raw.Pressure),
		CloudCover:               vartype.FromPointer(raw.CloudCover),
	}
	if obs := observation.Properties.Gridded; obs != nil {
		if obs.Temperature != nil {
			result.Temperature.Temperature = weather.Celsius(*obs.Temperature)
		}
		if obs.WindSpeed != nil {
			result.Wind = convertWind(obs.WindDirection, obs.WindSpeed)
		}
		if obs.WeatherIcon != "" {
			result.WeatherCode = WeatherCode(obs.WeatherIcon)
			result.WeatherText = obs.WeatherDescription
		}
	}
	if len(dailies) > 0 {
		today := dailies[0]
		result.DailyForecast = settings.Translate(source.FirstNonEmpty(dayText(today.Day), dayText(today.Night)))
		if today.UV.Index.IsSet() {
			if uv := weather.CurrentUV(today.UV.Index.Value(), now, today.Sun.Rise, today.Sun.Set, tz); uv.IsSet() {
				result.UV = weather.NewUV(uv.Value(), "")
			}
		}
	}
	return result
}

func convertMinutely(rain RainResult, suns map[string]weather.Astro, tz *time.Location) []weather.Minutely {
	entries := rain.Properties.Forecast
	result := make([]weather.Minutely, 0, len(entries))
	for i, entry := range entries {
		date := time.Unix(entry.Time, 0).In(tz)
		interval := 5
		if i+1 < len(entries) {
			interval = int((entries[i+1].Time - entry.Time) / 60)
		}
		sun := suns[weather.DateOf(date, tz).Format(time.DateOnly)]
		minute := weather.Minutely{
			Date:           date,
			IsDaylight:     weather.IsDaylight(sun.Rise, sun.Set, date, tz),
			WeatherText:    entry.RainIntensityDescription,
			MinuteInterval: interval,
		}
		if amount, ok := rainIntensities[entry.RainIntensity]; ok {
			minute.Precipitation = vartype.NewVariable(amount)
			if amount > 0 {
				minute.WeatherCode = weather.CodeRain
			}
		}
		result = append(result, minute)
	}
	return result
}

// nowcastSummary describes the rain nowcast of the next hour.
func nowcastSummary(rain RainResult) string {
	if len(rain.Properties.Forecast) == 0 {
		return ""
	}
	for _, entry := range rain.Properties.Forecast {
		if entry.RainIntensity > 1 {
			return "Rain expected within the next hour"
		}
	}
	return "No rain expected within the next hour"
}

// convertAlerts turns the vigilance colors of the department into alerts. Green
// phenomena are dropped.
func convertAlerts(warnings WarningResult, tz *time.Location) []weather.Alert {
	result := make([]weather.Alert, 0, len(warnings.PhenomenonMaxColors))
	for _, phenomenon := range warnings.PhenomenonMaxColors {
		if phenomenon.PhenomenonMaxColorID <= 1 {
			continue
		}
		level, ok := warningColors[phenomenon.PhenomenonMaxColorID]
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(phenomenon.PhenomenonID, 10, 64)
		if err != nil {
			continue
		}
		name := source.FirstNonEmpty(phenomena[phenomenon.PhenomenonID], phenomenon.PhenomenonID)
		result = append(result, weather.Alert{
			ID:          id,
			Date:        time.Unix(warnings.UpdateTime, 0).In(tz),
			Description: level.name + " warning: " + name,
			Content:     level.name + " vigilance for " + name + " in department " + warnings.DomainID,
			Type:        name,
			Priority:    level.priority,
			Color:       level.color,
		})
	}
	return weather.DeduplicateAlerts(result)
}

// atmoAirQuality returns the AtmoAuRA air quality of the calendar day of date.
func atmoAirQuality(atmo AtmoAuRAResult, date time.Time) weather.AirQuality {
	key := date.Format(atmoDateLayout)
	var result weather.AirQuality
	for _, idx := range atmo.Data.Indices {
		if idx.Date == key && idx.Value != nil {
			result.AQIIndex = vartype.NewVariable(int(math.Round(*idx.Value)))
		}
	}
	for _, pollutant := range atmo.Data.Pollutants {
		var val vartype.VarFloat64
		for _, v := range pollutant.Values {
			if v.Date == key {
				val = vartype.FromPointer(v.Value)
			}
		}
		switch strings.ToLower(pollutant.Name) {
		case "pm2.5", "pm25":
			result.PM25 = val
		case "pm10":
			result.PM10 = val
		case "no2":
			result.NO2 = val
		case "o3":
			result.O3 = val
		case "so2":
			result.SO2 = val
		}
	}
	return result
}

func convertWind(direction, speed *float64) weather.Wind {
	if speed == nil {
		return weather.Wind{}
	}
	degree := -1.0
	if direction != nil {
		degree = *direction
	}
	return weather.NewWind(degree, math.Round(*speed*msToKmh*100)/100)
}

func dayText(half *weather.HalfDay) string {
	if half == nil {
		return ""
	}
	return half.WeatherText
}

func firstSet(values ...*float64) vartype.VarFloat64 {
	return vartype.FromPointer(firstPointer(values...))
}

func firstPointer(values ...*float64) *float64 {
	for _, val := range values {
		if val != nil {
			return val
		}
	}
	return nil
}

func parseTime(val string, tz *time.Location) time.Time {
	if val == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}
	}
	return parsed.In(tz)
}
