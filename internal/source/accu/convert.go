// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package accu

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/timezone"
	"github.com/wneessen/weatherfold/internal/unit"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

// iconCodes maps the AccuWeather icon numbers 1 to 44 into weather codes.
var iconCodes = map[int]weather.Code{
	1: weather.CodeClear, 2: weather.CodeClear, 30: weather.CodeClear, 33: weather.CodeClear,
	34: weather.CodeClear,
	3: weather.CodePartlyCloudy, 4: weather.CodePartlyCloudy, 6: weather.CodePartlyCloudy,
	35: weather.CodePartlyCloudy, 36: weather.CodePartlyCloudy, 38: weather.CodePartlyCloudy,
	5: weather.CodeHaze, 37: weather.CodeHaze,
	7: weather.CodeCloudy, 8: weather.CodeCloudy,
	11: weather.CodeFog,
	12: weather.CodeRain, 13: weather.CodeRain, 14: weather.CodeRain, 18: weather.CodeRain,
	39: weather.CodeRain, 40: weather.CodeRain,
	15: weather.CodeThunderstorm, 16: weather.CodeThunderstorm, 17: weather.CodeThunderstorm,
	41: weather.CodeThunderstorm, 42: weather.CodeThunderstorm,
	19: weather.CodeSnow, 20: weather.CodeSnow, 21: weather.CodeSnow, 22: weather.CodeSnow,
	23: weather.CodeSnow, 24: weather.CodeSnow, 31: weather.CodeSnow, 43: weather.CodeSnow,
	44: weather.CodeSnow,
	25: weather.CodeHail,
	26: weather.CodeSleet, 29: weather.CodeSleet,
	32: weather.CodeWind,
}

// WeatherCode maps an AccuWeather icon number into a weather code. Unknown icons
// are treated as cloudy.
func WeatherCode(icon int) weather.Code {
	if code, ok := iconCodes[icon]; ok {
		return code
	}
	return weather.CodeCloudy
}

// ConvertLocation builds a Location from an AccuWeather location result.
func ConvertLocation(existing *weather.Location, result LocationResult) weather.Location {
	fresh := weather.Location{
		CityID:      result.Key,
		Latitude:    result.GeoPosition.Latitude,
		Longitude:   result.GeoPosition.Longitude,
		TimeZone:    result.TimeZone.Name,
		Country:     result.Country.LocalizedName,
		CountryCode: result.Country.ID,
		Province:    result.AdministrativeArea.LocalizedName,
		City:        result.LocalizedName,
		Source:      weather.SourceAccu,
		China:       weather.IsChina(result.Country.ID),
	}
	if result.ParentCity != nil && result.ParentCity.LocalizedName != "" {
		fresh.City = result.ParentCity.LocalizedName
		fresh.District = result.LocalizedName
	}
	if fresh.TimeZone == "" {
		fresh.TimeZone = timezone.NameOrLocal(fresh.Latitude, fresh.Longitude)
	}
	return source.MergeLocation(existing, fresh)
}

// ConvertWeather folds the AccuWeather responses of one fetch into a Weather.
func ConvertWeather(settings source.Settings, location weather.Location, current CurrentResult,
	daily DailyResult, hourly []HourlyResult, minute MinuteResult, alerts []AlertResult, aqi AirQualityResult,
) (*weather.Weather, error) {
	return source.Guard("accu", func() (*weather.Weather, error) {
		if err := source.Require(current.Temperature, "Temperature"); err != nil {
			return nil, err
		}
		if current.Temperature.Metric.Value == nil {
			return nil, errors.New("current temperature is missing")
		}
		if len(daily.DailyForecasts) == 0 {
			return nil, errors.New("daily forecast is empty")
		}

		tz := location.TZ()
		now := settings.CurrentTime()
		result := weather.NewWeather()
		result.Base = weather.Base{
			CityID:      location.CityID,
			PublishTime: time.Unix(current.EpochTime, 0).In(tz),
			UpdateTime:  now,
		}
		result.Current = convertCurrent(settings, current, daily, minute, aqi)
		result.History = convertHistory(current, now, tz)

		for _, forecast := range daily.DailyForecasts {
			day, err := convertDaily(settings, forecast, tz)
			if err != nil {
				return nil, err
			}
			result.Daily = append(result.Daily, day)
		}
		weather.CompleteAstro(result.Daily, location.Latitude, location.Longitude, tz)

		hourlies := make([]weather.Hourly, 0, len(hourly))
		for _, h := range hourly {
			hourlies = append(hourlies, convertHourly(h, tz))
		}
		result.Hourly = weather.FilterHourly(hourlies, now)
		result.Minutely = convertMinutely(settings, minute, result.Daily, tz)
		result.Alerts = convertAlerts(alerts, tz)

		return result, nil
	})
}

func convertCurrent(settings source.Settings, current CurrentResult, daily DailyResult, minute MinuteResult,
	aqi AirQualityResult,
) weather.Current {
	result := weather.Current{
		WeatherText: current.WeatherText,
		WeatherCode: WeatherCode(current.WeatherIcon),
		Temperature: weather.Temperature{
			Temperature:   metricTemperature(current.Temperature),
			RealFeel:      metricTemperature(current.RealFeelTemperature),
			RealFeelShade: metricTemperature(current.RealFeelTemperatureShade),
			Apparent:      metricTemperature(current.ApparentTemperature),
			WindChill:     metricTemperature(current.WindChillTemperature),
			WetBulb:       metricTemperature(current.WetBulbTemperature),
		},
		RelativeHumidity: vartype.FromPointer(current.RelativeHumidity),
		DewPoint:         metricTemperature(current.DewPoint),
		CloudCover:       vartype.FromPointer(current.CloudCover),
		AirQuality:       convertAirQuality(aqi),
		DailyForecast:    transcode(settings, daily.Headline.Text),
		HourlyForecast:   transcode(settings, minute.Summary.Phrase),
	}
	if current.Pressure != nil {
		result.Pressure = vartype.FromPointer(current.Pressure.Metric.Value)
	}
	if current.Visibility != nil {
		result.Visibility = vartype.FromPointer(current.Visibility.Metric.Value)
	}
	if current.Ceiling != nil {
		result.Ceiling = vartype.FromPointer(current.Ceiling.Metric.Value)
	}
	if current.PrecipitationSummary.PastHour != nil {
		result.Precipitation.Total = millimeters(current.PrecipitationSummary.PastHour.Metric)
	}
	if current.Wind != nil && current.Wind.Speed != nil && current.Wind.Speed.Metric.Value != nil {
		result.Wind = convertWind(current.Wind.Direction, kilometersPerHour(current.Wind.Speed.Metric))
	}
	if current.UVIndex != nil {
		result.UV = weather.NewUV(*current.UVIndex, current.UVIndexText)
	}
	return result
}

func convertHistory(current CurrentResult, now time.Time, tz *time.Location) *weather.History {
	if current.TemperatureSummary == nil {
		return nil
	}
	past := current.TemperatureSummary.Past24HourRange
	history := &weather.History{
		Date:                 weather.DateOf(now, tz).AddDate(0, 0, -1),
		DaytimeTemperature:   celsius(past.Maximum.Metric),
		NighttimeTemperature: celsius(past.Minimum.Metric),
	}
	if !history.DaytimeTemperature.IsSet() && !history.NighttimeTemperature.IsSet() {
		return nil
	}
	return history
}

func convertDaily(settings source.Settings, forecast DailyForecast, tz *time.Location) (weather.Daily, error) {
	if err := source.Require(forecast.Temperature, "DailyForecasts.Temperature"); err != nil {
		return weather.Daily{}, err
	}
	if err := source.Require(forecast.Day, "DailyForecasts.Day"); err != nil {
		return weather.Daily{}, err
	}
	if err := source.Require(forecast.Night, "DailyForecasts.Night"); err != nil {
		return weather.Daily{}, err
	}

	var realFeel, realFeelShade MinMax
	if forecast.RealFeelTemperature != nil {
		realFeel = *forecast.RealFeelTemperature
	}
	if forecast.RealFeelTemperatureShade != nil {
		realFeelShade = *forecast.RealFeelTemperatureShade
	}

	day := convertHalfDay(settings, forecast.Day)
	day.Temperature = weather.Temperature{
		Temperature:   celsius(forecast.Temperature.Maximum),
		RealFeel:      celsius(realFeel.Maximum),
		RealFeelShade: celsius(realFeelShade.Maximum),
		DegreeDay:     celsius(forecast.DegreeDaySummary.Cooling),
	}
	night := convertHalfDay(settings, forecast.Night)
	night.Temperature = weather.Temperature{
		Temperature:   celsius(forecast.Temperature.Minimum),
		RealFeel:      celsius(realFeel.Minimum),
		RealFeelShade: celsius(realFeelShade.Minimum),
		DegreeDay:     celsius(forecast.DegreeDaySummary.Heating),
	}

	result := weather.Daily{
		Date:       weather.DateOf(time.Unix(forecast.EpochDate, 0), tz),
		Day:        day,
		Night:      night,
		Sun:        convertAstro(forecast.Sun, tz),
		Moon:       convertAstro(forecast.Moon, tz),
		HoursOfSun: vartype.FromPointer(forecast.HoursOfSun),
	}
	if forecast.Moon.Phase != "" {
		result.MoonPhase = weather.MoonPhase{
			Angle:       vartype.NewVariable(weather.MoonPhaseAngle(forecast.Moon.Phase)),
			Description: forecast.Moon.Phase,
		}
	}
	if entry, ok := airAndPollen(forecast.AirAndPollen, "AirQuality"); ok {
		result.AirQuality = weather.AirQuality{
			AQIText:  entry.Category,
			AQIIndex: vartype.FromPointer(entry.Value),
		}
	}
	result.Pollen = weather.Pollen{
		Grass:   pollenIndex(forecast.AirAndPollen, "Grass"),
		Mold:    pollenIndex(forecast.AirAndPollen, "Mold"),
		Ragweed: pollenIndex(forecast.AirAndPollen, "Ragweed"),
		Tree:    pollenIndex(forecast.AirAndPollen, "Tree"),
	}
	if entry, ok := airAndPollen(forecast.AirAndPollen, "UVIndex"); ok && entry.Value != nil {
		result.UV = weather.NewUV(float64(*entry.Value), entry.Category)
	}
	return result, nil
}

func convertHalfDay(settings source.Settings, half *HalfDay) *weather.HalfDay {
	result := &weather.HalfDay{
		WeatherText:  half.IconPhrase,
		WeatherPhase: transcode(settings, half.LongPhrase),
		WeatherCode:  WeatherCode(half.Icon),
		Precipitation: weather.Precipitation{
			Total: millimeters(half.TotalLiquid),
			Rain:  millimeters(half.Rain),
			Snow:  millimeters(half.Snow),
			Ice:   millimeters(half.Ice),
		},
		PrecipitationProbability: weather.PrecipitationProbability{
			Total:        vartype.FromPointer(half.PrecipitationProbability),
			Thunderstorm: vartype.FromPointer(half.ThunderstormProbability),
			Rain:         vartype.FromPointer(half.RainProbability),
			Snow:         vartype.FromPointer(half.SnowProbability),
			Ice:          vartype.FromPointer(half.IceProbability),
		},
		PrecipitationDuration: weather.PrecipitationDuration{
			Total: vartype.FromPointer(half.HoursOfPrecipitation),
			Rain:  vartype.FromPointer(half.HoursOfRain),
			Snow:  vartype.FromPointer(half.HoursOfSnow),
			Ice:   vartype.FromPointer(half.HoursOfIce),
		},
		CloudCover: vartype.FromPointer(half.CloudCover),
	}
	if result.WeatherPhase == "" {
		result.WeatherPhase = half.IconPhrase
	}
	if half.Wind != nil && half.Wind.Speed != nil && half.Wind.Speed.Value != nil {
		result.Wind = convertWind(half.Wind.Direction, kilometersPerHour(*half.Wind.Speed))
	}
	return result
}

func convertHourly(h HourlyResult, tz *time.Location) weather.Hourly {
	result := weather.Hourly{
		Date:        time.Unix(h.EpochDateTime, 0).In(tz),
		IsDaylight:  h.IsDaylight,
		WeatherText: h.IconPhrase,
		WeatherCode: WeatherCode(h.WeatherIcon),
		Precipitation: weather.Precipitation{
			Total: millimeters(h.TotalLiquid),
			Rain:  millimeters(h.Rain),
			Snow:  millimeters(h.Snow),
			Ice:   millimeters(h.Ice),
		},
		PrecipitationProbability: weather.PrecipitationProbability{
			Total:        vartype.FromPointer(h.PrecipitationProbability),
			Thunderstorm: vartype.FromPointer(h.ThunderstormProbability),
			Rain:         vartype.FromPointer(h.RainProbability),
			Snow:         vartype.FromPointer(h.SnowProbability),
			Ice:          vartype.FromPointer(h.IceProbability),
		},
	}
	if h.Temperature != nil {
		result.Temperature.Temperature = celsius(*h.Temperature)
	}
	if h.RealFeelTemperature != nil {
		result.Temperature.RealFeel = celsius(*h.RealFeelTemperature)
	}
	if h.RealFeelTemperatureShade != nil {
		result.Temperature.RealFeelShade = celsius(*h.RealFeelTemperatureShade)
	}
	if h.WetBulbTemperature != nil {
		result.Temperature.WetBulb = celsius(*h.WetBulbTemperature)
	}
	if h.Wind != nil && h.Wind.Speed != nil && h.Wind.Speed.Value != nil {
		result.Wind = convertWind(h.Wind.Direction, kilometersPerHour(*h.Wind.Speed))
	}
	if h.UVIndex != nil {
		result.UV = weather.NewUV(*h.UVIndex, h.UVIndexText)
	}
	return result
}

func convertMinutely(settings source.Settings, minute MinuteResult, dailies []weather.Daily,
	tz *time.Location,
) []weather.Minutely {
	result := make([]weather.Minutely, 0, len(minute.Intervals))
	var sun weather.Astro
	if len(dailies) > 0 {
		sun = dailies[0].Sun
	}
	for i, interval := range minute.Intervals {
		date := time.Unix(interval.StartEpochDateTime, 0).In(tz)
		step := 1
		if i+1 < len(minute.Intervals) {
			step = minute.Intervals[i+1].Minute - interval.Minute
		}
		entry := weather.Minutely{
			Date:           date,
			IsDaylight:     weather.IsDaylight(sun.Rise, sun.Set, date, tz),
			WeatherText:    transcode(settings, interval.ShortPhrase),
			WeatherCode:    WeatherCode(interval.IconCode),
			MinuteInterval: step,
			CloudCover:     vartype.FromPointer(interval.CloudCover),
		}
		if interval.Dbz != nil {
			entry.DBZ = vartype.NewVariable(int(math.Round(*interval.Dbz)))
		}
		result = append(result, entry)
	}
	return result
}

// convertAlerts builds one alert per AccuWeather alert from its first area.
func convertAlerts(alerts []AlertResult, tz *time.Location) []weather.Alert {
	result := make([]weather.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if len(alert.Area) == 0 {
			continue
		}
		area := alert.Area[0]
		result = append(result, weather.Alert{
			ID:          alert.AlertID,
			Date:        time.Unix(area.EpochStartTime, 0).In(tz),
			Description: source.FirstNonEmpty(alert.Description.Localized, alert.Description.English),
			Content:     source.FirstNonEmpty(area.Text, area.Summary),
			Type:        source.FirstNonEmpty(alert.Type, alert.Category),
			Priority:    alert.Priority,
			Color:       color.RGBA{R: alert.Color.Red, G: alert.Color.Green, B: alert.Color.Blue, A: 0xff},
		})
	}
	return weather.DeduplicateAlerts(result)
}

func convertAirQuality(aqi AirQualityResult) weather.AirQuality {
	return weather.AirQuality{
		AQIIndex: vartype.FromPointer(aqi.Index),
		PM25:     vartype.FromPointer(aqi.ParticulateMatter2_5),
		PM10:     vartype.FromPointer(aqi.ParticulateMatter10),
		SO2:      vartype.FromPointer(aqi.SulfurDioxide),
		NO2:      vartype.FromPointer(aqi.NitrogenDioxide),
		O3:       vartype.FromPointer(aqi.Ozone),
		CO:       vartype.FromPointer(aqi.CarbonMonoxide),
	}
}

func convertWind(direction Direction, speed vartype.VarFloat64) weather.Wind {
	degree := -1.0
	if direction.Degrees != nil {
		degree = *direction.Degrees
	}
	wind := weather.NewWind(degree, speed.Value())
	if direction.Localized != "" {
		wind.Direction = direction.Localized
	}
	return wind
}

func convertAstro(astro Astro, tz *time.Location) weather.Astro {
	var result weather.Astro
	if astro.EpochRise != nil {
		result.Rise = time.Unix(*astro.EpochRise, 0).In(tz)
	}
	if astro.EpochSet != nil {
		result.Set = time.Unix(*astro.EpochSet, 0).In(tz)
	}
	return result
}

func airAndPollen(entries []AirAndPollen, name string) (AirAndPollen, bool) {
	for _, entry := range entries {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return AirAndPollen{}, false
}

func pollenIndex(entries []AirAndPollen, name string) weather.PollenIndex {
	entry, ok := airAndPollen(entries, name)
	if !ok {
		return weather.PollenIndex{}
	}
	return weather.PollenIndex{
		Index:       vartype.FromPointer(entry.Value),
		Level:       vartype.FromPointer(entry.CategoryValue),
		Description: entry.Category,
	}
}

// transcode rewrites the millimeter and centimeter amounts AccuWeather embeds in
// its phrases into the preferred precipitation unit.
func transcode(settings source.Settings, text string) string {
	target := settings.PrecipitationUnit
	if target == "" {
		return text
	}
	text = unit.TranscodeText(text, unit.Millimeter, target)
	return unit.TranscodeText(text, unit.Centimeter, target)
}

func metricTemperature(val *MetricImperial) vartype.VarInt {
	if val == nil {
		return vartype.VarInt{}
	}
	return celsius(val.Metric)
}

func celsius(m Measurement) vartype.VarInt {
	if m.Value == nil {
		return vartype.VarInt{}
	}
	if strings.EqualFold(m.Unit, "F") {
		return weather.Celsius((*m.Value - 32) * 5 / 9)
	}
	return weather.Celsius(*m.Value)
}

func millimeters(m Measurement) vartype.VarFloat64 {
	if m.Value == nil {
		return vartype.VarFloat64{}
	}
	switch strings.ToLower(m.Unit) {
	case "cm":
		return vartype.NewVariable(unit.Centimeter.ToMillimeter(*m.Value))
	case "in":
		return vartype.NewVariable(unit.Inch.ToMillimeter(*m.Value))
	default:
		return vartype.NewVariable(*m.Value)
	}
}

func kilometersPerHour(m Measurement) vartype.VarFloat64 {
	if m.Value == nil {
		return vartype.VarFloat64{}
	}
	if strings.EqualFold(m.Unit, "mi/h") {
		return vartype.NewVariable(*m.Value * 1.609344)
	}
	return vartype.NewVariable(*m.Value)
}
