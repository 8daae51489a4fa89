// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather holds the provider independent weather model that all source
// converters produce, plus the helpers they share.
package weather

import (
	"errors"
	"image/color"
	"math"
	"time"

	"github.com/wneessen/weatherfold/internal/vartype"
)

// ErrConversion is returned by every converter when a provider payload could not be mapped.
var ErrConversion = errors.New("failed to convert weather data")

// Weather is the result of one fetch cycle for one Location.
type Weather struct {
	Base     Base
	Current  Current
	History  *History
	Daily    []Daily
	Hourly   []Hourly
	Minutely []Minutely
	Alerts   []Alert
}

// Base holds the identity and timestamps of a fetch cycle.
type Base struct {
	CityID      string
	PublishTime time.Time
	UpdateTime  time.Time
}

type Current struct {
	WeatherText              string
	WeatherCode              Code
	Temperature              Temperature
	Precipitation            Precipitation
	PrecipitationProbability PrecipitationProbability
	Wind                     Wind
	UV                       UV
	AirQuality               AirQuality
	RelativeHumidity         vartype.VarFloat64
	Pressure                 vartype.VarFloat64
	Visibility               vartype.VarFloat64
	DewPoint                 vartype.VarInt
	CloudCover               vartype.VarInt
	Ceiling                  vartype.VarFloat64
	DailyForecast            string
	HourlyForecast           string
}

// History holds the temperature extremes of the previous day.
type History struct {
	Date                 time.Time
	DaytimeTemperature   vartype.VarInt
	NighttimeTemperature vartype.VarInt
}

// Daily is one calendar day, Date is local midnight in the location's timezone.
type Daily struct {
	Date       time.Time
	Day        *HalfDay
	Night      *HalfDay
	Sun        Astro
	Moon       Astro
	MoonPhase  MoonPhase
	AirQuality AirQuality
	Pollen     Pollen
	UV         UV
	HoursOfSun vartype.VarFloat64
}

// HalfDay is the day or night portion of a Daily.
type HalfDay struct {
	WeatherText              string
	WeatherPhase             string
	WeatherCode              Code
	Temperature              Temperature
	Precipitation            Precipitation
	PrecipitationProbability PrecipitationProbability
	PrecipitationDuration    PrecipitationDuration
	Wind                     Wind
	CloudCover               vartype.VarInt
}

type Hourly struct {
	Date                     time.Time
	IsDaylight               bool
	WeatherText              string
	WeatherCode              Code
	Temperature              Temperature
	Precipitation            Precipitation
	PrecipitationProbability PrecipitationProbability
	Wind                     Wind
	AirQuality               AirQuality
	Pollen                   Pollen
	UV                       UV
}

// Minutely is one step of a short-term precipitation nowcast.
type Minutely struct {
	Date           time.Time
	IsDaylight     bool
	WeatherText    string
	WeatherCode    Code
	MinuteInterval int
	DBZ            vartype.VarInt
	CloudCover     vartype.VarInt
	Precipitation  vartype.VarFloat64
}

// Temperature values are degrees Celsius.
type Temperature struct {
	Temperature   vartype.VarInt
	RealFeel      vartype.VarInt
	RealFeelShade vartype.VarInt
	Apparent      vartype.VarInt
	WindChill     vartype.VarInt
	WetBulb       vartype.VarInt
	DegreeDay     vartype.VarInt
}

// Precipitation amounts are millimeters.
type Precipitation struct {
	Total        vartype.VarFloat64
	Thunderstorm vartype.VarFloat64
	Rain         vartype.VarFloat64
	Snow         vartype.VarFloat64
	Ice          vartype.VarFloat64
}

// PrecipitationProbability values are percentages.
type PrecipitationProbability struct {
	Total        vartype.VarFloat64
	Thunderstorm vartype.VarFloat64
	Rain         vartype.VarFloat64
	Snow         vartype.VarFloat64
	Ice          vartype.VarFloat64
}

// PrecipitationDuration values are hours.
type PrecipitationDuration struct {
	Total        vartype.VarFloat64
	Thunderstorm vartype.VarFloat64
	Rain         vartype.VarFloat64
	Snow         vartype.VarFloat64
	Ice          vartype.VarFloat64
}

type Wind struct {
	Direction string
	Degree    WindDegree
	// Speed is km/h
	Speed vartype.VarFloat64
	Level string
}

type WindDegree struct {
	Degree      vartype.VarFloat64
	NoDirection bool
}

type UV struct {
	Index       vartype.VarFloat64
	Level       string
	Description string
}

type AirQuality struct {
	AQIText  string
	AQIIndex vartype.VarInt
	PM25     vartype.VarFloat64
	PM10     vartype.VarFloat64
	SO2      vartype.VarFloat64
	NO2      vartype.VarFloat64
	O3       vartype.VarFloat64
	CO       vartype.VarFloat64
}

type PollenIndex struct {
	Index       vartype.VarInt
	Level       vartype.VarInt
	Description string
}

type Pollen struct {
	Grass   PollenIndex
	Mold    PollenIndex
	Ragweed PollenIndex
	Tree    PollenIndex
	Alder   PollenIndex
	Birch   PollenIndex
	Mugwort PollenIndex
	Olive   PollenIndex
}

type Alert struct {
	ID          int64
	Date        time.Time
	Description string
	Content     string
	Type        string
	Priority    int
	Color       color.RGBA
}

// Astro holds rise and set times of the sun or the moon. Zero times are unknown.
type Astro struct {
	Rise time.Time
	Set  time.Time
}

type MoonPhase struct {
	Angle       vartype.VarInt
	Description string
}

// NewWeather returns a Weather with all sequences initialized.
func NewWeather() *Weather {
	return &Weather{
		Daily:    make([]Daily, 0),
		Hourly:   make([]Hourly, 0),
		Minutely: make([]Minutely, 0),
		Alerts:   make([]Alert, 0),
	}
}

// IsValid reports whether both rise and set are known.
func (a Astro) IsValid() bool {
	return !a.Rise.IsZero() && !a.Set.IsZero()
}

// IsValid reports whether any pollutant or index is known.
func (a AirQuality) IsValid() bool {
	return a.AQIIndex.IsSet() || a.PM25.IsSet() || a.PM10.IsSet() || a.SO2.IsSet() ||
		a.NO2.IsSet() || a.O3.IsSet() || a.CO.IsSet()
}

// IsValid reports whether any pollen index is known.
func (p Pollen) IsValid() bool {
	for _, idx := range []PollenIndex{p.Grass, p.Mold, p.Ragweed, p.Tree, p.Alder, p.Birch, p.Mugwort, p.Olive} {
		if idx.Index.IsSet() {
			return true
		}
	}
	return false
}

// Celsius rounds a temperature to whole degrees.
func Celsius(val float64) vartype.VarInt {
	return vartype.NewVariable(int(math.Round(val)))
}

// CelsiusFrom rounds a temperature to whole degrees if it is set.
func CelsiusFrom(val vartype.VarFloat64) vartype.VarInt {
	return vartype.Convert(val, func(f float64) int { return int(math.Round(f)) })
}

// NewTemperature returns a Temperature with the current value set.
func NewTemperature(val float64) Temperature {
	return Temperature{Temperature: Celsius(val)}
}

// NewUV returns a UV with the level derived from the index.
func NewUV(index float64, description string) UV {
	return UV{
		Index:       vartype.NewVariable(index),
		Level:       UVLevel(int(math.Round(index))),
		Description: description,
	}
}

// NewWind returns a Wind with level and direction text derived from speed and degree.
// A negative degree marks a variable wind direction.
func NewWind(degree, speed float64) Wind {
	wind := Wind{
		Speed: vartype.NewVariable(speed),
		Level: WindLevelName(WindLevel(speed)),
	}
	if degree < 0 {
		wind.Degree.NoDirection = true
		wind.Direction = "Variable"
		return wind
	}
	wind.Degree.Degree = vartype.NewVariable(degree)
	wind.Direction = WindDirectionName(degree)
	return wind
}
