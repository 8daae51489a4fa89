// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"math"
	"strings"
	"time"

	"github.com/wneessen/weatherfold/internal/vartype"
)

// windLevelThresholds are the upper bounds in km/h of the Beaufort bands 0 to 11.
var windLevelThresholds = []float64{2, 6, 12, 19, 30, 40, 51, 62, 75, 87, 103, 117}

var windLevelNames = []string{
	"Calm", "Light air", "Light breeze", "Gentle breeze", "Moderate breeze", "Fresh breeze",
	"Strong breeze", "Near gale", "Gale", "Strong gale", "Storm", "Violent storm", "Hurricane",
}

var cardinalDirections = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

const (
	UVLevelLow      = "Low"
	UVLevelModerate = "Moderate"
	UVLevelHigh     = "High"
	UVLevelVeryHigh = "Very high"
	UVLevelExtreme  = "Extreme"
)

// WindLevel returns the Beaufort band 0 to 12 for a wind speed in km/h.
func WindLevel(speed float64) int {
	for i, threshold := range windLevelThresholds {
		if speed <= threshold {
			return i
		}
	}
	return len(windLevelThresholds)
}

// WindLevelName returns the name of a Beaufort band.
func WindLevelName(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(windLevelNames) {
		level = len(windLevelNames) - 1
	}
	return windLevelNames[level]
}

// WindDirectionName returns the 16-point compass direction for a bearing.
func WindDirectionName(degree float64) string {
	degree = math.Mod(degree, 360)
	if degree < 0 {
		degree += 360
	}
	return cardinalDirections[int(degree/22.5+0.5)%16]
}

// UVLevel returns the textual band of a UV index.
func UVLevel(index int) string {
	switch {
	case index <= 2:
		return UVLevelLow
	case index <= 5:
		return UVLevelModerate
	case index <= 7:
		return UVLevelHigh
	case index <= 10:
		return UVLevelVeryHigh
	default:
		return UVLevelExtreme
	}
}

// MoonPhaseAngle maps a provider moon phase name to its angle. Unknown names
// map to 360, the new moon.
func MoonPhaseAngle(phase string) int {
	normalized := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(phase))
	switch normalized {
	case "waxingcrescent":
		return 45
	case "first", "firstquarter":
		return 90
	case "waxinggibbous":
		return 135
	case "full", "fullmoon":
		return 180
	case "waninggibbous":
		return 225
	case "third", "thirdquarter", "last", "lastquarter":
		return 270
	case "waningcrescent":
		return 315
	default:
		return 360
	}
}

// IsDaylight reports whether the minute of day of t lies strictly between the minutes
// of day of sunrise and sunset, all evaluated in tz. Unknown sun times count as daylight.
func IsDaylight(sunrise, sunset, t time.Time, tz *time.Location) bool {
	if sunrise.IsZero() || sunset.IsZero() {
		return true
	}
	if tz == nil {
		tz = time.Local
	}
	rise := minuteOfDay(sunrise.In(tz))
	set := minuteOfDay(sunset.In(tz))
	now := minuteOfDay(t.In(tz))
	return rise < now && now < set
}

// CurrentUV estimates the UV index at now on a half-sine curve between sunrise and
// sunset that peaks at maxUV. It is unset unless sunrise is before sunset.
func CurrentUV(maxUV float64, now, sunrise, sunset time.Time, tz *time.Location) vartype.VarFloat64 {
	if sunrise.IsZero() || sunset.IsZero() || !sunrise.Before(sunset) {
		return vartype.VarFloat64{}
	}
	if tz == nil {
		tz = time.Local
	}
	rise := float64(minuteOfDay(sunrise.In(tz)))
	set := float64(minuteOfDay(sunset.In(tz)))
	cur := float64(minuteOfDay(now.In(tz)))
	if set <= rise || cur <= rise || cur >= set {
		return vartype.NewVariable(0.0)
	}
	progress := (cur - rise) / (set - rise)
	uv := maxUV * math.Sin(math.Pi*progress)
	return vartype.NewVariable(math.Round(uv*10) / 10)
}

// SunHours returns the hours between sunrise and sunset.
func SunHours(sunrise, sunset time.Time) vartype.VarFloat64 {
	if sunrise.IsZero() || sunset.IsZero() || !sunrise.Before(sunset) {
		return vartype.VarFloat64{}
	}
	hours := sunset.Sub(sunrise).Hours()
	return vartype.NewVariable(math.Round(hours*100) / 100)
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
