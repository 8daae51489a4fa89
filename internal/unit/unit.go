// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package unit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Precipitation is a unit for precipitation amounts.
type Precipitation string

const (
	Millimeter          Precipitation = "mm"
	Centimeter          Precipitation = "cm"
	Inch                Precipitation = "in"
	LiterPerSquareMeter Precipitation = "lpsqm"
)

// precipitationFactors hold the size of every unit in millimeters.
var precipitationFactors = map[Precipitation]float64{
	Millimeter:          1,
	Centimeter:          10,
	Inch:                25.4,
	LiterPerSquareMeter: 1,
}

var precipitationLabels = map[Precipitation]string{
	Millimeter:          "mm",
	Centimeter:          "cm",
	Inch:                "in",
	LiterPerSquareMeter: "L/m²",
}

// ParsePrecipitation returns the precipitation unit for a configuration value.
func ParsePrecipitation(val string) (Precipitation, error) {
	unit := Precipitation(strings.ToLower(strings.TrimSpace(val)))
	if unit == "" {
		return Millimeter, nil
	}
	if _, ok := precipitationFactors[unit]; !ok {
		return "", fmt.Errorf("unsupported precipitation unit: %s", val)
	}
	return unit, nil
}

// Label returns the display label of the unit.
func (p Precipitation) Label() string {
	if label, ok := precipitationLabels[p]; ok {
		return label
	}
	return string(p)
}

// FromMillimeter converts a millimeter amount into the unit.
func (p Precipitation) FromMillimeter(val float64) float64 {
	factor, ok := precipitationFactors[p]
	if !ok {
		return val
	}
	return val / factor
}

// ToMillimeter converts an amount in the unit into millimeters.
func (p Precipitation) ToMillimeter(val float64) float64 {
	factor, ok := precipitationFactors[p]
	if !ok {
		return val
	}
	return val * factor
}

// TranscodeText rewrites all "<amount> <unit>" and "<from>-<to> <unit>" occurrences
// of the from unit in text into the to unit.
func TranscodeText(text string, from, to Precipitation) string {
	if from == to || text == "" {
		return text
	}
	pattern := regexp.MustCompile(`(\d+(?:\.\d+)?)(?:\s*-\s*(\d+(?:\.\d+)?))?\s?` +
		regexp.QuoteMeta(from.Label()) + `\b`)
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := pattern.FindStringSubmatch(match)
		lower, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			return match
		}
		result := formatAmount(to.FromMillimeter(from.ToMillimeter(lower)))
		if groups[2] != "" {
			upper, err := strconv.ParseFloat(groups[2], 64)
			if err != nil {
				return match
			}
			result += "-" + formatAmount(to.FromMillimeter(from.ToMillimeter(upper)))
		}
		return result + " " + to.Label()
	})
}

func formatAmount(val float64) string {
	return strconv.FormatFloat(math.Round(val*100)/100, 'f', -1, 64)
}

// Fahrenheit converts degrees Celsius into degrees Fahrenheit.
func Fahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// MilesPerHour converts km/h into mph.
func MilesPerHour(kmh float64) float64 {
	return kmh / 1.609344
}

// KilometersPerHour converts m/s into km/h.
func KilometersPerHour(ms float64) float64 {
	return ms * 3.6
}
