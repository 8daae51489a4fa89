// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

// Code is the closed set of weather conditions every provider code is mapped into.
// The zero value means no code was reported.
type Code int

const (
	CodeUnset Code = iota
	CodeClear
	CodePartlyCloudy
	CodeCloudy
	CodeFog
	CodeHaze
	CodeRain
	CodeSnow
	CodeSleet
	CodeHail
	CodeWind
	CodeThunder
	CodeThunderstorm
)

var codeNames = map[Code]string{
	CodeUnset:        "",
	CodeClear:        "CLEAR",
	CodePartlyCloudy: "PARTLY_CLOUDY",
	CodeCloudy:       "CLOUDY",
	CodeFog:          "FOG",
	CodeHaze:         "HAZE",
	CodeRain:         "RAIN",
	CodeSnow:         "SNOW",
	CodeSleet:        "SLEET",
	CodeHail:         "HAIL",
	CodeWind:         "WIND",
	CodeThunder:      "THUNDER",
	CodeThunderstorm: "THUNDERSTORM",
}

func (c Code) String() string {
	return codeNames[c]
}

// IsSet reports whether the code carries an actual weather condition.
func (c Code) IsSet() bool {
	return c > CodeUnset && c <= CodeThunderstorm
}

// IsPrecipitation reports whether the code describes falling precipitation.
func (c Code) IsPrecipitation() bool {
	switch c {
	case CodeRain, CodeSnow, CodeSleet, CodeHail, CodeThunderstorm:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
