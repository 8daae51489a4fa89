// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/wneessen/weatherfold/internal/weather"

// moonPhaseIcons are ordered by moon phase angle in steps of 45 degrees, starting
// with the new moon.
var moonPhaseIcons = []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

// codeIcons maps weather codes to single emoji icons for day (true) and night (false)
var codeIcons = map[weather.Code]map[bool]string{
	weather.CodeClear: {
		true:  "☀️",
		false: "🌙",
	},
	weather.CodePartlyCloudy: {
		true:  "⛅",
		false: "☁️",
	},
	weather.CodeCloudy: {
		true:  "☁️",
		false: "☁️",
	},
	weather.CodeFog: {
		true:  "🌫️",
		false: "🌫️",
	},
	weather.CodeHaze: {
		true:  "🌫️",
		false: "🌫️",
	},
	weather.CodeRain: {
		true:  "🌧️",
		false: "🌧️",
	},
	weather.CodeSnow: {
		true:  "❄️",
		false: "❄️",
	},
	weather.CodeSleet: {
		true:  "🌨️",
		false: "🌨️",
	},
	weather.CodeHail: {
		true:  "🧊",
		false: "🧊",
	},
	weather.CodeWind: {
		true:  "💨",
		false: "💨",
	},
	weather.CodeThunder: {
		true:  "🌩️",
		false: "🌩️",
	},
	weather.CodeThunderstorm: {
		true:  "⛈️",
		false: "⛈️",
	},
}

const unknownIcon = "❔"

// alertIcons are indexed by alert priority.
var alertIcons = map[int]string{
	1: "🟥",
	2: "🟧",
	3: "🟨",
	4: "🟦",
}
