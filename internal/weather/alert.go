// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"image/color"
	"sort"
)

var (
	ColorAlertBlue   = color.RGBA{R: 0x3a, G: 0x8e, B: 0xe6, A: 0xff}
	ColorAlertYellow = color.RGBA{R: 0xf1, G: 0xc4, B: 0x0f, A: 0xff}
	ColorAlertOrange = color.RGBA{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff}
	ColorAlertRed    = color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	ColorAlertGray   = color.RGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff}
)

// DeduplicateAlerts keeps one alert per ID and orders the result by onset time,
// newest first. When an ID occurs more than once, its last occurrence wins.
func DeduplicateAlerts(alerts []Alert) []Alert {
	index := make(map[int64]int, len(alerts))
	result := make([]Alert, 0, len(alerts))
	for _, alert := range alerts {
		if pos, ok := index[alert.ID]; ok {
			result[pos] = alert
			continue
		}
		index[alert.ID] = len(result)
		result = append(result, alert)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	return result
}
