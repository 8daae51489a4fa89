// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"sort"
	"time"

	"github.com/wneessen/weatherfold/internal/vartype"
)

const (
	dayStartHour   = 6
	nightStartHour = 18
	dayCodeHour    = 12
	nightCodeHour  = 24

	temperatureWindow = time.Hour * 30
)

// Bucket identifies the half-day a point in time belongs to. Date is local midnight
// of the calendar day the half-day is attributed to.
type Bucket struct {
	Date  time.Time
	IsDay bool
}

// BucketOf attributes t to a half-day of the location's calendar. The day half runs
// from 06:00 to 17:59, the night half from 18:00 to 05:59 of the next calendar day,
// so times before 06:00 belong to the night of the previous day.
func BucketOf(t time.Time, tz *time.Location) Bucket {
	if tz == nil {
		tz = time.Local
	}
	local := t.In(tz)
	date := DateOf(local, tz)
	switch {
	case local.Hour() < dayStartHour:
		return Bucket{Date: date.AddDate(0, 0, -1), IsDay: false}
	case local.Hour() < nightStartHour:
		return Bucket{Date: date, IsDay: true}
	default:
		return Bucket{Date: date, IsDay: false}
	}
}

// DateOf returns local midnight of the calendar day of t in tz.
func DateOf(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = time.Local
	}
	local := t.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
}

// Key returns a comparable representation of the bucket.
func (b Bucket) Key() string {
	if b.IsDay {
		return b.Date.Format(time.DateOnly) + "/day"
	}
	return b.Date.Format(time.DateOnly) + "/night"
}

// HalfDayAccumulator aggregates hourly samples of one half-day.
type HalfDayAccumulator struct {
	bucket  Bucket
	samples int

	codeMark  time.Time
	codeTime  time.Time
	code      Code
	text      string
	tempMax   vartype.VarInt
	tempMin   vartype.VarInt
	appMax    vartype.VarInt
	appMin    vartype.VarInt
	precip    Precipitation
	prob      PrecipitationProbability
	wind      Wind
	cloudSum  int
	cloudSeen int
}

// NewHalfDayAccumulator returns an empty accumulator for the given bucket. The
// strongest wind starts out as calm.
func NewHalfDayAccumulator(bucket Bucket) *HalfDayAccumulator {
	mark := bucket.Date.Add(time.Hour * dayCodeHour)
	if !bucket.IsDay {
		mark = time.Date(bucket.Date.Year(), bucket.Date.Month(), bucket.Date.Day(), nightCodeHour, 0, 0, 0,
			bucket.Date.Location())
	}
	return &HalfDayAccumulator{
		bucket:   bucket,
		codeMark: mark,
		wind: Wind{
			Speed:  vartype.NewVariable(0.0),
			Level:  WindLevelName(0),
			Degree: WindDegree{NoDirection: true},
		},
	}
}

// Add feeds one hourly sample into the accumulator.
func (a *HalfDayAccumulator) Add(h Hourly) {
	a.samples++

	// The weather code is taken from the sample at the half-day's mark, otherwise
	// from the earliest sample seen.
	if h.WeatherCode.IsSet() {
		switch {
		case h.Date.Equal(a.codeMark):
			a.setCode(h)
		case a.code == CodeUnset || (!a.codeTime.Equal(a.codeMark) && h.Date.Before(a.codeTime)):
			a.setCode(h)
		}
	}

	a.AddTemperature(h.Temperature)

	a.precip.Total = vartype.Sum(a.precip.Total, h.Precipitation.Total)
	a.precip.Thunderstorm = vartype.Sum(a.precip.Thunderstorm, h.Precipitation.Thunderstorm)
	a.precip.Rain = vartype.Sum(a.precip.Rain, h.Precipitation.Rain)
	a.precip.Snow = vartype.Sum(a.precip.Snow, h.Precipitation.Snow)
	a.precip.Ice = vartype.Sum(a.precip.Ice, h.Precipitation.Ice)

	a.prob.Total = vartype.Max(a.prob.Total, h.PrecipitationProbability.Total)
	a.prob.Thunderstorm = vartype.Max(a.prob.Thunderstorm, h.PrecipitationProbability.Thunderstorm)
	a.prob.Rain = vartype.Max(a.prob.Rain, h.PrecipitationProbability.Rain)
	a.prob.Snow = vartype.Max(a.prob.Snow, h.PrecipitationProbability.Snow)
	a.prob.Ice = vartype.Max(a.prob.Ice, h.PrecipitationProbability.Ice)

	if h.Wind.Speed.IsSet() && h.Wind.Speed.Value() > a.wind.Speed.Value() {
		a.wind = h.Wind
	}
}

// AddCloudCover feeds a cloud cover percentage into the accumulator.
func (a *HalfDayAccumulator) AddCloudCover(cover vartype.VarInt) {
	if !cover.IsSet() {
		return
	}
	a.cloudSum += cover.Value()
	a.cloudSeen++
}

// AddTemperature feeds a temperature into the extremes of the accumulator.
func (a *HalfDayAccumulator) AddTemperature(temp Temperature) {
	a.tempMax = vartype.Max(a.tempMax, temp.Temperature)
	a.tempMin = minVar(a.tempMin, temp.Temperature)
	a.appMax = vartype.Max(a.appMax, temp.Apparent)
	a.appMin = minVar(a.appMin, temp.Apparent)
}

func (a *HalfDayAccumulator) setCode(h Hourly) {
	a.code = h.WeatherCode
	a.text = h.WeatherText
	a.codeTime = h.Date
}

// Samples returns the number of hourly samples added.
func (a *HalfDayAccumulator) Samples() int {
	return a.samples
}

// Bucket returns the half-day the accumulator belongs to.
func (a *HalfDayAccumulator) Bucket() Bucket {
	return a.bucket
}

// HalfDay returns the aggregated half-day without a temperature, or nil if no
// sample was added.
func (a *HalfDayAccumulator) HalfDay() *HalfDay {
	if a.samples == 0 {
		return nil
	}
	half := &HalfDay{
		WeatherText:              a.text,
		WeatherPhase:             a.text,
		WeatherCode:              a.code,
		Precipitation:            a.precip,
		PrecipitationProbability: a.prob,
		Wind:                     a.wind,
	}
	if a.cloudSeen > 0 {
		half.CloudCover.Set(a.cloudSum / a.cloudSeen)
	}
	return half
}

// CompleteDaily fills missing day and night halves of the dailies from the hourly
// samples. Day temperatures are the maximum and night temperatures the minimum over
// the window from 06:00 to 12:00 of the next day. A half-day without any sample or
// without any temperature in that window stays nil. Dailies left without any half
// are dropped.
func CompleteDaily(dailies []Daily, hourlies []Hourly, tz *time.Location) []Daily {
	if tz == nil {
		tz = time.Local
	}
	sorted := make([]Hourly, len(hourlies))
	copy(sorted, hourlies)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	buckets := make(map[string]*HalfDayAccumulator)
	for _, hourly := range sorted {
		bucket := BucketOf(hourly.Date, tz)
		acc, ok := buckets[bucket.Key()]
		if !ok {
			acc = NewHalfDayAccumulator(bucket)
			buckets[bucket.Key()] = acc
		}
		acc.Add(hourly)
	}

	result := make([]Daily, 0, len(dailies))
	for _, daily := range dailies {
		date := DateOf(daily.Date, tz)
		dayAcc := buckets[Bucket{Date: date, IsDay: true}.Key()]
		nightAcc := buckets[Bucket{Date: date, IsDay: false}.Key()]

		start := time.Date(date.Year(), date.Month(), date.Day(), dayStartHour, 0, 0, 0, tz)
		window := NewHalfDayAccumulator(Bucket{Date: date, IsDay: true})
		for _, hourly := range sorted {
			if hourly.Date.Before(start) || !hourly.Date.Before(start.Add(temperatureWindow)) {
				continue
			}
			window.AddTemperature(hourly.Temperature)
		}

		if daily.Day == nil && dayAcc != nil && window.tempMax.IsSet() {
			daily.Day = dayAcc.HalfDay()
			daily.Day.Temperature = Temperature{Temperature: window.tempMax, Apparent: window.appMax}
		}
		if daily.Night == nil && nightAcc != nil && window.tempMin.IsSet() {
			daily.Night = nightAcc.HalfDay()
			daily.Night.Temperature = Temperature{Temperature: window.tempMin, Apparent: window.appMin}
		}
		if daily.Day == nil && daily.Night == nil {
			continue
		}
		result = append(result, daily)
	}
	return result
}

// FilterHourly drops samples older than one hour before now and returns the rest
// with strictly increasing timestamps.
func FilterHourly(hourlies []Hourly, now time.Time) []Hourly {
	threshold := now.Add(-time.Hour)
	result := make([]Hourly, 0, len(hourlies))
	for _, hourly := range hourlies {
		if hourly.Date.Before(threshold) {
			continue
		}
		result = append(result, hourly)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })

	deduped := result[:0]
	for i, hourly := range result {
		if i > 0 && !hourly.Date.After(deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, hourly)
	}
	return deduped
}

func minVar(a, b vartype.VarInt) vartype.VarInt {
	switch {
	case !a.IsSet():
		return b
	case !b.IsSet():
		return a
	case b.Value() < a.Value():
		return b
	default:
		return a
	}
}
