// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weatherfold/internal/vartype"
)

// SunAt calculates sunrise and sunset for the calendar day of date in tz. Polar
// days and nights yield an invalid Astro.
func SunAt(lat, lon float64, date time.Time, tz *time.Location) Astro {
	if tz == nil {
		tz = time.Local
	}
	local := date.In(tz)
	rise, set := sunrise.SunriseSunset(lat, lon, local.Year(), local.Month(), local.Day())
	if rise.IsZero() || set.IsZero() {
		return Astro{}
	}
	return Astro{Rise: rise.In(tz), Set: set.In(tz)}
}

// MoonPhaseAt calculates the moon phase at t.
func MoonPhaseAt(t time.Time) MoonPhase {
	name := moonphase.New(t).PhaseName()
	return MoonPhase{
		Angle:       vartype.NewVariable(MoonPhaseAngle(name)),
		Description: name,
	}
}

// CompleteAstro fills unknown sun times, moon phases and sun hours of the dailies
// from astronomical calculation.
func CompleteAstro(dailies []Daily, lat, lon float64, tz *time.Location) {
	for i := range dailies {
		if !dailies[i].Sun.IsValid() {
			dailies[i].Sun = SunAt(lat, lon, dailies[i].Date, tz)
		}
		if !dailies[i].MoonPhase.Angle.IsSet() {
			dailies[i].MoonPhase = MoonPhaseAt(dailies[i].Date.Add(time.Hour * 12))
		}
		if !dailies[i].HoursOfSun.IsSet() {
			dailies[i].HoursOfSun = SunHours(dailies[i].Sun.Rise, dailies[i].Sun.Set)
		}
	}
}
