// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package source

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/wneessen/weatherfold/internal/weather"
)

// MergeLocation refreshes an existing location with a freshly converted one. If the
// existing location carries administrative names, those names and the current
// position flag are kept and only identity, coordinates, timezone and source are
// taken from fresh.
func MergeLocation(existing *weather.Location, fresh weather.Location) weather.Location {
	if existing == nil {
		return fresh
	}
	fresh.CurrentPosition = existing.CurrentPosition
	if !existing.HasAdminNames() {
		return fresh
	}
	fresh.Country = existing.Country
	fresh.CountryCode = existing.CountryCode
	fresh.Province = existing.Province
	fresh.City = existing.City
	fresh.District = existing.District
	fresh.China = existing.China
	return fresh
}

// FirstNonEmpty returns the first non-empty value.
func FirstNonEmpty(values ...string) string {
	for _, val := range values {
		if val != "" {
			return val
		}
	}
	return ""
}

// CountryName returns the English name of an ISO 3166 country code, or the code
// itself if it is unknown.
func CountryName(code string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	return display.English.Regions().Name(region)
}
