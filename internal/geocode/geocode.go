// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode resolves coordinates into addresses and place names into
// coordinates for the weather sources that have no geocoding API of their own.
package geocode

import (
	"context"
	"errors"

	"github.com/wneessen/weatherfold/internal/weather"
)

// ErrNotImplemented is returned by geocoders that only support one direction.
var ErrNotImplemented = errors.New("geocoding direction not supported by provider")

type Address struct {
	AddressFound bool
	CacheHit     bool
	Latitude     float64
	Longitude    float64
	Altitude     float64
	DisplayName  string
	Country      string
	CountryCode  string
	State        string
	Municipality string
	CityDistrict string
	Postcode     string
	City         string
	Suburb       string
	Street       string
	HouseNumber  string
}

type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, lat, lon float64) (Address, error)
	Search(ctx context.Context, query string) ([]Address, error)
}

// Location maps an address into a weather location of the given source. The
// timezone is left empty and has to be resolved by the caller.
func (a Address) Location(src weather.Source) weather.Location {
	city := a.City
	if city == "" {
		city = a.Municipality
	}
	district := a.CityDistrict
	if district == "" {
		district = a.Suburb
	}
	return weather.Location{
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		Country:     a.Country,
		CountryCode: a.CountryCode,
		Province:    a.State,
		City:        city,
		District:    district,
		Source:      src,
		China:       weather.IsChina(a.CountryCode),
	}
}
