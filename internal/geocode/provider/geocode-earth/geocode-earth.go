// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/http"
)

const (
	APIReverseEndpoint = "https://api.geocode.earth/v1/reverse"
	APISearchEndpoint  = "https://api.geocode.earth/v1/search"
	APITimeout         = time.Second * 10
	name               = "geocode-earth"
	searchSize         = "10"
)

type GeocodeEarth struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Features []Feature `json:"features"`
	Type     string    `json:"type"`
}

type Feature struct {
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
	Type       string     `json:"type"`
}

// Geometry holds a GeoJSON point, coordinates are longitude first.
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
}

type Properties struct {
	DisplayName  string `json:"label"`
	Name         string `json:"name"`
	City         string `json:"locality"`
	CityDistrict string `json:"borough"`
	County       string `json:"county"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	HouseNumber  string `json:"housenumber"`
	Municipality string `json:"localadmin"`
	Suburb       string `json:"neighbourhood"`
	Postcode     string `json:"postalcode"`
	Road         string `json:"street"`
	State        string `json:"region"`
}

func New(client *http.Client, lang language.Tag, apikey string) *GeocodeEarth {
	return &GeocodeEarth{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) Reverse(ctx context.Context, lat, lon float64) (geocode.Address, error) {
	var response Response

	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("point.lat", fmt.Sprintf("%f", lat))
	query.Set("point.lon", fmt.Sprintf("%f", lon))
	query.Set("lang", g.lang.String())
	query.Set("size", "1")

	if _, err := g.http.GetWithTimeout(ctx, APIReverseEndpoint, &response, query, nil, APITimeout); err != nil {
		return geocode.Address{}, fmt.Errorf("failed to retrieve address details from geocode.earth API: %w", err)
	}
	if len(response.Features) < 1 {
		return geocode.Address{}, fmt.Errorf("no address found for coordinates")
	}

	address := response.Features[0].toAddress()
	address.Latitude = lat
	address.Longitude = lon
	return address, nil
}

// Search forward geocodes a place name.
func (g *GeocodeEarth) Search(ctx context.Context, address string) ([]geocode.Address, error) {
	var response Response

	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("text", address)
	query.Set("lang", g.lang.String())
	query.Set("size", searchSize)

	if _, err := g.http.GetWithTimeout(ctx, APISearchEndpoint, &response, query, nil, APITimeout); err != nil {
		return nil, fmt.Errorf("failed to retrieve coordinates from geocode.earth API: %w", err)
	}

	addresses := make([]geocode.Address, 0, len(response.Features))
	for _, feature := range response.Features {
		if len(feature.Geometry.Coordinates) < 2 {
			continue
		}
		addresses = append(addresses, feature.toAddress())
	}
	return addresses, nil
}

func (f Feature) toAddress() geocode.Address {
	props := f.Properties
	address := geocode.Address{
		AddressFound: true,
		DisplayName:  props.DisplayName,
		Country:      props.Country,
		CountryCode:  toAlpha2(props.CountryCode),
		State:        props.State,
		Municipality: props.Municipality,
		CityDistrict: props.CityDistrict,
		Postcode:     props.Postcode,
		City:         props.City,
		Suburb:       props.Suburb,
		Street:       props.Road,
		HouseNumber:  props.HouseNumber,
	}
	if address.City == "" {
		address.City = props.Name
	}
	if len(f.Geometry.Coordinates) >= 2 {
		address.Longitude = f.Geometry.Coordinates[0]
		address.Latitude = f.Geometry.Coordinates[1]
	}
	return address
}

// toAlpha2 converts the alpha-3 country codes of the API for the ones we need to know.
func toAlpha2(code string) string {
	switch strings.ToUpper(code) {
	case "CHN":
		return "CN"
	case "HKG":
		return "HK"
	case "TWN":
		return "TW"
	case "DEU":
		return "DE"
	case "FRA":
		return "FR"
	case "NOR":
		return "NO"
	case "GBR":
		return "GB"
	case "USA":
		return "US"
	default:
		return strings.ToUpper(code)
	}
}
