// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/http"
)

const (
	APISearchEndpoint  = "https://nominatim.openstreetmap.org/search"
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	APITimeout         = time.Second * 10
	name               = "osm-nominatim"
	searchLimit        = 10
)

type Nominatim struct {
	http *http.Client
	lang language.Tag
}

type Result struct {
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	HouseNumber  string `json:"house_number"`
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	Municipality string `json:"municipality"`
	CityDistrict string `json:"city_district"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	State        string `json:"state"`
	ISO31662Lvl4 string `json:"ISO3166-2-lvl4"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang: lang,
		http: client,
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (geocode.Address, error) {
	var result Result

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", fmt.Sprintf("%f", lat))
	query.Set("lon", fmt.Sprintf("%f", lon))
	query.Set("accept-language", n.lang.String())

	if _, err := n.http.GetWithTimeout(ctx, APIReverseEndpoint, &result, query, nil, APITimeout); err != nil {
		return geocode.Address{}, fmt.Errorf("failed to fetch reverse address details from Nominatim API: %w", err)
	}

	return result.toAddress()
}

// Search looks up a place name and returns every match with its address details.
func (n *Nominatim) Search(ctx context.Context, address string) ([]geocode.Address, error) {
	var results []Result

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("addressdetails", "1")
	query.Set("limit", strconv.Itoa(searchLimit))
	query.Set("q", address)
	query.Set("accept-language", n.lang.String())

	if _, err := n.http.GetWithTimeout(ctx, APISearchEndpoint, &results, query, nil, APITimeout); err != nil {
		return nil, fmt.Errorf("failed to fetch address details from Nominatim API: %w", err)
	}

	addresses := make([]geocode.Address, 0, len(results))
	for _, result := range results {
		addr, err := result.toAddress()
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	return addresses, nil
}

func (r Result) toAddress() (geocode.Address, error) {
	var err error
	address := geocode.Address{
		AddressFound: true,
		DisplayName:  r.DisplayName,
		Country:      r.Address.Country,
		CountryCode:  strings.ToUpper(r.Address.CountryCode),
		State:        r.Address.State,
		Municipality: r.Address.Municipality,
		CityDistrict: r.Address.CityDistrict,
		Postcode:     r.Address.Postcode,
		City:         r.Address.City,
		Suburb:       r.Address.Suburb,
		Street:       r.Address.Road,
		HouseNumber:  r.Address.HouseNumber,
	}
	if r.Address.City == "" && r.Address.Town != "" {
		address.City = r.Address.Town
	}
	if r.Address.City == "" && r.Address.Town == "" && r.Address.Village != "" {
		address.City = r.Address.Village
	}
	if address.City == "" {
		address.City = r.Name
	}
	address.Latitude, err = strconv.ParseFloat(r.APILat, 64)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	address.Longitude, err = strconv.ParseFloat(r.APILon, 64)
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}
	return address, nil
}
