// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

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
	APIEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	APITimeout  = time.Second * 10
	name        = "opencage"
	searchLimit = "10"
)

type OpenCage struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Results      []Result `json:"results"`
	TotalResults int      `json:"total_results"`
}

type Result struct {
	Components  Components `json:"components"`
	DisplayName string     `json:"formatted"`
	Geometry    Geometry   `json:"geometry"`
}

type Components struct {
	NomalizedCity string `json:"_normalized_city"`
	City          string `json:"city"`
	CityDistrict  string `json:"city_district"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	HouseNumber   string `json:"house_number"`
	Municipality  string `json:"municipality"`
	Postcode      string `json:"postcode"`
	Road          string `json:"road"`
	State         string `json:"state"`
	StateCode     string `json:"state_code"`
	Suburb        string `json:"suburb"`
	Town          string `json:"town"`
	Village       string `json:"village"`
}

type Geometry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

func New(client *http.Client, lang language.Tag, apikey string) *OpenCage {
	return &OpenCage{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) Reverse(ctx context.Context, lat, lon float64) (geocode.Address, error) {
	response, err := o.query(ctx, fmt.Sprintf("%f,%f", lat, lon), "1")
	if err != nil {
		return geocode.Address{}, fmt.Errorf("failed to retrieve address details from OpenCage API: %w", err)
	}
	if response.TotalResults != 1 || len(response.Results) != 1 {
		return geocode.Address{}, fmt.Errorf("unambigous amount of results returned for coordinates: %d",
			response.TotalResults)
	}
	return response.Results[0].toAddress(), nil
}

// Search forward geocodes a place name.
func (o *OpenCage) Search(ctx context.Context, address string) ([]geocode.Address, error) {
	response, err := o.query(ctx, address, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve coordinates from OpenCage API: %w", err)
	}
	addresses := make([]geocode.Address, 0, len(response.Results))
	for _, result := range response.Results {
		addresses = append(addresses, result.toAddress())
	}
	return addresses, nil
}

func (o *OpenCage) query(ctx context.Context, q, limit string) (Response, error) {
	var response Response

	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("q", q)
	query.Set("limit", limit)
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	query.Set("language", o.lang.String())

	_, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	return response, err
}

func (r Result) toAddress() geocode.Address {
	components := r.Components
	address := geocode.Address{
		AddressFound: true,
		Latitude:     r.Geometry.Lat,
		Longitude:    r.Geometry.Lon,
		DisplayName:  r.DisplayName,
		Country:      components.Country,
		CountryCode:  strings.ToUpper(components.CountryCode),
		State:        components.State,
		Municipality: components.Municipality,
		CityDistrict: components.CityDistrict,
		Postcode:     components.Postcode,
		City:         components.NomalizedCity,
		Suburb:       components.Suburb,
		Street:       components.Road,
		HouseNumber:  components.HouseNumber,
	}
	if address.City == "" {
		address.City = components.City
	}
	if components.Town != "" {
		address.City = components.Town
	}
	if components.Village != "" {
		address.City = components.Village
	}
	return address
}
