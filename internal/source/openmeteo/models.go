// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

// The forecast itself is decoded by the omgo client into an *omgo.Forecast. The
// types below cover the air quality and geocoding APIs, which omgo does not serve.

// AirQualityResult is the response of the air quality API. Times are local to the
// requested timezone and the values may be null.
type AirQualityResult struct {
	Hourly AirQualityHourly `json:"hourly"`
}

type AirQualityHourly struct {
	Time            []string   `json:"time"`
	PM10            []*float64 `json:"pm10"`
	PM25            []*float64 `json:"pm2_5"`
	CarbonMonoxide  []*float64 `json:"carbon_monoxide"`
	NitrogenDioxide []*float64 `json:"nitrogen_dioxide"`
	SulphurDioxide  []*float64 `json:"sulphur_dioxide"`
	Ozone           []*float64 `json:"ozone"`
	EuropeanAQI     []*float64 `json:"european_aqi"`
	AlderPollen     []*float64 `json:"alder_pollen"`
	BirchPollen     []*float64 `json:"birch_pollen"`
	GrassPollen     []*float64 `json:"grass_pollen"`
	MugwortPollen   []*float64 `json:"mugwort_pollen"`
	OlivePollen     []*float64 `json:"olive_pollen"`
	RagweedPollen   []*float64 `json:"ragweed_pollen"`
}

// SearchResult is the response of the geocoding API. Results is absent if nothing
// matched.
type SearchResult struct {
	Results []Place `json:"results"`
}

type Place struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   float64 `json:"elevation"`
	Timezone    string  `json:"timezone"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country"`
	Admin1      string  `json:"admin1"`
	Admin2      string  `json:"admin2"`
	Admin3      string  `json:"admin3"`
	Admin4      string  `json:"admin4"`
}
