// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package owm

// OneCallResult is the response of the One Call API 3.0 in metric units. All
// timestamps are unix seconds.
type OneCallResult struct {
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	Timezone       string     `json:"timezone"`
	TimezoneOffset int        `json:"timezone_offset"`
	Current        *Current   `json:"current"`
	Minutely       []Minutely `json:"minutely"`
	Hourly         []Hourly   `json:"hourly"`
	Daily          []Daily    `json:"daily"`
	Alerts         []Alert    `json:"alerts"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Volume is the precipitation of the last hour in millimeters.
type Volume struct {
	OneHour *float64 `json:"1h"`
}

type Current struct {
	Dt         int64       `json:"dt"`
	Sunrise    int64       `json:"sunrise"`
	Sunset     int64       `json:"sunset"`
	Temp       *float64    `json:"temp"`
	FeelsLike  *float64    `json:"feels_like"`
	Pressure   *float64    `json:"pressure"`
	Humidity   *float64    `json:"humidity"`
	DewPoint   *float64    `json:"dew_point"`
	UVI        *float64    `json:"uvi"`
	Clouds     *float64    `json:"clouds"`
	Visibility *float64    `json:"visibility"`
	WindSpeed  *float64    `json:"wind_speed"`
	WindDeg    *float64    `json:"wind_deg"`
	WindGust   *float64    `json:"wind_gust"`
	Rain       *Volume     `json:"rain"`
	Snow       *Volume     `json:"snow"`
	Weather    []Condition `json:"weather"`
}

type Minutely struct {
	Dt            int64    `json:"dt"`
	Precipitation *float64 `json:"precipitation"`
}

type Hourly struct {
	Dt         int64       `json:"dt"`
	Temp       *float64    `json:"temp"`
	FeelsLike  *float64    `json:"feels_like"`
	Pressure   *float64    `json:"pressure"`
	Humidity   *float64    `json:"humidity"`
	DewPoint   *float64    `json:"dew_point"`
	UVI        *float64    `json:"uvi"`
	Clouds     *float64    `json:"clouds"`
	Visibility *float64    `json:"visibility"`
	WindSpeed  *float64    `json:"wind_speed"`
	WindDeg    *float64    `json:"wind_deg"`
	WindGust   *float64    `json:"wind_gust"`
	Pop        *float64    `json:"pop"`
	Rain       *Volume     `json:"rain"`
	Snow       *Volume     `json:"snow"`
	Weather    []Condition `json:"weather"`
}

// Daily carries 24 hour totals for rain and snow.
type Daily struct {
	Dt        int64       `json:"dt"`
	Sunrise   int64       `json:"sunrise"`
	Sunset    int64       `json:"sunset"`
	Moonrise  int64       `json:"moonrise"`
	Moonset   int64       `json:"moonset"`
	MoonPhase *float64    `json:"moon_phase"`
	Summary   string      `json:"summary"`
	Temp      DailyTemp   `json:"temp"`
	FeelsLike DailyTemp   `json:"feels_like"`
	Pressure  *float64    `json:"pressure"`
	Humidity  *float64    `json:"humidity"`
	DewPoint  *float64    `json:"dew_point"`
	WindSpeed *float64    `json:"wind_speed"`
	WindDeg   *float64    `json:"wind_deg"`
	WindGust  *float64    `json:"wind_gust"`
	Clouds    *float64    `json:"clouds"`
	Pop       *float64    `json:"pop"`
	Rain      *float64    `json:"rain"`
	Snow      *float64    `json:"snow"`
	UVI       *float64    `json:"uvi"`
	Weather   []Condition `json:"weather"`
}

type DailyTemp struct {
	Day   *float64 `json:"day"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Night *float64 `json:"night"`
	Eve   *float64 `json:"eve"`
	Morn  *float64 `json:"morn"`
}

type Alert struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// AirPollutionResult is the response of the air pollution forecast API.
type AirPollutionResult struct {
	List []AirPollution `json:"list"`
}

type AirPollution struct {
	Dt   int64 `json:"dt"`
	Main struct {
		AQI *int `json:"aqi"`
	} `json:"main"`
	Components struct {
		CO   *float64 `json:"co"`
		NO   *float64 `json:"no"`
		NO2  *float64 `json:"no2"`
		O3   *float64 `json:"o3"`
		SO2  *float64 `json:"so2"`
		PM25 *float64 `json:"pm2_5"`
		PM10 *float64 `json:"pm10"`
		NH3  *float64 `json:"nh3"`
	} `json:"components"`
}

// GeoResult is one entry of the direct and reverse geocoding APIs.
type GeoResult struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}
