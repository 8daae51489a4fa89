// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package mf

// Times of the Météo-France API are Unix timestamps in seconds.

type Position struct {
	Timezone   string `json:"timezone"`
	Insee      string `json:"insee"`
	Department string `json:"french_department"`
	Country    string `json:"country"`
	Name       string `json:"name"`
}

type ForecastResult struct {
	UpdateTime int64 `json:"update_time"`
	Geometry   struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Position
		Forecast            []HourlyForecast      `json:"forecast"`
		DailyForecast       []DailyForecast       `json:"daily_forecast"`
		ProbabilityForecast []ProbabilityForecast `json:"probability_forecast"`
	} `json:"properties"`
}

type HourlyForecast struct {
	Time               int64    `json:"time"`
	Temperature        *float64 `json:"T"`
	WindChill          *float64 `json:"T_windchill"`
	RelativeHumidity   *float64 `json:"relative_humidity"`
	Pressure           *float64 `json:"P_sea"`
	WindSpeed          *float64 `json:"wind_speed"`
	WindSpeedGust      *float64 `json:"wind_speed_gust"`
	WindDirection      *float64 `json:"wind_direction"`
	WindIcon           string   `json:"wind_icon"`
	Rain1h             *float64 `json:"rain_1h"`
	Rain3h             *float64 `json:"rain_3h"`
	Rain6h             *float64 `json:"rain_6h"`
	Snow1h             *float64 `json:"snow_1h"`
	Snow3h             *float64 `json:"snow_3h"`
	Snow6h             *float64 `json:"snow_6h"`
	CloudCover         *int     `json:"total_cloud_cover"`
	WeatherIcon        string   `json:"weather_icon"`
	WeatherDescription string   `json:"weather_description"`
}

type DailyForecast struct {
	Time               int64    `json:"time"`
	TemperatureMin     *float64 `json:"T_min"`
	TemperatureMax     *float64 `json:"T_max"`
	HumidityMin        *float64 `json:"relative_humidity_min"`
	HumidityMax        *float64 `json:"relative_humidity_max"`
	Precipitation24h   *float64 `json:"total_precipitation_24h"`
	UVIndex            *float64 `json:"uv_index"`
	WeatherIcon        string   `json:"daily_weather_icon"`
	WeatherDescription string   `json:"daily_weather_description"`
	SunriseTime        int64    `json:"sunrise_time"`
	SunsetTime         int64    `json:"sunset_time"`
}

type ProbabilityForecast struct {
	Time           int64    `json:"time"`
	RainHazard3h   *float64 `json:"rain_hazard_3h"`
	RainHazard6h   *float64 `json:"rain_hazard_6h"`
	SnowHazard3h   *float64 `json:"snow_hazard_3h"`
	SnowHazard6h   *float64 `json:"snow_hazard_6h"`
	FreezingHazard *float64 `json:"freezing_hazard"`
	StormHazard    *float64 `json:"storm_hazard"`
}

type ObservationResult struct {
	UpdateTime int64 `json:"update_time"`
	Properties struct {
		Timezone string `json:"timezone"`
		Gridded  *struct {
			Time               int64    `json:"time"`
			Temperature        *float64 `json:"T"`
			WindSpeed          *float64 `json:"wind_speed"`
			WindDirection      *float64 `json:"wind_direction"`
			WindIcon           string   `json:"wind_icon"`
			WeatherIcon        string   `json:"weather_icon"`
			WeatherDescription string   `json:"weather_description"`
		} `json:"gridded"`
	} `json:"properties"`
}

type EphemerisResult struct {
	Properties struct {
		Ephemeris struct {
			SunriseTime          string `json:"sunrise_time"`
			SunsetTime           string `json:"sunset_time"`
			MoonriseTime         string `json:"moonrise_time"`
			MoonsetTime          string `json:"moonset_time"`
			MoonPhaseDescription string `json:"moon_phase_description"`
		} `json:"ephemeris"`
	} `json:"properties"`
}

type RainResult struct {
	UpdateTime int64 `json:"update_time"`
	Properties struct {
		Forecast []struct {
			Time                     int64  `json:"time"`
			RainIntensity            int    `json:"rain_intensity"`
			RainIntensityDescription string `json:"rain_intensity_description"`
		} `json:"forecast"`
	} `json:"properties"`
}

type WarningResult struct {
	UpdateTime          int64  `json:"update_time"`
	EndValidityTime     int64  `json:"end_validity_time"`
	DomainID            string `json:"domain_id"`
	PhenomenonMaxColors []struct {
		PhenomenonID         string `json:"phenomenon_id"`
		PhenomenonMaxColorID int    `json:"phenomenon_max_color_id"`
	} `json:"phenomenons_max_colors"`
}

type PlaceResult struct {
	Insee    string  `json:"insee"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Country  string  `json:"country"`
	Admin    string  `json:"admin"`
	Admin2   string  `json:"admin2"`
	PostCode string  `json:"postCode"`
}

// AtmoAuRAResult holds the air quality indices of the Auvergne-Rhône-Alpes observatory.
// Dates are formatted as yyyyMMdd.
type AtmoAuRAResult struct {
	Data struct {
		Indices    []AtmoValue `json:"indices"`
		Pollutants []struct {
			Name   string      `json:"polluant"`
			Values []AtmoValue `json:"valeurs"`
		} `json:"polluants"`
	} `json:"data"`
}

type AtmoValue struct {
	Date  string   `json:"date"`
	Value *float64 `json:"valeur"`
}
