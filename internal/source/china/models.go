// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package china

// WeatherResult is the aggregate response of the weather API. Most numbers are
// transported as strings, timestamps are RFC 3339 with offset.
type WeatherResult struct {
	Current        *Current        `json:"current"`
	ForecastDaily  *ForecastDaily  `json:"forecastDaily"`
	ForecastHourly *ForecastHourly `json:"forecastHourly"`
	AQI            *AQI            `json:"aqi"`
	Alerts         []Alert         `json:"alerts"`
	Yesterday      *Yesterday      `json:"yesterday"`
	UpdateTime     int64           `json:"updateTime"`
}

// Value is a measurement with its unit.
type Value struct {
	Unit  string `json:"unit"`
	Value string `json:"value"`
}

// Range is a pair of day and night values, or rise and set times.
type Range struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Current struct {
	FeelsLike   Value  `json:"feelsLike"`
	Humidity    Value  `json:"humidity"`
	Pressure    Value  `json:"pressure"`
	Temperature Value  `json:"temperature"`
	UVIndex     string `json:"uvIndex"`
	Visibility  Value  `json:"visibility"`
	Weather     string `json:"weather"`
	Wind        struct {
		Direction Value `json:"direction"`
		Speed     Value `json:"speed"`
	} `json:"wind"`
	PubTime string `json:"pubTime"`
}

// ForecastDaily holds one entry per day in every list, starting with the day
// of PubTime.
type ForecastDaily struct {
	AQI struct {
		Value []int `json:"value"`
	} `json:"aqi"`
	PrecipitationProbability struct {
		Value []string `json:"value"`
	} `json:"precipitationProbability"`
	SunRiseSet struct {
		Value []Range `json:"value"`
	} `json:"sunRiseSet"`
	Temperature struct {
		Unit  string  `json:"unit"`
		Value []Range `json:"value"`
	} `json:"temperature"`
	Weather struct {
		Value []Range `json:"value"`
	} `json:"weather"`
	Wind struct {
		Direction struct {
			Value []Range `json:"value"`
		} `json:"direction"`
		Speed struct {
			Value []Range `json:"value"`
		} `json:"speed"`
	} `json:"wind"`
	PubTime string `json:"pubTime"`
}

// ForecastHourly holds one entry per hour in every list, starting with the hour
// following PubTime.
type ForecastHourly struct {
	AQI struct {
		Value []int `json:"value"`
	} `json:"aqi"`
	Desc        string `json:"desc"`
	Temperature struct {
		Unit  string    `json:"unit"`
		Value []float64 `json:"value"`
	} `json:"temperature"`
	Weather struct {
		Value []int `json:"value"`
	} `json:"weather"`
	Wind struct {
		Value []HourlyWind `json:"value"`
	} `json:"wind"`
	PubTime string `json:"pubTime"`
}

type HourlyWind struct {
	Datetime  string `json:"datetime"`
	Direction string `json:"direction"`
	Speed     string `json:"speed"`
}

// AQI is the current air quality. CO is mg/m³, all other pollutants µg/m³.
type AQI struct {
	AQI     string `json:"aqi"`
	PM25    string `json:"pm25"`
	PM10    string `json:"pm10"`
	SO2     string `json:"so2"`
	NO2     string `json:"no2"`
	O3      string `json:"o3"`
	CO      string `json:"co"`
	Primary string `json:"primary"`
	PubTime string `json:"pubTime"`
}

type Alert struct {
	AlertID string `json:"alertId"`
	Level   string `json:"level"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Type    string `json:"type"`
	PubTime string `json:"pubTime"`
}

type Yesterday struct {
	Date    string `json:"date"`
	TempMax string `json:"tempMax"`
	TempMin string `json:"tempMin"`
}

// MinutelyResult is the response of the minutely precipitation nowcast. Value
// holds one precipitation intensity per minute, starting at PubTime.
type MinutelyResult struct {
	Precipitation *struct {
		Description     string    `json:"description"`
		HeadDescription string    `json:"headDescription"`
		PubTime         string    `json:"pubTime"`
		Value           []float64 `json:"value"`
	} `json:"precipitation"`
}

// CityResult is one entry of the city search and geo lookup APIs. Affiliation
// lists the administrative names above the city, separated by commas.
type CityResult struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Status      int    `json:"status"`
}
