// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package metno

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// sunTimeLayouts are the formats the sunrise API uses for event times.
var sunTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00"}

type LocationforecastResult struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Meta       Meta         `json:"meta"`
		Timeseries []Timeseries `json:"timeseries"`
	} `json:"properties"`
}

type Meta struct {
	UpdatedAt time.Time `json:"updated_at"`
}

type InstantDetails struct {
	AirPressureAtSeaLevel    *float64 `json:"air_pressure_at_sea_level"`
	AirTemperature           *float64 `json:"air_temperature"`
	CloudAreaFraction        *float64 `json:"cloud_area_fraction"`
	DewPointTemperature      *float64 `json:"dew_point_temperature"`
	FogAreaFraction          *float64 `json:"fog_area_fraction"`
	RelativeHumidity         *float64 `json:"relative_humidity"`
	UltravioletIndexClearSky *float64 `json:"ultraviolet_index_clear_sky"`
	WindFromDirection        *float64 `json:"wind_from_direction"`
	WindSpeed                *float64 `json:"wind_speed"`
}

type Timeseries struct {
	Time time.Time `json:"time"`
	Data struct {
		Instant struct {
			Details InstantDetails `json:"details"`
		} `json:"instant"`
		Next1Hours  *NextHours `json:"next_1_hours,omitempty"`
		Next6Hours  *NextHours `json:"next_6_hours,omitempty"`
		Next12Hours *NextHours `json:"next_12_hours,omitempty"`
	} `json:"data"`
}

type NextHours struct {
	Summary struct {
		SymbolCode string `json:"symbol_code"`
	} `json:"summary"`
	Details struct {
		AirTemperatureMax          *float64 `json:"air_temperature_max"`
		AirTemperatureMin          *float64 `json:"air_temperature_min"`
		PrecipitationAmount        *float64 `json:"precipitation_amount"`
		ProbabilityOfPrecipitation *float64 `json:"probability_of_precipitation"`
		ProbabilityOfThunder       *float64 `json:"probability_of_thunder"`
	} `json:"details"`
}

type SunriseResult struct {
	Properties struct {
		Body    string   `json:"body"`
		Sunrise SunEvent `json:"sunrise"`
		Sunset  SunEvent `json:"sunset"`
	} `json:"properties"`
}

type SunEvent struct {
	Time    SunTime  `json:"time"`
	Azimuth *float64 `json:"azimuth"`
}

// SunTime is a timestamp of the sunrise API, which omits the seconds.
type SunTime struct {
	time.Time
}

func (s *SunTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var val string
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	for _, layout := range sunTimeLayouts {
		parsed, err := time.Parse(layout, val)
		if err == nil {
			s.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported sun event time: %q", val)
}

type AirQualityValue struct {
	Value *float64 `json:"value"`
	Units string   `json:"units"`
}

type AirQualityResult struct {
	Data struct {
		Time []struct {
			From      time.Time `json:"from"`
			To        time.Time `json:"to"`
			Variables struct {
				AQI  AirQualityValue `json:"AQI"`
				PM25 AirQualityValue `json:"pm25_concentration"`
				PM10 AirQualityValue `json:"pm10_concentration"`
				NO2  AirQualityValue `json:"no2_concentration"`
				O3   AirQualityValue `json:"o3_concentration"`
			} `json:"variables"`
		} `json:"time"`
	} `json:"data"`
}
