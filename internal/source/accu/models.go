// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package accu

import "time"

type Measurement struct {
	Value    *float64 `json:"Value"`
	Unit     string   `json:"Unit"`
	UnitType int      `json:"UnitType"`
}

type MetricImperial struct {
	Metric   Measurement `json:"Metric"`
	Imperial Measurement `json:"Imperial"`
}

type Direction struct {
	Degrees   *float64 `json:"Degrees"`
	Localized string   `json:"Localized"`
	English   string   `json:"English"`
}

type CurrentWind struct {
	Direction Direction       `json:"Direction"`
	Speed     *MetricImperial `json:"Speed"`
}

type ForecastWind struct {
	Direction Direction    `json:"Direction"`
	Speed     *Measurement `json:"Speed"`
}

type CurrentResult struct {
	LocalObservationDateTime time.Time       `json:"LocalObservationDateTime"`
	EpochTime                int64           `json:"EpochTime"`
	WeatherText              string          `json:"WeatherText"`
	WeatherIcon              int             `json:"WeatherIcon"`
	IsDayTime                bool            `json:"IsDayTime"`
	Temperature              *MetricImperial `json:"Temperature"`
	RealFeelTemperature      *MetricImperial `json:"RealFeelTemperature"`
	RealFeelTemperatureShade *MetricImperial `json:"RealFeelTemperatureShade"`
	ApparentTemperature      *MetricImperial `json:"ApparentTemperature"`
	WindChillTemperature     *MetricImperial `json:"WindChillTemperature"`
	WetBulbTemperature       *MetricImperial `json:"WetBulbTemperature"`
	DewPoint                 *MetricImperial `json:"DewPoint"`
	RelativeHumidity         *float64        `json:"RelativeHumidity"`
	Wind                     *CurrentWind    `json:"Wind"`
	UVIndex                  *float64        `json:"UVIndex"`
	UVIndexText              string          `json:"UVIndexText"`
	Visibility               *MetricImperial `json:"Visibility"`
	CloudCover               *int            `json:"CloudCover"`
	Ceiling                  *MetricImperial `json:"Ceiling"`
	Pressure                 *MetricImperial `json:"Pressure"`
	PrecipitationSummary     struct {
		Precipitation *MetricImperial `json:"Precipitation"`
		PastHour      *MetricImperial `json:"PastHour"`
	} `json:"PrecipitationSummary"`
	TemperatureSummary *struct {
		Past24HourRange struct {
			Minimum MetricImperial `json:"Minimum"`
			Maximum MetricImperial `json:"Maximum"`
		} `json:"Past24HourRange"`
	} `json:"TemperatureSummary"`
}

type MinMax struct {
	Minimum Measurement `json:"Minimum"`
	Maximum Measurement `json:"Maximum"`
}

type AirAndPollen struct {
	Name          string `json:"Name"`
	Value         *int   `json:"Value"`
	Category      string `json:"Category"`
	CategoryValue *int   `json:"CategoryValue"`
	Type          string `json:"Type"`
}

type HalfDay struct {
	Icon                     int           `json:"Icon"`
	IconPhrase               string        `json:"IconPhrase"`
	ShortPhrase              string        `json:"ShortPhrase"`
	LongPhrase               string        `json:"LongPhrase"`
	PrecipitationProbability *float64      `json:"PrecipitationProbability"`
	ThunderstormProbability  *float64      `json:"ThunderstormProbability"`
	RainProbability          *float64      `json:"RainProbability"`
	SnowProbability          *float64      `json:"SnowProbability"`
	IceProbability           *float64      `json:"IceProbability"`
	Wind                     *ForecastWind `json:"Wind"`
	TotalLiquid              Measurement   `json:"TotalLiquid"`
	Rain                     Measurement   `json:"Rain"`
	Snow                     Measurement   `json:"Snow"`
	Ice                      Measurement   `json:"Ice"`
	HoursOfPrecipitation     *float64      `json:"HoursOfPrecipitation"`
	HoursOfRain              *float64      `json:"HoursOfRain"`
	HoursOfSnow              *float64      `json:"HoursOfSnow"`
	HoursOfIce               *float64      `json:"HoursOfIce"`
	CloudCover               *int          `json:"CloudCover"`
}

type Astro struct {
	EpochRise *int64 `json:"EpochRise"`
	EpochSet  *int64 `json:"EpochSet"`
	Phase     string `json:"Phase"`
	Age       *int   `json:"Age"`
}

type DailyForecast struct {
	Date                     time.Time `json:"Date"`
	EpochDate                int64     `json:"EpochDate"`
	Sun                      Astro     `json:"Sun"`
	Moon                     Astro     `json:"Moon"`
	Temperature              *MinMax   `json:"Temperature"`
	RealFeelTemperature      *MinMax   `json:"RealFeelTemperature"`
	RealFeelTemperatureShade *MinMax   `json:"RealFeelTemperatureShade"`
	HoursOfSun               *float64  `json:"HoursOfSun"`
	DegreeDaySummary         struct {
		Heating Measurement `json:"Heating"`
		Cooling Measurement `json:"Cooling"`
	} `json:"DegreeDaySummary"`
	AirAndPollen []AirAndPollen `json:"AirAndPollen"`
	Day          *HalfDay       `json:"Day"`
	Night        *HalfDay       `json:"Night"`
}

type DailyResult struct {
	Headline struct {
		EffectiveEpochDate int64  `json:"EffectiveEpochDate"`
		Severity           int    `json:"Severity"`
		Text               string `json:"Text"`
		Category           string `json:"Category"`
	} `json:"Headline"`
	DailyForecasts []DailyForecast `json:"DailyForecasts"`
}

type HourlyResult struct {
	EpochDateTime            int64         `json:"EpochDateTime"`
	WeatherIcon              int           `json:"WeatherIcon"`
	IconPhrase               string        `json:"IconPhrase"`
	IsDaylight               bool          `json:"IsDaylight"`
	Temperature              *Measurement  `json:"Temperature"`
	RealFeelTemperature      *Measurement  `json:"RealFeelTemperature"`
	RealFeelTemperatureShade *Measurement  `json:"RealFeelTemperatureShade"`
	WetBulbTemperature       *Measurement  `json:"WetBulbTemperature"`
	Wind                     *ForecastWind `json:"Wind"`
	UVIndex                  *float64      `json:"UVIndex"`
	UVIndexText              string        `json:"UVIndexText"`
	PrecipitationProbability *float64      `json:"PrecipitationProbability"`
	ThunderstormProbability  *float64      `json:"ThunderstormProbability"`
	RainProbability          *float64      `json:"RainProbability"`
	SnowProbability          *float64      `json:"SnowProbability"`
	IceProbability           *float64      `json:"IceProbability"`
	TotalLiquid              Measurement   `json:"TotalLiquid"`
	Rain                     Measurement   `json:"Rain"`
	Snow                     Measurement   `json:"Snow"`
	Ice                      Measurement   `json:"Ice"`
}

type MinuteResult struct {
	Summary struct {
		Phrase string `json:"Phrase"`
	} `json:"Summary"`
	Intervals []struct {
		StartEpochDateTime int64    `json:"StartEpochDateTime"`
		Minute             int      `json:"Minute"`
		Dbz                *float64 `json:"Dbz"`
		ShortPhrase        string   `json:"ShortPhrase"`
		IconCode           int      `json:"IconCode"`
		CloudCover         *int     `json:"CloudCover"`
	} `json:"Intervals"`
}

type AlertArea struct {
	Name           string `json:"Name"`
	EpochStartTime int64  `json:"EpochStartTime"`
	EpochEndTime   int64  `json:"EpochEndTime"`
	Summary        string `json:"Summary"`
	Text           string `json:"Text"`
}

type AlertResult struct {
	AlertID     int64 `json:"AlertID"`
	Description struct {
		Localized string `json:"Localized"`
		English   string `json:"English"`
	} `json:"Description"`
	Category string `json:"Category"`
	Priority int    `json:"Priority"`
	Type     string `json:"Type"`
	Color    struct {
		Name  string `json:"Name"`
		Red   uint8  `json:"Red"`
		Green uint8  `json:"Green"`
		Blue  uint8  `json:"Blue"`
	} `json:"Color"`
	Area []AlertArea `json:"Area"`
}

type AirQualityResult struct {
	Index                *int     `json:"Index"`
	ParticulateMatter2_5 *float64 `json:"ParticulateMatter2_5"`
	ParticulateMatter10  *float64 `json:"ParticulateMatter10"`
	Ozone                *float64 `json:"Ozone"`
	CarbonMonoxide       *float64 `json:"CarbonMonoxide"`
	NitrogenDioxide      *float64 `json:"NitrogenDioxide"`
	SulfurDioxide        *float64 `json:"SulfurDioxide"`
}

type LocationResult struct {
	Key           string `json:"Key"`
	LocalizedName string `json:"LocalizedName"`
	EnglishName   string `json:"EnglishName"`
	Country       struct {
		ID            string `json:"ID"`
		LocalizedName string `json:"LocalizedName"`
	} `json:"Country"`
	AdministrativeArea struct {
		ID            string `json:"ID"`
		LocalizedName string `json:"LocalizedName"`
	} `json:"AdministrativeArea"`
	TimeZone struct {
		Name string `json:"Name"`
	} `json:"TimeZone"`
	GeoPosition struct {
		Latitude  float64 `json:"Latitude"`
		Longitude float64 `json:"Longitude"`
	} `json:"GeoPosition"`
	ParentCity *struct {
		Key           string `json:"Key"`
		LocalizedName string `json:"LocalizedName"`
	} `json:"ParentCity"`
}
