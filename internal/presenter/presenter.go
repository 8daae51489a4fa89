// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders a normalized weather result as terminal text.
package presenter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/weatherfold/internal/unit"
	"github.com/wneessen/weatherfold/internal/vartype"
	"github.com/wneessen/weatherfold/internal/weather"
)

// DefaultTemplate renders a summary of the current weather, the daily forecast
// and the alerts of a location.
const DefaultTemplate = `{{ .Place }} · {{ .Source }} · {{ loc "Updated" }} {{ .Updated }}
{{ .Current.Icon }} {{ .Current.Condition }}, {{ .Current.Temperature }}
{{ range .Current.Details }}{{ pad .Label $.LabelWidth }}  {{ .Value }}
{{ end }}{{ with .Nowcast }}{{ . }}
{{ end }}{{ if .Daily }}
{{ loc "Forecast" }}
{{ range .Daily }}{{ pad .Date 12 }} {{ .Icon }} {{ pad .Condition 28 }} {{ .Low }} / {{ .High }}
{{ end }}{{ end }}{{ if .Alerts }}
{{ loc "Alerts" }}
{{ range .Alerts }}{{ .Icon }} {{ .Title }}{{ with .Type }} ({{ . }}){{ end }}
{{ end }}{{ end }}`

var ErrNoWeather = errors.New("location carries no weather")

// Options control units and layout of the rendered output.
type Options struct {
	Imperial      bool
	Precipitation unit.Precipitation
	Template      string
	DailyDays     int
}

// Row is a labeled line of the current weather details.
type Row struct {
	Label string
	Value string
}

type CurrentView struct {
	Icon        string
	Condition   string
	Temperature string
	Details     []Row
}

type DailyView struct {
	Date      string
	Icon      string
	Condition string
	Low       string
	High      string
}

type AlertView struct {
	Icon  string
	Title string
	Type  string
}

type TemplateContext struct {
	Place      string
	Source     string
	Updated    string
	Current    CurrentView
	Nowcast    string
	Daily      []DailyView
	Alerts     []AlertView
	LabelWidth int
}

type Presenter struct {
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	opts      Options
	tpl       *template.Template
	now       func() time.Time
}

// New returns a Presenter for the given language. A nil localizer leaves all
// labels untranslated.
func New(localizer *spreak.Localizer, lang language.Tag, opts Options) (*Presenter, error) {
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	if opts.Precipitation == "" {
		opts.Precipitation = unit.Millimeter
	}
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if opts.DailyDays <= 0 {
		opts.DailyDays = 7
	}

	presenter := &Presenter{
		localizer: localizer,
		humanizer: collection.CreateHumanizer(lang),
		opts:      opts,
		now:       time.Now,
	}
	tpl, err := template.New("weather").Funcs(presenter.templateFuncMap()).Parse(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse weather template: %w", err)
	}
	presenter.tpl = tpl
	return presenter, nil
}

// Render writes the weather of location to w.
func (p *Presenter) Render(w io.Writer, location weather.Location) error {
	if location.Weather == nil {
		return ErrNoWeather
	}
	if err := p.tpl.Execute(w, p.BuildContext(location)); err != nil {
		return fmt.Errorf("failed to render weather template: %w", err)
	}
	return nil
}

func (p *Presenter) BuildContext(location weather.Location) TemplateContext {
	data := location.Weather
	if data == nil {
		data = weather.NewWeather()
	}
	tz := location.TZ()
	now := p.now().In(tz)

	ctx := TemplateContext{
		Place:   placeName(location),
		Source:  string(location.Source),
		Current: p.currentView(location, data, now),
		Nowcast: data.Current.HourlyForecast,
	}
	if !data.Base.UpdateTime.IsZero() {
		ctx.Updated = p.humanizer.NaturalTime(data.Base.UpdateTime)
	}
	for _, daily := range data.Daily {
		if len(ctx.Daily) >= p.opts.DailyDays {
			break
		}
		ctx.Daily = append(ctx.Daily, p.dailyView(daily, tz))
	}
	for _, alert := range data.Alerts {
		ctx.Alerts = append(ctx.Alerts, alertView(alert))
	}
	for _, row := range ctx.Current.Details {
		ctx.LabelWidth = max(ctx.LabelWidth, stringWidth(row.Label))
	}
	return ctx
}

func (p *Presenter) currentView(location weather.Location, data *weather.Weather, now time.Time) CurrentView {
	current := data.Current
	daylight := true
	if len(data.Daily) > 0 {
		daylight = weather.IsDaylight(data.Daily[0].Sun.Rise, data.Daily[0].Sun.Set, now, location.TZ())
	}
	view := CurrentView{
		Icon:        icon(current.WeatherCode, daylight),
		Condition:   current.WeatherText,
		Temperature: p.temperature(current.Temperature.Temperature),
	}

	add := func(label, value string) {
		if value == "" {
			return
		}
		view.Details = append(view.Details, Row{Label: p.loc(label), Value: value})
	}
	add("Feels like", p.temperature(firstSet(current.Temperature.Apparent, current.Temperature.RealFeel)))
	if current.RelativeHumidity.IsSet() {
		add("Humidity", fmt.Sprintf("%.0f%%", current.RelativeHumidity.Value()))
	}
	add("Wind", p.wind(current.Wind))
	if current.Pressure.IsSet() {
		add("Pressure", fmt.Sprintf("%.0f hPa", current.Pressure.Value()))
	}
	add("Precipitation", p.precipitation(current.Precipitation.Total))
	if current.UV.Index.IsSet() {
		add("UV index", fmt.Sprintf("%s (%s)", floatFormat(current.UV.Index.Value(), 1), p.loc(current.UV.Level)))
	}
	if current.AirQuality.AQIIndex.IsSet() {
		add("Air quality", strings.TrimSpace(fmt.Sprintf("%d %s", current.AirQuality.AQIIndex.Value(),
			p.loc(current.AirQuality.AQIText))))
	}
	if len(data.Daily) > 0 {
		today := data.Daily[0]
		if !today.Sun.Rise.IsZero() {
			add("Sunrise", today.Sun.Rise.In(location.TZ()).Format("15:04"))
		}
		if !today.Sun.Set.IsZero() {
			add("Sunset", today.Sun.Set.In(location.TZ()).Format("15:04"))
		}
		if today.MoonPhase.Angle.IsSet() {
			add("Moon phase", moonIcon(today.MoonPhase.Angle.Value())+" "+p.loc(today.MoonPhase.Description))
		}
	}
	if data.History != nil && data.History.DaytimeTemperature.IsSet() {
		add("Yesterday", p.temperature(data.History.NighttimeTemperature)+" / "+
			p.temperature(data.History.DaytimeTemperature))
	}
	return view
}

func (p *Presenter) dailyView(daily weather.Daily, tz *time.Location) DailyView {
	view := DailyView{Date: p.humanizer.NaturalDay(daily.Date.In(tz))}
	half := daily.Day
	if half == nil {
		half = daily.Night
	}
	if half != nil {
		view.Icon = icon(half.WeatherCode, daily.Day != nil)
		view.Condition = half.WeatherText
	} else {
		view.Icon = unknownIcon
	}
	if daily.Night != nil {
		view.Low = p.temperature(daily.Night.Temperature.Temperature)
	}
	if daily.Day != nil {
		view.High = p.temperature(daily.Day.Temperature.Temperature)
	}
	if view.Low == "" {
		view.Low = "-"
	}
	if view.High == "" {
		view.High = "-"
	}
	return view
}

func alertView(alert weather.Alert) AlertView {
	alertIcon, ok := alertIcons[alert.Priority]
	if !ok {
		alertIcon = "⬜"
	}
	return AlertView{
		Icon:  alertIcon,
		Title: alert.Description,
		Type:  alert.Type,
	}
}

func (p *Presenter) temperature(val vartype.VarInt) string {
	if !val.IsSet() {
		return ""
	}
	if p.opts.Imperial {
		return fmt.Sprintf("%.0f°F", math.Round(unit.Fahrenheit(float64(val.Value()))))
	}
	return fmt.Sprintf("%d°C", val.Value())
}

func (p *Presenter) wind(wind weather.Wind) string {
	if !wind.Speed.IsSet() {
		return ""
	}
	speed := fmt.Sprintf("%.0f km/h", wind.Speed.Value())
	if p.opts.Imperial {
		speed = fmt.Sprintf("%.0f mph", unit.MilesPerHour(wind.Speed.Value()))
	}
	if wind.Direction != "" {
		speed = p.loc(wind.Direction) + " " + speed
	}
	if wind.Level != "" {
		speed += " (" + p.loc(wind.Level) + ")"
	}
	return speed
}

func (p *Presenter) precipitation(val vartype.VarFloat64) string {
	if !val.IsSet() {
		return ""
	}
	amount := p.opts.Precipitation.FromMillimeter(val.Value())
	return floatFormat(amount, 2) + " " + p.opts.Precipitation.Label()
}

func icon(code weather.Code, daylight bool) string {
	icons, ok := codeIcons[code]
	if !ok {
		return unknownIcon
	}
	return icons[daylight]
}

func moonIcon(angle int) string {
	idx := int(math.Round(float64(angle)/45)) % len(moonPhaseIcons)
	if idx < 0 {
		idx += len(moonPhaseIcons)
	}
	return moonPhaseIcons[idx]
}

func placeName(location weather.Location) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{location.District, location.City, location.Province} {
		if part != "" && (len(parts) == 0 || parts[len(parts)-1] != part) {
			parts = append(parts, part)
		}
	}
	if location.Country != "" {
		parts = append(parts, location.Country)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%.4f, %.4f", location.Latitude, location.Longitude)
	}
	return strings.Join(parts, ", ")
}

func firstSet(vals ...vartype.VarInt) vartype.VarInt {
	for _, val := range vals {
		if val.IsSet() {
			return val
		}
	}
	return vartype.VarInt{}
}
