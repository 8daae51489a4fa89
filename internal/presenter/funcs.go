// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"localizedTime": p.localizedTime,
		"floatFormat":   floatFormat,
		"loc":           p.loc,
		"pad":           pad,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

func (p *Presenter) loc(val string) string {
	if p.localizer == nil || val == "" {
		return val
	}
	return p.localizer.Get(val)
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

// floatFormat truncates val to precision and drops trailing zeros.
func floatFormat(val float64, precision int) string {
	pow := math.Pow(10, float64(precision))
	return strconv.FormatFloat(math.Trunc(val*pow)/pow, 'f', -1, 64)
}

// pad fills val with spaces up to width terminal cells.
func pad(val string, width int) string {
	return runewidth.FillRight(val, width)
}

func stringWidth(val string) int {
	return runewidth.StringWidth(val)
}
