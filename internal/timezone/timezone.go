// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package timezone resolves IANA timezones from coordinates.
package timezone

import (
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
)

var (
	finder    tzf.F
	finderErr error
	once      sync.Once
)

// The finder loads its polygon index into memory, so it is only created once.
func loadFinder() (tzf.F, error) {
	once.Do(func() {
		finder, finderErr = tzf.NewDefaultFinder()
	})
	return finder, finderErr
}

// Name returns the IANA timezone name for the given coordinates, or an empty string
// if it cannot be determined.
func Name(lat, lon float64) (name string) {
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	f, err := loadFinder()
	if err != nil || f == nil {
		return ""
	}
	return f.GetTimezoneName(lon, lat)
}

// Lookup returns the timezone for the given coordinates. It never fails and falls
// back to the local timezone.
func Lookup(lat, lon float64) *time.Location {
	name := Name(lat, lon)
	if name == "" {
		return time.Local
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return tz
}

// NameOrLocal returns the IANA timezone name for the given coordinates, falling back
// to the name of the local timezone.
func NameOrLocal(lat, lon float64) string {
	if name := Name(lat, lon); name != "" {
		return name
	}
	return time.Local.String()
}
