// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

const FetchTimeout = time.Second * 30

type weatherResult struct {
	location weather.Location
	kind     source.ErrorKind
	ok       bool
}

type locationResult struct {
	locations []weather.Location
	ok        bool
}

// callback collects the single result of a source request.
type callback struct {
	weather  chan weatherResult
	location chan locationResult
}

func newCallback() *callback {
	return &callback{
		weather:  make(chan weatherResult, 1),
		location: make(chan locationResult, 1),
	}
}

func (c *callback) RequestWeatherSuccess(location weather.Location) {
	c.weather <- weatherResult{location: location, ok: true}
}

func (c *callback) RequestWeatherFailed(location weather.Location, kind source.ErrorKind) {
	c.weather <- weatherResult{location: location, kind: kind}
}

func (c *callback) RequestLocationSuccess(_ string, locations []weather.Location) {
	c.location <- locationResult{locations: locations, ok: true}
}

func (c *callback) RequestLocationFailed(string) {
	c.location <- locationResult{}
}

func (s *Service) fetchWeather(ctx context.Context, location weather.Location) (weather.Location, error) {
	cb := newCallback()
	s.registry.RequestWeather(ctx, location, cb)
	select {
	case <-ctx.Done():
		s.registry.Cancel()
		return location, ctx.Err()
	case result := <-cb.weather:
		if !result.ok {
			return location, fmt.Errorf("%w: %s", ErrWeatherRequest, result.kind)
		}
		return result.location, nil
	}
}

func (s *Service) reverseLocation(ctx context.Context, svc source.Service, location weather.Location) (weather.Location, error) {
	cb := newCallback()
	svc.RequestReverseLocation(ctx, location, cb)
	select {
	case <-ctx.Done():
		svc.Cancel()
		return location, ctx.Err()
	case result := <-cb.location:
		if !result.ok || len(result.locations) == 0 {
			return location, source.ErrLocationNotFound
		}
		return result.locations[0], nil
	}
}
