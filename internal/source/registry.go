// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/wneessen/weatherfold/internal/weather"
)

// Registry selects the service responsible for a location by its source tag.
type Registry struct {
	services map[weather.Source]Service
}

// NewRegistry returns a Registry for the given services. Later services replace
// earlier ones with the same source.
func NewRegistry(services ...Service) *Registry {
	registry := &Registry{services: make(map[weather.Source]Service, len(services))}
	for _, service := range services {
		if service == nil {
			continue
		}
		registry.services[service.Source()] = service
	}
	return registry
}

// Service returns the service for src.
func (r *Registry) Service(src weather.Source) (Service, error) {
	service, ok := r.services[src]
	if !ok {
		return nil, fmt.Errorf("no weather service registered for source %q", src)
	}
	return service, nil
}

// Sources returns the registered sources in alphabetical order.
func (r *Registry) Sources() []weather.Source {
	sources := make([]weather.Source, 0, len(r.services))
	for src := range r.services {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// RequestWeather hands the request to the service owning the location. Locations of
// unknown or unconfigured sources fail immediately.
func (r *Registry) RequestWeather(ctx context.Context, location weather.Location, cb WeatherCallback) {
	service, err := r.Service(location.Source)
	if err != nil {
		cb.RequestWeatherFailed(location, ErrorLocation)
		return
	}
	if !service.IsConfigured() {
		cb.RequestWeatherFailed(location, ErrorUnauthorized)
		return
	}
	service.RequestWeather(ctx, location, cb)
}

// Cancel cancels the pending requests of all services.
func (r *Registry) Cancel() {
	for _, service := range r.services {
		service.Cancel()
	}
}
