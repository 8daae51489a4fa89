// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires configuration, geocoding, the weather sources and the
// presenter into a single weather lookup.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"

	"github.com/vorlif/spreak"

	"github.com/wneessen/weatherfold/internal/config"
	"github.com/wneessen/weatherfold/internal/geocode"
	"github.com/wneessen/weatherfold/internal/i18n"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/presenter"
	"github.com/wneessen/weatherfold/internal/source"
	"github.com/wneessen/weatherfold/internal/weather"
)

// ErrWeatherRequest is returned when the weather source reported a failure.
var ErrWeatherRequest = errors.New("weather request failed")

// Request selects the location weather is looked up for. A non-empty Query is
// searched by name, otherwise the coordinates are used.
type Request struct {
	Query     string
	Latitude  float64
	Longitude float64
	Source    weather.Source
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	localizer *spreak.Localizer
	settings  source.Settings
	geocoder  geocode.Geocoder
	registry  *source.Registry
	presenter *presenter.Presenter
	transport stdhttp.RoundTripper
	output    io.Writer
}

// Option configures a Service.
type Option func(*Service)

// WithTransport replaces the transport of all HTTP clients of the service.
func WithTransport(transport stdhttp.RoundTripper) Option {
	return func(s *Service) {
		s.transport = transport
	}
}

// WithOutput sets the writer the weather is rendered to. Defaults to stdout.
func WithOutput(output io.Writer) Option {
	return func(s *Service) {
		s.output = output
	}
}

func New(conf *config.Config, log *logger.Logger, loc *spreak.Localizer, opts ...Option) (*Service, error) {
	service := &Service{
		config:    conf,
		logger:    log,
		localizer: loc,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(service)
	}

	service.settings = source.Settings{
		Language:          i18n.Tag(conf.Locale),
		PrecipitationUnit: conf.Precipitation(),
		Localizer:         loc,
	}
	service.geocoder = service.selectGeocoder()

	services, err := service.newServices()
	if err != nil {
		return nil, err
	}
	service.registry = source.NewRegistry(services...)

	service.presenter, err = presenter.New(loc, service.settings.Language, presenter.Options{
		Imperial:      conf.Units == "imperial",
		Precipitation: conf.Precipitation(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}
	return service, nil
}

// Run resolves the requested location, fetches its weather and renders it.
func (s *Service) Run(ctx context.Context, req Request) error {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	src := req.Source
	if src == "" {
		src = weather.Source(s.config.Weather.Source)
	}
	svc, err := s.registry.Service(src)
	if err != nil {
		return err
	}

	location, err := s.resolveLocation(ctx, svc, req)
	if err != nil {
		return err
	}
	location.Source = src
	s.logger.Debug("location resolved", slog.String("source", string(src)),
		slog.String("city", location.City), slog.Float64("lat", location.Latitude),
		slog.Float64("lon", location.Longitude))

	result, err := s.fetchWeather(ctx, location)
	if err != nil {
		return err
	}
	return s.presenter.Render(s.output, result)
}

// Sources returns the registered weather sources.
func (s *Service) Sources() []weather.Source {
	return s.registry.Sources()
}

// resolveLocation searches the query through the source, or resolves the names
// of the requested coordinates. Unresolved coordinates are used as they are.
func (s *Service) resolveLocation(ctx context.Context, svc source.Service, req Request) (weather.Location, error) {
	if req.Query != "" {
		locations := svc.RequestLocation(ctx, req.Query)
		if len(locations) == 0 {
			return weather.Location{}, fmt.Errorf("%w: %s", source.ErrLocationNotFound, req.Query)
		}
		return locations[0], nil
	}

	location := weather.Location{
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Source:          svc.Source(),
		CurrentPosition: true,
	}
	resolved, err := s.reverseLocation(ctx, svc, location)
	if err != nil {
		s.logger.Warn("failed to resolve location names, using coordinates", logger.Err(err),
			slog.Float64("lat", location.Latitude), slog.Float64("lon", location.Longitude))
		return location, nil
	}
	return resolved, nil
}
