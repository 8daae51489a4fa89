// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/wneessen/weatherfold/internal/weather"
)

// Dispatcher runs requests in the background and delivers their results unless
// they were canceled in the meantime.
type Dispatcher struct {
	mu      sync.Mutex
	nextID  uint64
	flights map[uint64]context.CancelFunc
	wg      sync.WaitGroup

	// delivering is held from the active check until the result was delivered.
	delivering sync.Mutex
	// beforeDeliver runs between the active check and the delivery.
	beforeDeliver func()
}

// NewDispatcher returns a Dispatcher without any requests in flight.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{flights: make(map[uint64]context.CancelFunc)}
}

// Go runs work in its own goroutine. The function returned by work is invoked only
// if the request was not canceled before work returned.
func (d *Dispatcher) Go(ctx context.Context, work func(ctx context.Context) func()) {
	ctx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.flights[id] = cancel
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		deliver := work(ctx)

		d.delivering.Lock()
		defer d.delivering.Unlock()

		d.mu.Lock()
		_, active := d.flights[id]
		delete(d.flights, id)
		d.mu.Unlock()

		if !active || deliver == nil {
			return
		}
		if d.beforeDeliver != nil {
			d.beforeDeliver()
		}
		deliver()
	}()
}

// Cancel cancels all requests in flight and discards their results. A delivery
// that already started completes before Cancel returns; no callback is invoked
// afterwards. Cancel must not be called from within a callback.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	for id, cancel := range d.flights {
		cancel()
		delete(d.flights, id)
	}
	d.mu.Unlock()

	d.delivering.Lock()
	d.delivering.Unlock()
}

// InFlight returns the number of requests that have not been delivered or canceled.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.flights)
}

// Wait blocks until all started goroutines have returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Weather runs fetch for location and reports the outcome to cb.
func (d *Dispatcher) Weather(ctx context.Context, location weather.Location, cb WeatherCallback,
	fetch func(ctx context.Context, location weather.Location) (*weather.Weather, error),
) {
	d.Go(ctx, func(ctx context.Context) func() {
		result, err := fetch(ctx, location)
		if err != nil || result == nil {
			kind := Classify(err)
			return func() { cb.RequestWeatherFailed(location, kind) }
		}
		return func() { cb.RequestWeatherSuccess(location.WithWeather(result)) }
	})
}

// ReverseLocation runs fetch for location and reports the outcome to cb.
func (d *Dispatcher) ReverseLocation(ctx context.Context, location weather.Location, cb LocationCallback,
	fetch func(ctx context.Context, location weather.Location) ([]weather.Location, error),
) {
	query := CoordinateQuery(location)
	d.Go(ctx, func(ctx context.Context) func() {
		locations, err := fetch(ctx, location)
		if err != nil || len(locations) == 0 {
			return func() { cb.RequestLocationFailed(query) }
		}
		return func() { cb.RequestLocationSuccess(query, locations) }
	})
}

// CoordinateQuery formats the coordinates of a location as a query string.
func CoordinateQuery(location weather.Location) string {
	return fmt.Sprintf("%.4f,%.4f", location.Latitude, location.Longitude)
}
