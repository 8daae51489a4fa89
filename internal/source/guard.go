// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package source

import (
	"errors"
	"fmt"

	"github.com/wneessen/weatherfold/internal/weather"
)

// Guard runs a conversion and turns every failure, including panics on malformed
// payloads, into an error wrapping weather.ErrConversion. A failed conversion never
// returns a Weather.
func Guard(name string, convert func() (*weather.Weather, error)) (result *weather.Weather, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s: %v", weather.ErrConversion, name, r)
		}
	}()

	result, err = convert()
	switch {
	case err != nil && errors.Is(err, weather.ErrConversion):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %w", weather.ErrConversion, name, err)
	case result == nil:
		return nil, fmt.Errorf("%w: %s: empty result", weather.ErrConversion, name)
	}
	return result, nil
}

// Require returns an error if value is nil. It is used to reject payloads with
// missing required objects before they are mapped.
func Require[T any](value *T, field string) error {
	if value == nil {
		return fmt.Errorf("%w: missing required field %s", weather.ErrConversion, field)
	}
	return nil
}
