// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/weatherfold/internal/logger"
)

// Join fans out the sub-requests of one weather fetch and waits for all of them.
// Each sub-request writes only to its own target.
type Join struct {
	group *errgroup.Group
	ctx   context.Context
	log   *logger.Logger
}

// NewJoin returns a Join whose sub-requests are canceled together with ctx or
// as soon as a required sub-request fails.
func NewJoin(ctx context.Context, log *logger.Logger) *Join {
	group, groupCtx := errgroup.WithContext(ctx)
	return &Join{group: group, ctx: groupCtx, log: log}
}

// Wait blocks until all sub-requests completed and returns the first error of a
// required sub-request.
func (j *Join) Wait() error {
	return j.group.Wait()
}

// Required adds a sub-request whose failure fails the whole join.
func Required[T any](j *Join, name string, target *T, fetch func(ctx context.Context) (T, error)) {
	j.group.Go(func() error {
		result, err := fetch(j.ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", name, err)
		}
		*target = result
		return nil
	})
}

// Optional adds a sub-request that never fails the join. If it is not applicable
// or fails, target receives placeholder instead.
func Optional[T any](j *Join, name string, applicable bool, target *T, placeholder T,
	fetch func(ctx context.Context) (T, error),
) {
	if !applicable {
		*target = placeholder
		return
	}
	j.group.Go(func() error {
		result, err := fetch(j.ctx)
		if err != nil {
			if j.log != nil {
				j.log.Warn("optional weather request failed, using placeholder",
					slog.String("request", name), logger.Err(err))
			}
			*target = placeholder
			return nil
		}
		*target = result
		return nil
	})
}
