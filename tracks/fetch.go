// tracks/fetch.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package tracks

import (
	"context"
	"errors"

	"github.com/airwaynet/routegraph/log"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches limits how many track messages are downloaded at
// once.
const maxConcurrentFetches = 4

// FetchAll fetches the tracks for each of the given handlers concurrently.
// A failure of one fetch doesn't stop the others; the returned error joins
// all of the failures. The graph is not modified; call AddToWaypointList
// on the handlers afterward.
func FetchAll(ctx context.Context, providers map[*Handler]Provider, lg *log.Logger) error {
	var eg errgroup.Group
	eg.SetLimit(maxConcurrentFetches)

	errs := make(chan error, len(providers))
	for h, p := range providers {
		eg.Go(func() error {
			if err := <-h.GetAllTracksAsync(ctx, p); err != nil {
				lg.Warnf("%s: %v", h.System, err)
				errs <- err
			}
			return nil
		})
	}
	_ = eg.Wait()
	close(errs)

	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}
