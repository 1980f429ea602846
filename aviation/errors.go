// aviation/errors.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import "errors"

var (
	ErrEmptyRoute          = errors.New("Route is empty")
	ErrInvalidIndex        = errors.New("Invalid waypoint index")
	ErrMalformedFeedRecord = errors.New("Malformed airway feed record")
	ErrNoFeedsLoaded       = errors.New("No airway feeds could be loaded")
	ErrRouteJunction       = errors.New("Routes do not share a junction waypoint")
	ErrRouteTooShort       = errors.New("Route has fewer than two waypoints")
	ErrUnknownWaypoint     = errors.New("No waypoint with that identifier")
)
