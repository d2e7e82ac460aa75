package seo

import "errors"

var (
	// ErrInvalidTopology indicates a rejected connection list: too many
	// neighbours, a self-connection, a nil or a repeated neighbour.
	ErrInvalidTopology = errors.New("seo: invalid topology")

	// ErrNonPhysical indicates a wait time that is not strictly positive and
	// finite, typically caused by a zero or negative resistance.
	ErrNonPhysical = errors.New("seo: non-physical wait time")
)
