package idgen

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation is the base error of every identifier allocation failure.
	ErrAllocation = errors.New("identifier allocation failed")

	// ErrAllocationExhausted is returned when the region allocator drew only
	// colliding identifiers within its attempt budget.
	ErrAllocationExhausted = fmt.Errorf("%w: attempts exhausted", ErrAllocation)

	// ErrUnknownRegion is returned in region mode when the owning user has no
	// region or the region has no configured prefix.
	ErrUnknownRegion = fmt.Errorf("%w: unknown region", ErrAllocation)

	// ErrUnknownStrategy is returned by New for an unsupported strategy name.
	ErrUnknownStrategy = fmt.Errorf("%w: unknown strategy", ErrAllocation)
)
