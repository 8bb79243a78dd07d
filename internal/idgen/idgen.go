// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package idgen allocates stable, collision-free climate record identifiers.
//
// Two strategies are available. The uuid strategy returns time-ordered UUIDs
// and performs no lookup. The region strategy composes a numeric region
// prefix, the owning user's id and a random six-digit suffix, then verifies
// that no stored record already uses the result, redrawing a bounded number
// of times.
package idgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Strategy names accepted by New.
const (
	StrategyUUID   = "uuid"
	StrategyRegion = "region"
)

// DefaultMaxAttempts is the region allocator's redraw budget when none is
// configured.
const DefaultMaxAttempts = 8

const suffixSpace = 1_000_000

// ExistenceChecker reports whether a record identifier is already stored.
type ExistenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Config selects and parameterizes an allocator.
type Config struct {
	Strategy       string
	MaxAttempts    int
	RegionPrefixes map[string]int
}

// New returns the allocator selected by cfg.Strategy. The region strategy
// requires exists.
func New(cfg Config, exists ExistenceChecker) (Allocator, error) {
	switch cfg.Strategy {
	case StrategyUUID, "":
		return NewUUIDAllocator(), nil
	case StrategyRegion:
		if exists == nil {
			return nil, fmt.Errorf("%w: region strategy needs an existence checker", ErrAllocation)
		}
		return NewRegionAllocator(cfg.RegionPrefixes, cfg.MaxAttempts, exists), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
}

// UUIDAllocator issues UUIDv7 identifiers, falling back to UUIDv4 when the
// time-ordered variant cannot be produced.
type UUIDAllocator struct{}

// NewUUIDAllocator constructs a [UUIDAllocator].
func NewUUIDAllocator() *UUIDAllocator {
	return &UUIDAllocator{}
}

// NewRecordID implements [Allocator]. userID and region are ignored.
func (a *UUIDAllocator) NewRecordID(_ context.Context, _, _ string) (string, error) {
	return NewUUID(), nil
}

// NewUUID returns a UUIDv7 string, or a UUIDv4 string if v7 generation fails.
func NewUUID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

// RegionAllocator issues "<prefix><userID><suffix>" identifiers.
type RegionAllocator struct {
	prefixes    map[string]int
	maxAttempts int
	exists      ExistenceChecker
	suffix      func() int
}

// Option customizes a [RegionAllocator].
type Option func(*RegionAllocator)

// WithSuffixSource replaces the random suffix source. Values are reduced
// modulo one million and zero padded to six digits.
func WithSuffixSource(next func() int) Option {
	return func(a *RegionAllocator) {
		a.suffix = next
	}
}

// NewRegionAllocator constructs a [RegionAllocator]. Region names are
// matched case-insensitively. A non-positive maxAttempts selects
// [DefaultMaxAttempts].
func NewRegionAllocator(prefixes map[string]int, maxAttempts int, exists ExistenceChecker, opts ...Option) *RegionAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	normalized := make(map[string]int, len(prefixes))
	for name, prefix := range prefixes {
		normalized[normalizeRegion(name)] = prefix
	}

	a := &RegionAllocator{
		prefixes:    normalized,
		maxAttempts: maxAttempts,
		exists:      exists,
		suffix:      func() int { return rand.IntN(suffixSpace) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewRecordID implements [Allocator].
func (a *RegionAllocator) NewRecordID(ctx context.Context, userID, region string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: empty user id", ErrAllocation)
	}
	name := normalizeRegion(region)
	if name == "" {
		return "", fmt.Errorf("%w: user %s has no region", ErrUnknownRegion, userID)
	}
	prefix, ok := a.prefixes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	base := strconv.Itoa(prefix) + userID
	for range a.maxAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		id := fmt.Sprintf("%s%06d", base, reduceSuffix(a.suffix()))
		taken, err := a.exists.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("%w: checking %s: %w", ErrAllocation, id, err)
		}
		if !taken {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %d attempts for user %s", ErrAllocationExhausted, a.maxAttempts, userID)
}

func normalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// reduceSuffix maps any drawn value into [0, suffixSpace).
func reduceSuffix(v int) int {
	return ((v % suffixSpace) + suffixSpace) % suffixSpace
}
