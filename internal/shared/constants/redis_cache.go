package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the StagePass application.
// Pattern: stagepass:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "stagepass"
)

// ================== CACHE TTL DURATIONS ==================

const (
	// Seat availability is lock-sensitive; keep it near real time
	TTL_SEAT_MAP = 30 * time.Second

	// Admin listings tolerate slightly stale pages
	TTL_ADMIN_LIST = 2 * time.Minute

	// Sales figures move only on finalized orders
	TTL_ANALYTICS = 10 * time.Minute
)

// ================== SEATS MODULE ==================

const (
	// Public seat map, anonymous viewer variant
	CACHE_KEY_SEAT_MAP = CACHE_PREFIX + ":seats:map:public"
)

// ================== PAYMENTS MODULE ==================

// CheckoutSessionKey returns the cache key for a pending checkout session
func CheckoutSessionKey(sessionID string) string {
	return fmt.Sprintf("%s:payments:checkout:%s", CACHE_PREFIX, sessionID)
}

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_SALES_SUMMARY = CACHE_PREFIX + ":analytics:sales:summary"
)

// ================== KEY BUILDERS ==================

// SeatMapKey returns the cache key for the public seat map
func SeatMapKey() string {
	return CACHE_KEY_SEAT_MAP
}

// AdminSeatPageKey returns the cache key for one admin seat listing page
func AdminSeatPageKey(page, pageSize int, search string) string {
	return fmt.Sprintf("%s:seats:admin:page:%d:size:%d:search:%s", CACHE_PREFIX, page, pageSize, search)
}

// AdminSeatPagePattern matches every cached admin seat listing page
func AdminSeatPagePattern() string {
	return CACHE_PREFIX + ":seats:admin:page:*"
}
