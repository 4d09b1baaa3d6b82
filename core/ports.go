package core

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

type (
	// Cache stores JSON-encodable values by key.
	Cache interface {
		Get(ctx context.Context, key string, dest interface{}) error // ErrCacheMiss when absent
		Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
		Delete(ctx context.Context, keys ...string) error
	}

	// EventPublisher broadcasts domain events to other systems.
	EventPublisher interface {
		Publish(ctx context.Context, routingKey string, payload interface{}) error
		Close() error
	}

	// Metrics records application counters.
	Metrics interface {
		ObserveRequest(method, path string, code int)
		SetoranCreated(recordType, colorStatus string)
		SetoranDeleted()
	}
)

// Cache keys shared between the API and the services invalidating them.
const (
	CacheKeyQuran       = "quran:all"
	CacheKeyAdminReport = "report:admin"
	CacheKeyAdminStats  = "report:stats"
)

// Event routing keys.
const (
	EventSetoranCreated = "setoran.created"
	EventSetoranUpdated = "setoran.updated"
	EventSetoranDeleted = "setoran.deleted"
	EventSantriMapped   = "santri.mapped"
	EventGuruDeleted    = "guru.deleted"
)
