package webhook

import (
	"context"
	"time"

	"github.com/happycrm/crm/pkg/entities"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultDedupTTL bounds marker growth; Meta's redelivery window is far
// shorter than a day.
const DefaultDedupTTL = 24 * time.Hour

// Deduplicator suppresses reprocessing of at-least-once webhook deliveries.
// IsDuplicate is check-and-set in one call: the first caller for a key claims
// it and gets false, every concurrent or later caller gets true.
type Deduplicator interface {
	IsDuplicate(ctx context.Context, key string) bool
}

type dedupStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewDeduplicator returns a Deduplicator backed by the shared Postgres
// instance, so suppression survives restarts and spans handler replicas.
func NewDeduplicator(db *gorm.DB, ttl time.Duration) Deduplicator {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &dedupStore{
		db:  db,
		ttl: ttl,
	}
}

// IsDuplicate claims the key with an atomic insert-if-absent. On store errors
// it fails open: processing a legitimate event twice is recoverable because
// message persistence is idempotent on external_message_id, dropping one is
// not.
func (d *dedupStore) IsDuplicate(ctx context.Context, key string) bool {
	now := time.Now().UTC()
	marker := entities.ProcessedEvent{
		EventKey:    key,
		ProcessedAt: now,
		ExpiresAt:   now.Add(d.ttl),
	}

	res := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_key"}},
		DoNothing: true,
	}).Create(&marker)
	if res.Error != nil {
		log.Warn().Err(res.Error).Str("event_key", key).Msg("dedup store unavailable, processing without duplicate suppression")
		return false
	}

	if res.RowsAffected > 0 {
		d.purgeExpired(ctx, now)
		return false
	}

	// Key exists; an expired marker is reclaimed rather than honored.
	var existing entities.ProcessedEvent
	if err := d.db.WithContext(ctx).Where("event_key = ?", key).First(&existing).Error; err != nil {
		log.Warn().Err(err).Str("event_key", key).Msg("dedup marker lookup failed, processing without duplicate suppression")
		return false
	}
	if existing.ExpiresAt.Before(now) {
		d.db.WithContext(ctx).Model(&entities.ProcessedEvent{}).Where("id = ?", existing.ID).
			Updates(map[string]interface{}{"processed_at": now, "expires_at": now.Add(d.ttl)})
		return false
	}
	return true
}

// purgeExpired lazily trims old markers; best effort.
func (d *dedupStore) purgeExpired(ctx context.Context, now time.Time) {
	d.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&entities.ProcessedEvent{})
}
