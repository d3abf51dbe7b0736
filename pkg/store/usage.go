package store

import (
	"context"
	"time"
)

// ============================================
// USAGE STAT OPERATIONS
// ============================================

// RecordUsage appends a usage event for a piece of content.
func (s *Store) RecordUsage(ctx context.Context, stat *UsageStat) error {
	return s.db.WithContext(ctx).Create(stat).Error
}

// CountUsage returns the number of usage events recorded for a content id.
func (s *Store) CountUsage(ctx context.Context, contentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&UsageStat{}).
		Where("content_id = ?", contentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// PruneUsageStats removes usage events recorded at or before cutoff.
// Returns the number of rows removed.
func (s *Store) PruneUsageStats(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("created_at <= ?", cutoff).
		Delete(&UsageStat{})
	return result.RowsAffected, result.Error
}
