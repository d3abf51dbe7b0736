package store

import (
	"context"
	"time"
)

// ============================================
// CONTENT RECORD OPERATIONS
// ============================================

// CreateContent persists a new content record.
func (s *Store) CreateContent(ctx context.Context, record *ContentRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateContent
		}
		return err
	}
	return nil
}

// GetContent returns the content record for the given content id.
func (s *Store) GetContent(ctx context.Context, contentID string) (*ContentRecord, error) {
	var record ContentRecord
	if err := s.db.WithContext(ctx).Where("content_id = ?", contentID).First(&record).Error; err != nil {
		return nil, convertNotFoundError(err, ErrContentNotFound)
	}
	return &record, nil
}

// ListContent returns all content records ordered by creation time.
func (s *Store) ListContent(ctx context.Context) ([]*ContentRecord, error) {
	var records []*ContentRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountContent returns the number of content records.
func (s *Store) CountContent(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&ContentRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExpiredFilePaths returns the file paths of records that have passed
// their expiration but are not yet flagged expired and reference a
// standalone file. These are the files the sweeper reclaims before the
// records are marked.
func (s *Store) ExpiredFilePaths(ctx context.Context, now time.Time) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).
		Model(&ContentRecord{}).
		Where("expired = ? AND expires_at <= ? AND file_path <> ''", false, now).
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// MarkExpired flips the expired flag on every record past its expiration.
// The flag never reverses. Returns the number of rows updated.
func (s *Store) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&ContentRecord{}).
		Where("expired = ? AND expires_at <= ?", false, now).
		Update("expired", true)
	return result.RowsAffected, result.Error
}

// DeleteExpiredBefore permanently removes records that expired at or
// before cutoff. Records expired after cutoff stay visible so a
// last-moment read still observes a "gone" state distinct from "never
// existed". Returns the number of rows removed.
func (s *Store) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expired = ? AND expires_at <= ?", true, cutoff).
		Delete(&ContentRecord{})
	return result.RowsAffected, result.Error
}

// OrphanedFilePaths returns files referenced by records already flagged
// expired. These slipped past the reclamation phase, typically because the
// record was marked expired before the sweeper first ran.
func (s *Store) OrphanedFilePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).
		Model(&ContentRecord{}).
		Where("expired = ? AND file_path <> ''", true).
		Pluck("file_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}
