package store

import (
	"context"
	"time"
)

// ============================================
// UPLOAD SESSION OPERATIONS
// ============================================

// CreateSession persists a new upload session.
func (s *Store) CreateSession(ctx context.Context, session *UploadSession) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateSession
		}
		return err
	}
	return nil
}

// GetSession returns the session for the given upload id.
func (s *Store) GetSession(ctx context.Context, uploadID string) (*UploadSession, error) {
	var session UploadSession
	if err := s.db.WithContext(ctx).Where("upload_id = ?", uploadID).First(&session).Error; err != nil {
		return nil, convertNotFoundError(err, ErrSessionNotFound)
	}
	return &session, nil
}

// TouchSession bumps the session's activity timestamp. The stale-session
// query treats updated_at as last activity.
func (s *Store) TouchSession(ctx context.Context, uploadID string) error {
	result := s.db.WithContext(ctx).
		Model(&UploadSession{}).
		Where("upload_id = ?", uploadID).
		Update("updated_at", time.Now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SetSessionStatus updates the status of one session.
func (s *Store) SetSessionStatus(ctx context.Context, uploadID, status string) error {
	result := s.db.WithContext(ctx).
		Model(&UploadSession{}).
		Where("upload_id = ?", uploadID).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListSessions returns all upload sessions ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]*UploadSession, error) {
	var sessions []*UploadSession
	if err := s.db.WithContext(ctx).Order("created_at").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountSessions returns the number of upload sessions.
func (s *Store) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&UploadSession{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// StaleSessionIDs returns the upload ids of sessions eligible for
// reclamation: past their expiration, or still uploading with no activity
// since the inactivity cutoff.
func (s *Store) StaleSessionIDs(ctx context.Context, now time.Time, inactivity time.Duration) ([]string, error) {
	cutoff := now.Add(-inactivity)

	var ids []string
	err := s.db.WithContext(ctx).
		Model(&UploadSession{}).
		Where("expires_at <= ?", now).
		Or("status = ? AND updated_at <= ?", "uploading", cutoff).
		Pluck("upload_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ============================================
// CHUNK RECORD OPERATIONS
// ============================================

// AddChunkRecord persists the location of one materialized chunk.
func (s *Store) AddChunkRecord(ctx context.Context, chunk *ChunkRecord) error {
	return s.db.WithContext(ctx).Create(chunk).Error
}

// ChunkPaths returns the storage paths of every chunk belonging to the
// given upload ids.
func (s *Store) ChunkPaths(ctx context.Context, uploadIDs []string) ([]string, error) {
	if len(uploadIDs) == 0 {
		return nil, nil
	}

	var paths []string
	err := s.db.WithContext(ctx).
		Model(&ChunkRecord{}).
		Where("upload_id IN ?", uploadIDs).
		Pluck("storage_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// DeleteChunkRecords removes every chunk record for the given upload ids
// in one statement. Returns the number of rows removed.
func (s *Store) DeleteChunkRecords(ctx context.Context, uploadIDs []string) (int64, error) {
	if len(uploadIDs) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).
		Where("upload_id IN ?", uploadIDs).
		Delete(&ChunkRecord{})
	return result.RowsAffected, result.Error
}

// DeleteSessions removes every session for the given upload ids in one
// statement. Returns the number of rows removed.
func (s *Store) DeleteSessions(ctx context.Context, uploadIDs []string) (int64, error) {
	if len(uploadIDs) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).
		Where("upload_id IN ?", uploadIDs).
		Delete(&UploadSession{})
	return result.RowsAffected, result.Error
}
