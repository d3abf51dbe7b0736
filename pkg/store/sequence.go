package store

import (
	"context"
	"fmt"
)

// ============================================
// CONTENT ID SEQUENCE OPERATIONS
// ============================================

// CurrentSequence returns the last content record id handed out by the
// database. Zero means no id has been allocated yet.
func (s *Store) CurrentSequence(ctx context.Context) (int64, error) {
	var last int64
	switch s.config.Type {
	case DatabaseTypeSQLite:
		result := s.db.WithContext(ctx).
			Raw("SELECT seq FROM sqlite_sequence WHERE name = ?", "content_records").
			Scan(&last)
		if result.Error != nil {
			return 0, result.Error
		}
		// No row means the table has never allocated an id.
		if result.RowsAffected == 0 {
			return 0, nil
		}
	case DatabaseTypePostgres:
		err := s.db.WithContext(ctx).
			Raw("SELECT last_value FROM content_records_id_seq").
			Scan(&last).Error
		if err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unsupported database type: %s", s.config.Type)
	}
	return last, nil
}

// MaxLiveContentID returns the highest id among content records still in
// the table. Zero means the table is empty.
func (s *Store) MaxLiveContentID(ctx context.Context) (int64, error) {
	var max int64
	err := s.db.WithContext(ctx).
		Model(&ContentRecord{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// RestartSequence rewinds the id sequence so the next inserted content
// record receives exactly next. The caller is responsible for choosing a
// value above every live id; rewinding below one would hand out duplicate
// ids and fail on the unique key.
func (s *Store) RestartSequence(ctx context.Context, next int64) error {
	if next < 1 {
		return fmt.Errorf("sequence restart value must be at least 1, got %d", next)
	}
	switch s.config.Type {
	case DatabaseTypeSQLite:
		// sqlite allocates seq+1, so store next-1. The sqlite_sequence row
		// only exists after the first insert; create it when missing.
		result := s.db.WithContext(ctx).
			Exec("UPDATE sqlite_sequence SET seq = ? WHERE name = ?", next-1, "content_records")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			err := s.db.WithContext(ctx).
				Exec("INSERT INTO sqlite_sequence (name, seq) VALUES (?, ?)", "content_records", next-1).Error
			if err != nil {
				return err
			}
		}
	case DatabaseTypePostgres:
		// setval with is_called=false makes the next nextval return the
		// value itself rather than value+1.
		err := s.db.WithContext(ctx).
			Exec("SELECT setval('content_records_id_seq', ?, false)", next).Error
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported database type: %s", s.config.Type)
	}
	return nil
}
