package store

import "time"

// UploadSession is the persisted state of one chunked upload. Rows are
// created by the ingestion layer when the first chunk arrives; the sweeper
// only reads and reclaims them.
type UploadSession struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	UploadID    string    `gorm:"uniqueIndex;size:64;not null"`
	TotalChunks int       `gorm:"not null"`
	Status      string    `gorm:"size:16;index;not null;default:uploading"`
	ExpiresAt   time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChunkRecord tracks one materialized chunk file of an upload session.
// StoragePath is the chunk's location on disk as written by the ingestion
// layer; it is treated as untrusted on the way back out and re-checked
// against the storage root before deletion.
type ChunkRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	UploadID    string `gorm:"index;size:64;not null"`
	ChunkIndex  int    `gorm:"not null"`
	StoragePath string `gorm:"size:512;not null"`
	SizeBytes   int64
	CreatedAt   time.Time
}

// ContentRecord is the metadata of one stored artifact. FilePath is set
// only when the content lives as a standalone file on disk; inline content
// leaves it empty. ID is the monotonically increasing sequence guarded
// against exhaustion by the sweeper.
type ContentRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ContentID string    `gorm:"uniqueIndex;size:64;not null"`
	FilePath  string    `gorm:"size:512"`
	SizeBytes int64
	ExpiresAt time.Time `gorm:"index"`
	Expired   bool      `gorm:"index;not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UsageStat is one usage-accounting row. Rows accumulate fast and carry no
// long-term value, so the sweeper prunes them past a retention window.
type UsageStat struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ContentID string `gorm:"size:64;index"`
	Event     string `gorm:"size:32"`
	Bytes     int64
	CreatedAt time.Time `gorm:"index"`
}

// AllModels returns every model for schema auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&UploadSession{},
		&ChunkRecord{},
		&ContentRecord{},
		&UsageStat{},
	}
}
