//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(&Config{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

func TestNew(t *testing.T) {
	t.Run("default config uses sqlite", func(t *testing.T) {
		config := &Config{}
		config.ApplyDefaults()

		if config.Type != DatabaseTypeSQLite {
			t.Errorf("expected SQLite, got %s", config.Type)
		}
	})

	t.Run("invalid config returns error", func(t *testing.T) {
		config := &Config{
			Type: "invalid",
		}
		_, err := New(config)
		if err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("creates in-memory store", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		if store.Type() != DatabaseTypeSQLite {
			t.Errorf("expected sqlite store, got %s", store.Type())
		}
	})
}

func TestSessionOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create session", func(t *testing.T) {
		session := &UploadSession{
			UploadID:    "upload-1",
			TotalChunks: 12,
			Status:      "uploading",
			ExpiresAt:   time.Now().Add(time.Hour),
		}

		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if session.ID == 0 {
			t.Error("expected non-zero session ID")
		}
	})

	t.Run("duplicate session fails", func(t *testing.T) {
		session := &UploadSession{
			UploadID:    "upload-1",
			TotalChunks: 5,
			Status:      "uploading",
		}

		err := store.CreateSession(ctx, session)
		if !errors.Is(err, ErrDuplicateSession) {
			t.Errorf("expected ErrDuplicateSession, got %v", err)
		}
	})

	t.Run("get session", func(t *testing.T) {
		session, err := store.GetSession(ctx, "upload-1")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if session.TotalChunks != 12 {
			t.Errorf("expected 12 total chunks, got %d", session.TotalChunks)
		}
	})

	t.Run("get session not found", func(t *testing.T) {
		_, err := store.GetSession(ctx, "nonexistent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("touch session", func(t *testing.T) {
		before, _ := store.GetSession(ctx, "upload-1")

		time.Sleep(10 * time.Millisecond)
		if err := store.TouchSession(ctx, "upload-1"); err != nil {
			t.Fatalf("failed to touch session: %v", err)
		}

		after, _ := store.GetSession(ctx, "upload-1")
		if !after.UpdatedAt.After(before.UpdatedAt) {
			t.Error("expected updated_at to advance")
		}
	})

	t.Run("touch nonexistent session fails", func(t *testing.T) {
		err := store.TouchSession(ctx, "nonexistent")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("set session status", func(t *testing.T) {
		if err := store.SetSessionStatus(ctx, "upload-1", "complete"); err != nil {
			t.Fatalf("failed to set status: %v", err)
		}

		session, _ := store.GetSession(ctx, "upload-1")
		if session.Status != "complete" {
			t.Errorf("expected status 'complete', got %q", session.Status)
		}
	})

	t.Run("list sessions", func(t *testing.T) {
		sessions, err := store.ListSessions(ctx)
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) != 1 {
			t.Errorf("expected 1 session, got %d", len(sessions))
		}
	})

	t.Run("count sessions", func(t *testing.T) {
		count, err := store.CountSessions(ctx)
		if err != nil {
			t.Fatalf("failed to count sessions: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 session, got %d", count)
		}
	})
}

func TestStaleSessionIDs(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()

	// Past its expiration.
	store.CreateSession(ctx, &UploadSession{
		UploadID:    "expired",
		TotalChunks: 3,
		Status:      "uploading",
		ExpiresAt:   now.Add(-time.Hour),
	})

	// Uploading with no activity for two days.
	store.CreateSession(ctx, &UploadSession{
		UploadID:    "abandoned",
		TotalChunks: 3,
		Status:      "uploading",
		ExpiresAt:   now.Add(time.Hour),
	})
	// Backdate updated_at directly; UpdateColumn skips the auto-timestamp.
	err := store.DB().Model(&UploadSession{}).
		Where("upload_id = ?", "abandoned").
		UpdateColumn("updated_at", now.Add(-48*time.Hour)).Error
	if err != nil {
		t.Fatalf("failed to backdate session: %v", err)
	}

	// Active and unexpired.
	store.CreateSession(ctx, &UploadSession{
		UploadID:    "active",
		TotalChunks: 3,
		Status:      "uploading",
		ExpiresAt:   now.Add(time.Hour),
	})

	// Complete but idle; not "uploading", so inactivity does not apply.
	store.CreateSession(ctx, &UploadSession{
		UploadID:    "done",
		TotalChunks: 3,
		Status:      "complete",
		ExpiresAt:   now.Add(time.Hour),
	})
	err = store.DB().Model(&UploadSession{}).
		Where("upload_id = ?", "done").
		UpdateColumn("updated_at", now.Add(-48*time.Hour)).Error
	if err != nil {
		t.Fatalf("failed to backdate session: %v", err)
	}

	ids, err := store.StaleSessionIDs(ctx, now, 24*time.Hour)
	if err != nil {
		t.Fatalf("failed to query stale sessions: %v", err)
	}

	stale := make(map[string]bool, len(ids))
	for _, id := range ids {
		stale[id] = true
	}

	if !stale["expired"] {
		t.Error("expected expired session to be stale")
	}
	if !stale["abandoned"] {
		t.Error("expected abandoned session to be stale")
	}
	if stale["active"] {
		t.Error("active session should not be stale")
	}
	if stale["done"] {
		t.Error("complete session should not be stale on inactivity alone")
	}
}

func TestChunkRecordOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := store.AddChunkRecord(ctx, &ChunkRecord{
			UploadID:    "upload-a",
			ChunkIndex:  i,
			StoragePath: "/data/chunks/upload-a/chunk_" + string(rune('0'+i)),
			SizeBytes:   1024,
		})
		if err != nil {
			t.Fatalf("failed to add chunk record: %v", err)
		}
	}
	store.AddChunkRecord(ctx, &ChunkRecord{
		UploadID:    "upload-b",
		ChunkIndex:  0,
		StoragePath: "/data/chunks/upload-b/chunk_0",
	})

	t.Run("chunk paths for one upload", func(t *testing.T) {
		paths, err := store.ChunkPaths(ctx, []string{"upload-a"})
		if err != nil {
			t.Fatalf("failed to get chunk paths: %v", err)
		}
		if len(paths) != 3 {
			t.Errorf("expected 3 paths, got %d", len(paths))
		}
	})

	t.Run("chunk paths for several uploads", func(t *testing.T) {
		paths, err := store.ChunkPaths(ctx, []string{"upload-a", "upload-b"})
		if err != nil {
			t.Fatalf("failed to get chunk paths: %v", err)
		}
		if len(paths) != 4 {
			t.Errorf("expected 4 paths, got %d", len(paths))
		}
	})

	t.Run("empty id list short-circuits", func(t *testing.T) {
		paths, err := store.ChunkPaths(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if paths != nil {
			t.Errorf("expected nil paths, got %v", paths)
		}

		n, err := store.DeleteChunkRecords(ctx, nil)
		if err != nil || n != 0 {
			t.Errorf("expected 0 deletions and no error, got %d, %v", n, err)
		}
		n, err = store.DeleteSessions(ctx, nil)
		if err != nil || n != 0 {
			t.Errorf("expected 0 deletions and no error, got %d, %v", n, err)
		}
	})

	t.Run("delete chunk records", func(t *testing.T) {
		n, err := store.DeleteChunkRecords(ctx, []string{"upload-a"})
		if err != nil {
			t.Fatalf("failed to delete chunk records: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3 deletions, got %d", n)
		}

		paths, _ := store.ChunkPaths(ctx, []string{"upload-a", "upload-b"})
		if len(paths) != 1 {
			t.Errorf("expected 1 remaining path, got %d", len(paths))
		}
	})

	t.Run("delete sessions", func(t *testing.T) {
		store.CreateSession(ctx, &UploadSession{UploadID: "upload-a", TotalChunks: 3})
		store.CreateSession(ctx, &UploadSession{UploadID: "upload-b", TotalChunks: 1})

		n, err := store.DeleteSessions(ctx, []string{"upload-a", "upload-b"})
		if err != nil {
			t.Fatalf("failed to delete sessions: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 deletions, got %d", n)
		}
	})
}

func TestContentOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create content", func(t *testing.T) {
		record := &ContentRecord{
			ContentID: "content-1",
			FilePath:  "/data/files/content-1",
			SizeBytes: 4096,
			ExpiresAt: time.Now().Add(time.Hour),
		}

		if err := store.CreateContent(ctx, record); err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		if record.ID == 0 {
			t.Error("expected non-zero record ID")
		}
	})

	t.Run("duplicate content fails", func(t *testing.T) {
		record := &ContentRecord{ContentID: "content-1"}
		err := store.CreateContent(ctx, record)
		if !errors.Is(err, ErrDuplicateContent) {
			t.Errorf("expected ErrDuplicateContent, got %v", err)
		}
	})

	t.Run("get content", func(t *testing.T) {
		record, err := store.GetContent(ctx, "content-1")
		if err != nil {
			t.Fatalf("failed to get content: %v", err)
		}
		if record.SizeBytes != 4096 {
			t.Errorf("expected 4096 bytes, got %d", record.SizeBytes)
		}
	})

	t.Run("get content not found", func(t *testing.T) {
		_, err := store.GetContent(ctx, "nonexistent")
		if !errors.Is(err, ErrContentNotFound) {
			t.Errorf("expected ErrContentNotFound, got %v", err)
		}
	})

	t.Run("list and count content", func(t *testing.T) {
		records, err := store.ListContent(ctx)
		if err != nil {
			t.Fatalf("failed to list content: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}

		count, err := store.CountContent(ctx)
		if err != nil {
			t.Fatalf("failed to count content: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 record, got %d", count)
		}
	})
}

func TestExpirationFlow(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()

	// Past expiration, standalone file: reclaimable.
	store.CreateContent(ctx, &ContentRecord{
		ContentID: "stale-file",
		FilePath:  "/data/files/stale-file",
		ExpiresAt: now.Add(-10 * time.Minute),
	})
	// Past expiration, inline content: nothing on disk to reclaim.
	store.CreateContent(ctx, &ContentRecord{
		ContentID: "stale-inline",
		FilePath:  "",
		ExpiresAt: now.Add(-10 * time.Minute),
	})
	// Still live.
	store.CreateContent(ctx, &ContentRecord{
		ContentID: "fresh",
		FilePath:  "/data/files/fresh",
		ExpiresAt: now.Add(time.Hour),
	})

	t.Run("expired file paths", func(t *testing.T) {
		paths, err := store.ExpiredFilePaths(ctx, now)
		if err != nil {
			t.Fatalf("failed to query expired paths: %v", err)
		}
		if len(paths) != 1 || paths[0] != "/data/files/stale-file" {
			t.Errorf("expected only the stale standalone file, got %v", paths)
		}
	})

	t.Run("mark expired", func(t *testing.T) {
		n, err := store.MarkExpired(ctx, now)
		if err != nil {
			t.Fatalf("failed to mark expired: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 rows marked, got %d", n)
		}

		record, _ := store.GetContent(ctx, "stale-file")
		if !record.Expired {
			t.Error("expected stale-file to be flagged expired")
		}
		record, _ = store.GetContent(ctx, "fresh")
		if record.Expired {
			t.Error("fresh record should not be flagged expired")
		}
	})

	t.Run("mark expired is one-way and idempotent", func(t *testing.T) {
		n, err := store.MarkExpired(ctx, now)
		if err != nil {
			t.Fatalf("failed to re-mark expired: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 rows on second pass, got %d", n)
		}
	})

	t.Run("marked paths become orphans", func(t *testing.T) {
		// Already-flagged records still referencing a file show up here
		// until the hard delete takes them.
		paths, err := store.OrphanedFilePaths(ctx)
		if err != nil {
			t.Fatalf("failed to query orphans: %v", err)
		}
		if len(paths) != 1 || paths[0] != "/data/files/stale-file" {
			t.Errorf("expected only the stale standalone file, got %v", paths)
		}
	})

	t.Run("hard delete honors the grace window", func(t *testing.T) {
		// Cutoff five minutes in the past: records expired within the
		// window survive this pass.
		cutoff := now.Add(-5 * time.Minute)
		n, err := store.DeleteExpiredBefore(ctx, cutoff)
		if err != nil {
			t.Fatalf("failed to hard delete: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 rows removed, got %d", n)
		}

		_, err = store.GetContent(ctx, "stale-file")
		if !errors.Is(err, ErrContentNotFound) {
			t.Errorf("expected stale-file gone, got %v", err)
		}
		if _, err := store.GetContent(ctx, "fresh"); err != nil {
			t.Errorf("fresh record should survive: %v", err)
		}
	})

	t.Run("records inside the grace window survive", func(t *testing.T) {
		store.CreateContent(ctx, &ContentRecord{
			ContentID: "just-expired",
			ExpiresAt: now.Add(-time.Minute),
		})
		if _, err := store.MarkExpired(ctx, now); err != nil {
			t.Fatalf("failed to mark expired: %v", err)
		}

		n, err := store.DeleteExpiredBefore(ctx, now.Add(-5*time.Minute))
		if err != nil {
			t.Fatalf("failed to hard delete: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 rows removed inside grace window, got %d", n)
		}
		if _, err := store.GetContent(ctx, "just-expired"); err != nil {
			t.Errorf("just-expired should still be readable: %v", err)
		}
	})
}

func TestSequenceOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("fresh store reports zero", func(t *testing.T) {
		last, err := store.CurrentSequence(ctx)
		if err != nil {
			t.Fatalf("failed to read sequence: %v", err)
		}
		if last != 0 {
			t.Errorf("expected 0, got %d", last)
		}

		max, err := store.MaxLiveContentID(ctx)
		if err != nil {
			t.Fatalf("failed to read max id: %v", err)
		}
		if max != 0 {
			t.Errorf("expected 0, got %d", max)
		}
	})

	t.Run("sequence tracks inserts", func(t *testing.T) {
		record := &ContentRecord{ContentID: "seq-1"}
		if err := store.CreateContent(ctx, record); err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		last, err := store.CurrentSequence(ctx)
		if err != nil {
			t.Fatalf("failed to read sequence: %v", err)
		}
		if last != record.ID {
			t.Errorf("expected sequence %d, got %d", record.ID, last)
		}
	})

	t.Run("restart hands out the requested id", func(t *testing.T) {
		// Simulate a sequence racing toward exhaustion while only a few
		// records are live.
		if err := store.CreateContent(ctx, &ContentRecord{ID: 500, ContentID: "seq-500"}); err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		err := store.DB().
			Exec("UPDATE sqlite_sequence SET seq = ? WHERE name = ?", int64(2_500_000_000), "content_records").Error
		if err != nil {
			t.Fatalf("failed to inflate sequence: %v", err)
		}

		last, err := store.CurrentSequence(ctx)
		if err != nil {
			t.Fatalf("failed to read sequence: %v", err)
		}
		if last != 2_500_000_000 {
			t.Errorf("expected inflated sequence, got %d", last)
		}

		max, err := store.MaxLiveContentID(ctx)
		if err != nil {
			t.Fatalf("failed to read max id: %v", err)
		}
		if max != 500 {
			t.Errorf("expected max live id 500, got %d", max)
		}

		if err := store.RestartSequence(ctx, 1500); err != nil {
			t.Fatalf("failed to restart sequence: %v", err)
		}

		record := &ContentRecord{ContentID: "seq-after-restart"}
		if err := store.CreateContent(ctx, record); err != nil {
			t.Fatalf("failed to create content after restart: %v", err)
		}
		if record.ID != 1500 {
			t.Errorf("expected id 1500 after restart, got %d", record.ID)
		}
	})

	t.Run("restart rejects values below one", func(t *testing.T) {
		if err := store.RestartSequence(ctx, 0); err == nil {
			t.Error("expected error for restart value 0")
		}
	})
}

func TestRestartSequenceOnFreshStore(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	// No insert has happened, so the sqlite_sequence row does not exist
	// yet and the restart has to create it.
	if err := store.RestartSequence(ctx, 100); err != nil {
		t.Fatalf("failed to restart fresh sequence: %v", err)
	}

	record := &ContentRecord{ContentID: "first"}
	if err := store.CreateContent(ctx, record); err != nil {
		t.Fatalf("failed to create content: %v", err)
	}
	if record.ID != 100 {
		t.Errorf("expected id 100, got %d", record.ID)
	}
}

func TestUsageStatOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()

	for i := 0; i < 5; i++ {
		err := store.RecordUsage(ctx, &UsageStat{
			ContentID: "content-1",
			Event:     "download",
			Bytes:     2048,
		})
		if err != nil {
			t.Fatalf("failed to record usage: %v", err)
		}
	}

	t.Run("count usage", func(t *testing.T) {
		count, err := store.CountUsage(ctx, "content-1")
		if err != nil {
			t.Fatalf("failed to count usage: %v", err)
		}
		if count != 5 {
			t.Errorf("expected 5 events, got %d", count)
		}
	})

	t.Run("prune honors the cutoff", func(t *testing.T) {
		// Backdate three rows past the retention window.
		err := store.DB().Model(&UsageStat{}).
			Where("id <= ?", 3).
			UpdateColumn("created_at", now.Add(-100*24*time.Hour)).Error
		if err != nil {
			t.Fatalf("failed to backdate usage rows: %v", err)
		}

		n, err := store.PruneUsageStats(ctx, now.Add(-90*24*time.Hour))
		if err != nil {
			t.Fatalf("failed to prune usage stats: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3 rows pruned, got %d", n)
		}

		count, _ := store.CountUsage(ctx, "content-1")
		if count != 2 {
			t.Errorf("expected 2 events left, got %d", count)
		}
	})
}

func TestHealthcheck(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()

	if err := store.Healthcheck(context.Background()); err != nil {
		t.Errorf("healthcheck should pass: %v", err)
	}
}
