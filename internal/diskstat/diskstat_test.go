package diskstat

import "testing"

func TestStat(t *testing.T) {
	usage, err := Stat(t.TempDir())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if usage.TotalBytes == 0 {
		t.Error("Expected non-zero total")
	}
	if usage.FreeBytes > usage.TotalBytes {
		t.Errorf("Free %d exceeds total %d", usage.FreeBytes, usage.TotalBytes)
	}
	if usage.UsedBytes != usage.TotalBytes-usage.FreeBytes {
		t.Errorf("Used %d != total %d - free %d", usage.UsedBytes, usage.TotalBytes, usage.FreeBytes)
	}
}

func TestStat_MissingPath(t *testing.T) {
	if _, err := Stat("/nonexistent/dropvault/path"); err == nil {
		t.Fatal("Expected error for missing path")
	}
}

func TestUsedPercent(t *testing.T) {
	u := Usage{TotalBytes: 200, FreeBytes: 50, UsedBytes: 150}
	if got := u.UsedPercent(); got != 75.0 {
		t.Errorf("UsedPercent: got %.1f, want 75.0", got)
	}

	var zero Usage
	if got := zero.UsedPercent(); got != 0 {
		t.Errorf("UsedPercent on zero usage: got %.1f, want 0", got)
	}
}
