// Package diskstat reports filesystem capacity for a directory. It backs
// the storage health endpoint and the status command.
package diskstat

// Usage describes the capacity of the filesystem holding a path.
type Usage struct {
	TotalBytes uint64 `json:"total_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
	UsedBytes  uint64 `json:"used_bytes"`
}

// UsedPercent returns the used fraction as a percentage, 0 when the total
// is unknown.
func (u Usage) UsedPercent() float64 {
	if u.TotalBytes == 0 {
		return 0
	}
	return float64(u.UsedBytes) / float64(u.TotalBytes) * 100
}
