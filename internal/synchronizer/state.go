package synchronizer

// SyncState describes where the active group's selection stands relative to the server
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncPending
	SyncSaving
	SyncSaved
	SyncFailed
)

func (s SyncState) String() string {
	switch s {
	case SyncPending:
		return "pending"
	case SyncSaving:
		return "saving"
	case SyncSaved:
		return "saved"
	case SyncFailed:
		return "save failed"
	}
	return "idle"
}
