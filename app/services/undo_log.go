package services

import "AguaPos/app/models"

// MaxUndoDepth bounds the undo history of a session
const MaxUndoDepth = 50

// UndoLog is a bounded stack of session snapshots. The oldest snapshot is
// evicted once the limit is reached. There is no redo.
type UndoLog struct {
	snapshots [][]models.POSEntry
	max       int
}

// NewUndoLog creates an undo log holding at most max snapshots
func NewUndoLog(max int) *UndoLog {
	if max <= 0 {
		max = MaxUndoDepth
	}
	return &UndoLog{max: max}
}

// Push stores an independent copy of the session
func (u *UndoLog) Push(entries []models.POSEntry) {
	u.snapshots = append(u.snapshots, models.CloneEntries(entries))
	if over := len(u.snapshots) - u.max; over > 0 {
		u.snapshots = append([][]models.POSEntry(nil), u.snapshots[over:]...)
	}
}

// Pop removes and returns the most recent snapshot
func (u *UndoLog) Pop() ([]models.POSEntry, bool) {
	if len(u.snapshots) == 0 {
		return nil, false
	}
	last := u.snapshots[len(u.snapshots)-1]
	u.snapshots = u.snapshots[:len(u.snapshots)-1]
	return last, true
}

// CanUndo reports whether a snapshot is available
func (u *UndoLog) CanUndo() bool {
	return len(u.snapshots) > 0
}

// Depth returns the number of stored snapshots
func (u *UndoLog) Depth() int {
	return len(u.snapshots)
}

// Clear drops all snapshots
func (u *UndoLog) Clear() {
	u.snapshots = nil
}

// Snapshots returns the stored snapshots, oldest first
func (u *UndoLog) Snapshots() [][]models.POSEntry {
	if u.snapshots == nil {
		return [][]models.POSEntry{}
	}
	return u.snapshots
}

// Restore replaces the log content, keeping the newest snapshots within the limit
func (u *UndoLog) Restore(snapshots [][]models.POSEntry) {
	u.snapshots = nil
	for _, snap := range snapshots {
		u.Push(snap)
	}
}
