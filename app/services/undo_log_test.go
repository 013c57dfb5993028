package services

import (
	"testing"

	"AguaPos/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithCount(n int) []models.POSEntry {
	return []models.POSEntry{{
		ProductID: "p1",
		Name:      "Agua",
		Items:     []models.PresentationItem{{PresentationID: 1, Price: 1, Count: n}},
	}}
}

func TestUndoLogPushPop(t *testing.T) {
	log := NewUndoLog(5)
	assert.False(t, log.CanUndo())

	_, ok := log.Pop()
	assert.False(t, ok)

	log.Push(sessionWithCount(1))
	log.Push(sessionWithCount(2))
	assert.Equal(t, 2, log.Depth())

	snap, ok := log.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, snap[0].Items[0].Count)
	assert.Equal(t, 1, log.Depth())
}

func TestUndoLogSnapshotsAreIndependent(t *testing.T) {
	log := NewUndoLog(5)
	session := sessionWithCount(3)
	log.Push(session)

	session[0].Items[0].Count = 99

	snap, ok := log.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, snap[0].Items[0].Count)
}

func TestUndoLogEvictsOldest(t *testing.T) {
	log := NewUndoLog(3)
	for i := 1; i <= 5; i++ {
		log.Push(sessionWithCount(i))
	}
	assert.Equal(t, 3, log.Depth())

	var counts []int
	for log.CanUndo() {
		snap, _ := log.Pop()
		counts = append(counts, snap[0].Items[0].Count)
	}
	assert.Equal(t, []int{5, 4, 3}, counts)
}

func TestUndoLogRestoreAndClear(t *testing.T) {
	log := NewUndoLog(2)
	log.Restore([][]models.POSEntry{sessionWithCount(1), sessionWithCount(2), sessionWithCount(3)})
	assert.Equal(t, 2, log.Depth())
	assert.Equal(t, 2, log.Snapshots()[0][0].Items[0].Count)

	log.Clear()
	assert.Equal(t, 0, log.Depth())
	assert.NotNil(t, log.Snapshots())
}

func TestUndoLogDefaultDepth(t *testing.T) {
	log := NewUndoLog(0)
	for i := 0; i < MaxUndoDepth+10; i++ {
		log.Push(sessionWithCount(i))
	}
	assert.Equal(t, MaxUndoDepth, log.Depth())
}
