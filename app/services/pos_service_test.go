package services

import (
	"testing"

	"AguaPos/app/config"
	"AguaPos/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPOS(t *testing.T, mode string) (*StateStore, *POSService, string) {
	t.Helper()
	store := newTestStore(t)
	id := seedWater(t, store)
	return store, NewPOSService(store, config.POSConfig{EmptyCloseMode: mode}), id
}

func TestStartSession(t *testing.T) {
	_, pos, id := newTestPOS(t, config.EmptyCloseRecord)

	_, err := pos.StartSession(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = pos.StartSession([]string{"missing"})
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.False(t, pos.IsActive())

	entries, err := pos.StartSession([]string{id, id, "missing"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Agua", entries[0].Name)
	require.Len(t, entries[0].Items, 2)
	assert.Equal(t, 1.00, entries[0].Items[0].Price)
	assert.Equal(t, 2.00, entries[0].Items[1].Price)
	assert.Equal(t, 0, entries[0].Items[0].Count)

	_, err = pos.StartSession([]string{id})
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestUpdateItemCountRejectsNegative(t *testing.T) {
	_, pos, id := newTestPOS(t, config.EmptyCloseRecord)
	_, err := pos.StartSession([]string{id})
	require.NoError(t, err)

	count, err := pos.UpdateItemCount(id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = pos.UpdateItemCount(id, 1, -3)
	assert.ErrorIs(t, err, ErrNegativeCount)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, pos.Entries()[0].Items[0].Count)
	assert.Equal(t, 1, pos.UndoDepth())

	_, err = pos.UpdateItemCount(id, 99, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	count, err = pos.UpdateItemCount(id, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, pos.UndoDepth())
}

func TestUndoReturnsToStart(t *testing.T) {
	_, pos, id := newTestPOS(t, config.EmptyCloseRecord)
	_, err := pos.StartSession([]string{id})
	require.NoError(t, err)
	start := pos.Entries()

	deltas := []struct {
		presentation int
		delta        int
	}{{1, 1}, {2, 3}, {1, 2}, {2, -1}}
	for _, d := range deltas {
		_, err := pos.UpdateItemCount(id, d.presentation, d.delta)
		require.NoError(t, err)
	}
	_, err = pos.ResetProductCounts(id)
	require.NoError(t, err)

	for pos.CanUndo() {
		require.NoError(t, pos.Undo())
	}
	assert.Equal(t, start, pos.Entries())

	assert.ErrorIs(t, pos.Undo(), ErrNothingToUndo)
	assert.Equal(t, start, pos.Entries())
}

func TestComputeTotal(t *testing.T) {
	store := newTestStore(t)
	pos := NewPOSService(store, config.POSConfig{})
	store.State().POSActiveProducts = []models.POSEntry{{
		ProductID: "p1",
		Name:      "Agua",
		Items: []models.PresentationItem{
			{PresentationID: 1, Price: 1.50, Count: 2},
			{PresentationID: 2, Price: 2.80, Count: 0},
		},
	}, {
		ProductID: "p2",
		Name:      "Hielo",
		Items:     []models.PresentationItem{{PresentationID: 1, Price: 3.60, Count: 1}},
	}}

	assert.Equal(t, 6.60, pos.ComputeTotal())
	assert.Equal(t, 3.00, pos.EntryTotal("p1"))
	assert.Equal(t, 0.0, pos.EntryTotal("missing"))
}

func TestCloseDayFoldsPositiveCounts(t *testing.T) {
	store, pos, id := newTestPOS(t, config.EmptyCloseRecord)
	_, err := pos.StartSession([]string{id})
	require.NoError(t, err)

	_, err = pos.UpdateItemCount(id, 1, 3)
	require.NoError(t, err)
	_, err = pos.UpdateItemCount(id, 2, 2)
	require.NoError(t, err)
	_, err = pos.UpdateItemCount(id, 2, -2)
	require.NoError(t, err)
	_, err = pos.UpdateItemCount(id, 2, 1)
	require.NoError(t, err)

	record, err := pos.CloseDay(CloseOptions{})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, 5.00, record.Total)
	assert.Equal(t, testNow, record.Date)
	require.Len(t, record.Items, 2)
	assert.Equal(t, "500ml", record.Items[0].PresentationName)
	assert.Equal(t, 3, record.Items[0].Count)
	assert.Equal(t, 3.00, record.Items[0].Total)
	assert.Equal(t, "1L", record.Items[1].PresentationName)
	assert.Equal(t, 2.00, record.Items[1].Total)

	assert.False(t, pos.IsActive())
	assert.Equal(t, 0, pos.UndoDepth())
	assert.Len(t, store.State().SalesHistory, 1)
}

func TestCloseDayTwoLinesTotal(t *testing.T) {
	store := newTestStore(t)
	pos := NewPOSService(store, config.POSConfig{})
	store.State().POSActiveProducts = []models.POSEntry{{
		ProductID:     "p1",
		Name:          "Agua",
		Presentations: []models.ProductPresentation{{PresentationID: 1, Name: "500ml", Volume: 0.5}},
		Items: []models.PresentationItem{
			{PresentationID: 1, Price: 1.50, Count: 2},
			{PresentationID: 2, Price: 2.80, Count: 0},
		},
	}, {
		ProductID:     "p2",
		Name:          "Hielo",
		Presentations: []models.ProductPresentation{{PresentationID: 1, Name: "500ml", Volume: 0.5}},
		Items:         []models.PresentationItem{{PresentationID: 1, Price: 3.60, Count: 1}},
	}}

	record, err := pos.CloseDay(CloseOptions{})
	require.NoError(t, err)
	assert.Equal(t, 6.60, record.Total)
	assert.Len(t, record.Items, 2)
	assert.Empty(t, store.State().POSActiveProducts)
	assert.Equal(t, 0, pos.UndoDepth())
}

func TestCloseDayEmptyModes(t *testing.T) {
	t.Run("record", func(t *testing.T) {
		store, pos, id := newTestPOS(t, config.EmptyCloseRecord)
		_, err := pos.StartSession([]string{id})
		require.NoError(t, err)

		_, err = pos.CloseDay(CloseOptions{})
		assert.ErrorIs(t, err, ErrEmptyCloseConfirm)
		assert.True(t, pos.IsActive())

		record, err := pos.CloseDay(CloseOptions{ConfirmEmpty: true})
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 0.0, record.Total)
		assert.Empty(t, record.Items)
		assert.Len(t, store.State().SalesHistory, 1)
	})

	t.Run("reset", func(t *testing.T) {
		store, pos, id := newTestPOS(t, config.EmptyCloseReset)
		_, err := pos.StartSession([]string{id})
		require.NoError(t, err)

		record, err := pos.CloseDay(CloseOptions{ConfirmEmpty: true})
		require.NoError(t, err)
		assert.Nil(t, record)
		assert.False(t, pos.IsActive())
		assert.Empty(t, store.State().SalesHistory)
	})

	t.Run("no session", func(t *testing.T) {
		_, pos, _ := newTestPOS(t, config.EmptyCloseRecord)
		_, err := pos.CloseDay(CloseOptions{ConfirmEmpty: true})
		assert.ErrorIs(t, err, ErrNoActiveSession)
	})
}

func TestResetIsIdempotent(t *testing.T) {
	_, pos, id := newTestPOS(t, config.EmptyCloseRecord)
	_, err := pos.StartSession([]string{id})
	require.NoError(t, err)

	changed, err := pos.ResetProductCounts(id)
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = pos.ResetPresentationCount(id, 1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, pos.UndoDepth())

	_, err = pos.UpdateItemCount(id, 1, 4)
	require.NoError(t, err)
	changed, err = pos.ResetPresentationCount(id, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, pos.UndoDepth())
	assert.Equal(t, 0, pos.Entries()[0].Items[0].Count)

	_, err = pos.ResetProductCounts("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSessionPricesAreFixed(t *testing.T) {
	store, pos, id := newTestPOS(t, config.EmptyCloseRecord)
	_, err := pos.StartSession([]string{id})
	require.NoError(t, err)

	_, err = NewProductService(store).UpdateProduct(id, ProductInput{
		Name:          "Agua",
		PricePerLiter: 10,
		Presentations: []PresentationChoice{{PresentationID: 1}, {PresentationID: 2}},
	})
	require.NoError(t, err)

	_, err = pos.UpdateItemCount(id, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.00, pos.ComputeTotal())
}

func TestSessionSurvivesReload(t *testing.T) {
	storage := openTestStorage(t)
	store, err := NewStateStore(storage)
	require.NoError(t, err)
	id := seedWater(t, store)

	pos := NewPOSService(store, config.POSConfig{})
	_, err = pos.StartSession([]string{id})
	require.NoError(t, err)
	_, err = pos.UpdateItemCount(id, 1, 2)
	require.NoError(t, err)
	_, err = pos.UpdateItemCount(id, 1, 1)
	require.NoError(t, err)

	reloaded, err := NewStateStore(storage)
	require.NoError(t, err)
	pos2 := NewPOSService(reloaded, config.POSConfig{})
	assert.True(t, pos2.IsActive())
	assert.Equal(t, 3, pos2.Entries()[0].Items[0].Count)
	assert.Equal(t, 2, pos2.UndoDepth())

	require.NoError(t, pos2.Undo())
	assert.Equal(t, 2, pos2.Entries()[0].Items[0].Count)
}
