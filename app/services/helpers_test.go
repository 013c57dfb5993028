package services

import (
	"path/filepath"
	"testing"
	"time"

	"AguaPos/app/config"
	"AguaPos/app/database"
	"AguaPos/app/models"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 14, 18, 30, 0, 0, time.UTC) // Thursday

func openTestStorage(t *testing.T) *database.LocalDB {
	t.Helper()
	db, err := database.Open(config.StorageConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "aguapos.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T) *StateStore {
	t.Helper()
	store, err := NewStateStore(openTestStorage(t))
	require.NoError(t, err)
	store.SetClock(func() time.Time { return testNow })
	return store
}

func float(v float64) *float64 {
	return &v
}

// seedWater creates the "Agua" product priced at 2.00 per liter on both
// protected presentations
func seedWater(t *testing.T, store *StateStore) string {
	t.Helper()
	p, err := NewProductService(store).CreateProduct(ProductInput{
		Name:          "Agua",
		PricePerLiter: 2.00,
		Presentations: []PresentationChoice{
			{PresentationID: 1},
			{PresentationID: 2},
		},
	})
	require.NoError(t, err)
	return p.ID
}

func refWithVolume(volume float64) models.ProductPresentation {
	return models.ProductPresentation{PresentationID: 9, Name: "test", Volume: volume}
}
