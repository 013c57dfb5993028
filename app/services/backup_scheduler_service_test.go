package services

import (
	"os"
	"path/filepath"
	"testing"

	"AguaPos/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneBackups(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"aguapos-backup-2024-03-10-220000.json",
		"aguapos-backup-2024-03-11-220000.json",
		"aguapos-backup-2024-03-12-220000.json",
		"aguapos-backup-2024-03-13-220000.json",
		"notes.txt",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}

	removed, err := PruneBackups(dir, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{names[2], names[3], "notes.txt"}, left)

	removed, err = PruneBackups(dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestBackupRunNow(t *testing.T) {
	store := newTestStore(t)
	seedWater(t, store)
	dir := filepath.Join(t.TempDir(), "backups")

	scheduler := NewBackupSchedulerService(NewDataService(store), config.BackupConfig{Dir: dir, Keep: 3})
	path, err := scheduler.RunNow()
	require.NoError(t, err)
	assert.FileExists(t, path)

	status := scheduler.GetStatus()
	assert.Equal(t, path, status.LastFile)
	assert.False(t, status.Running)
	assert.Empty(t, status.LastErr)
}

func TestBackupSchedulerLifecycle(t *testing.T) {
	store := newTestStore(t)
	data := NewDataService(store)

	disabled := NewBackupSchedulerService(data, config.BackupConfig{Enabled: false, Schedule: "@daily"})
	require.NoError(t, disabled.Start())
	assert.False(t, disabled.GetStatus().Running)

	invalid := NewBackupSchedulerService(data, config.BackupConfig{Enabled: true, Schedule: "not a schedule"})
	assert.Error(t, invalid.Start())

	scheduler := NewBackupSchedulerService(data, config.BackupConfig{Enabled: true, Schedule: "@daily", Dir: t.TempDir()})
	require.NoError(t, scheduler.Start())
	assert.True(t, scheduler.GetStatus().Running)
	assert.Error(t, scheduler.Start())

	scheduler.Stop()
	assert.False(t, scheduler.GetStatus().Running)
	scheduler.Stop()
}
