package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"AguaPos/app/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// BackupSchedulerService writes periodic export files and prunes old ones
type BackupSchedulerService struct {
	data    *DataService
	cfg     config.BackupConfig
	sched   *cron.Cron
	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
	lastOut string
}

// BackupStatus describes the scheduler state
type BackupStatus struct {
	Running  bool      `json:"running"`
	Enabled  bool      `json:"enabled"`
	Schedule string    `json:"schedule"`
	Dir      string    `json:"dir"`
	Keep     int       `json:"keep"`
	LastRun  time.Time `json:"last_run"`
	LastFile string    `json:"last_file"`
	LastErr  string    `json:"last_error,omitempty"`
}

// NewBackupSchedulerService creates a scheduler for the given backup settings
func NewBackupSchedulerService(data *DataService, cfg config.BackupConfig) *BackupSchedulerService {
	return &BackupSchedulerService{data: data, cfg: cfg}
}

// Start begins the scheduler
func (s *BackupSchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if !s.cfg.Enabled {
		zap.S().Info("Scheduled backups are disabled")
		return nil
	}

	sched := cron.New(cron.WithLocation(time.Local), cron.WithParser(cronParser))
	if _, err := sched.AddFunc(s.cfg.Schedule, s.runJob); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.cfg.Schedule, err)
	}
	sched.Start()

	s.sched = sched
	s.running = true
	zap.S().Infow("Backup scheduler started", "schedule", s.cfg.Schedule, "dir", s.cfg.Dir)
	return nil
}

// Stop stops the scheduler and waits for a running backup to finish
func (s *BackupSchedulerService) Stop() {
	s.mu.Lock()
	sched := s.sched
	running := s.running
	s.sched = nil
	s.running = false
	s.mu.Unlock()

	if !running || sched == nil {
		return
	}
	<-sched.Stop().Done()
	zap.S().Info("Backup scheduler stopped")
}

func (s *BackupSchedulerService) runJob() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if _, err := s.RunNow(); err != nil {
		zap.S().Errorw("Scheduled backup failed", "error", err)
	}
}

// RunNow writes a backup immediately and prunes the directory
func (s *BackupSchedulerService) RunNow() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.data.ExportToDir(s.cfg.Dir)
	s.lastRun = time.Now()
	s.lastErr = err
	if err != nil {
		return "", err
	}
	s.lastOut = path

	removed, err := PruneBackups(s.cfg.Dir, s.cfg.Keep)
	if err != nil {
		zap.S().Warnw("Failed to prune old backups", "error", err)
	}
	zap.S().Infow("Backup written", "file", path, "pruned", removed)
	return path, nil
}

// GetStatus returns the current scheduler status
func (s *BackupSchedulerService) GetStatus() BackupStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := BackupStatus{
		Running:  s.running,
		Enabled:  s.cfg.Enabled,
		Schedule: s.cfg.Schedule,
		Dir:      s.cfg.Dir,
		Keep:     s.cfg.Keep,
		LastRun:  s.lastRun,
		LastFile: s.lastOut,
	}
	if s.lastErr != nil {
		status.LastErr = s.lastErr.Error()
	}
	return status
}

// PruneBackups keeps the newest keep backup files in dir and removes the rest.
// A keep of zero or less keeps everything.
func PruneBackups(dir string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), BackupFilePrefix) || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) <= keep {
		return 0, nil
	}

	// Timestamped names sort chronologically
	sort.Strings(names)
	removed := 0
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
