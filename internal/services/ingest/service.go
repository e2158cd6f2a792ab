// Package ingest loads the registration dataset into the store and keeps it
// in sync with the file on disk.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/j-veylop/vahan-dashboard-tui/internal/dataset"
	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
	"github.com/j-veylop/vahan-dashboard-tui/internal/synth"
)

// Store persists imported datasets.
type Store interface {
	ReplaceRegistrations(ctx context.Context, records []models.RegistrationRecord, run *models.ImportRun) error
	LatestChecksum(ctx context.Context, source string) (string, error)
}

// Options configures a Service.
type Options struct {
	DatasetPath string
	// SyntheticYears of data are generated when the dataset is missing.
	// Zero disables generation.
	SyntheticYears int
	SyntheticSeed  uint64
	// Debounce delays re-imports after file changes.
	Debounce time.Duration
	// Watch enables file watching.
	Watch bool
	Now   func() time.Time
}

const (
	defaultDebounce = 250 * time.Millisecond
	readRetries     = 4
	readRetryDelay  = 50 * time.Millisecond
)

// Event represents an ingest service event.
type Event struct {
	Type  EventType
	Run   *models.ImportRun
	Error error
}

// EventType defines the type of ingest event.
type EventType int

const (
	EventImported EventType = iota
	EventUnchanged
	EventGenerated
	EventError
)

// Result describes one import attempt.
type Result struct {
	Run       *models.ImportRun
	Unchanged bool
}

// Service imports the dataset file and watches it for changes.
type Service struct {
	store Store
	opts  Options

	importMu sync.Mutex

	mu            sync.Mutex
	lastRun       *models.ImportRun
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer

	eventChan chan Event
	stopChan  chan struct{}
	closeOnce sync.Once
}

// New creates the service, generating a synthetic dataset first when the
// file is missing, and starts watching when enabled.
func New(store Store, opts Options) (*Service, error) {
	if opts.DatasetPath == "" {
		return nil, errors.New("dataset path is required")
	}
	if _, err := dataset.FormatOf(opts.DatasetPath); err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Service{
		store:     store,
		opts:      opts,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(opts.DatasetPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	if err := s.ensureDataset(); err != nil {
		return nil, err
	}

	if opts.Watch {
		if err := s.startWatcher(); err != nil {
			return nil, fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	return s, nil
}

// Events returns the event channel for subscribing to imports.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// DatasetPath returns the watched file.
func (s *Service) DatasetPath() string {
	return s.opts.DatasetPath
}

// LastRun returns the most recent successful import of this session.
func (s *Service) LastRun() *models.ImportRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return nil
	}
	run := *s.lastRun
	return &run
}

// ensureDataset writes a synthetic dataset when none exists.
func (s *Service) ensureDataset() error {
	if _, err := os.Stat(s.opts.DatasetPath); err == nil || !os.IsNotExist(err) {
		return err
	}
	if s.opts.SyntheticYears <= 0 {
		return nil
	}

	records := synth.Generate(synth.LastYears(s.opts.SyntheticYears, s.opts.Now(), s.opts.SyntheticSeed))
	if err := dataset.WriteFile(s.opts.DatasetPath, records); err != nil {
		return fmt.Errorf("failed to write synthetic dataset: %w", err)
	}

	logger.Info("generated synthetic dataset",
		"path", s.opts.DatasetPath, "years", s.opts.SyntheticYears, "records", len(records))
	s.sendEvent(Event{Type: EventGenerated})
	return nil
}

// Import loads the dataset into the store. Unless force is set, a file whose
// checksum matches the last import of the same path is skipped.
func (s *Service) Import(ctx context.Context, force bool) (*Result, error) {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	source := s.opts.DatasetPath
	format, err := dataset.FormatOf(source)
	if err != nil {
		return nil, err
	}

	var (
		data    []byte
		records []models.RegistrationRecord
	)
	err = backoff.Retry(
		func() error {
			var readErr error
			data, readErr = os.ReadFile(source)
			if readErr != nil {
				if os.IsNotExist(readErr) {
					return backoff.Permanent(readErr)
				}
				return readErr
			}
			// A writer may still be mid-file; retry parse failures.
			records, readErr = dataset.Decode(format, data)
			return readErr
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(readRetryDelay), readRetries),
			ctx,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", filepath.Base(source), err)
	}

	checksum := Checksum(data)
	if !force {
		last, err := s.store.LatestChecksum(ctx, source)
		if err != nil {
			return nil, err
		}
		if last == checksum {
			logger.Debug("dataset unchanged", "path", source)
			return &Result{Unchanged: true}, nil
		}
	}

	run := &models.ImportRun{
		ID:          uuid.NewString(),
		Source:      source,
		Checksum:    checksum,
		RecordCount: len(records),
		ImportedAt:  s.opts.Now().UTC().Truncate(time.Second),
	}
	for _, rec := range records {
		run.Registrations += rec.Count
	}

	if err := s.store.ReplaceRegistrations(ctx, records, run); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()

	logger.Info("imported dataset", "path", source, "records", run.RecordCount, "run", run.ID)
	copied := *run
	return &Result{Run: &copied}, nil
}

// Checksum returns the hex SHA-256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation and atomic renames)
	dir := filepath.Dir(s.opts.DatasetPath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	name := filepath.Base(s.opts.DatasetPath)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != name {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(s.opts.Debounce, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange re-imports the dataset after an external change.
func (s *Service) handleFileChange() {
	select {
	case <-s.stopChan:
		return
	default:
	}

	if _, err := os.Stat(s.opts.DatasetPath); os.IsNotExist(err) {
		// Renamed away; the replacement will trigger its own event.
		return
	}

	result, err := s.Import(context.Background(), false)
	if err != nil {
		logger.Warn("dataset import failed", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	if result.Unchanged {
		s.sendEvent(Event{Type: EventUnchanged})
		return
	}
	s.sendEvent(Event{Type: EventImported, Run: result.Run})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}
