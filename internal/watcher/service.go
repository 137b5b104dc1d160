// Package watcher runs the poll loop: one full scan per tick, reporting and
// recording only when the derived per-target state changes.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SpeedsterCollective/Tweeks/internal/config"
	"github.com/SpeedsterCollective/Tweeks/internal/database"
	"github.com/SpeedsterCollective/Tweeks/internal/models"
	"github.com/SpeedsterCollective/Tweeks/pkg/matcher"
	"github.com/SpeedsterCollective/Tweeks/pkg/target"
)

// Scanner produces a fresh snapshot per call and accepts rule reloads.
// *matcher.Matcher satisfies it.
type Scanner interface {
	Snapshot() matcher.Snapshot
	SetTargets([]target.Target)
}

// Service polls the scanner on a fixed interval and emits on change only.
type Service struct {
	config    *config.Config
	scanner   Scanner
	repo      *database.Repository // nil when history recording is off
	out       io.Writer
	listeners []func(matcher.Snapshot)
	stopChan  chan struct{}
	running   bool
	last      matcher.StateSummary
	now       func() time.Time
}

// NewService builds the watch loop. repo may be nil (plain --watch mode);
// out receives the state-change reports.
func NewService(cfg *config.Config, scanner Scanner, repo *database.Repository, out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	return &Service{
		config:   cfg,
		scanner:  scanner,
		repo:     repo,
		out:      out,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// AddListener registers a callback invoked with the fresh snapshot on every
// state change.
func (s *Service) AddListener(fn func(matcher.Snapshot)) {
	s.listeners = append(s.listeners, fn)
}

// Start runs the loop until the context is cancelled or Stop is called.
// The first scan happens immediately, not after the first tick.
func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("watcher is already running")
	}

	s.running = true
	log.Printf("Starting watcher with %v poll interval", s.config.Scanner.PollInterval)

	if s.config.Rules.Path != "" {
		go s.watchRules(ctx)
	}

	ticker := time.NewTicker(s.config.Scanner.PollInterval)
	defer ticker.Stop()

	s.scanOnce()

	for {
		select {
		case <-ctx.Done():
			log.Println("Watcher stopped by context")
			s.running = false
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Watcher stopped")
			s.running = false
			return nil

		case <-ticker.C:
			s.scanOnce()
		}
	}
}

// Stop ends the loop.
func (s *Service) Stop() {
	if s.running {
		close(s.stopChan)
	}
}

// IsRunning reports whether the loop is active.
func (s *Service) IsRunning() bool {
	return s.running
}

// scanOnce takes one snapshot and, when the state summary differs from the
// previous one, prints the report, records transitions, and notifies
// listeners.
func (s *Service) scanOnce() {
	snap := s.scanner.Snapshot()

	if s.last != nil && s.last.Equal(snap.State) {
		return
	}

	ts := s.now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(s.out, "[%s] State change:\n%s\n---\n", ts, snap.Report)

	s.recordTransitions(s.last, snap)
	for _, fn := range s.listeners {
		fn(snap)
	}

	s.last = snap.State
}

// recordTransitions writes one SessionEvent per target whose state moved.
// Targets never seen before are treated as previously not-running.
func (s *Service) recordTransitions(prev matcher.StateSummary, snap matcher.Snapshot) {
	if s.repo == nil {
		return
	}

	for name, state := range snap.State {
		from := matcher.StateNotRunning
		if prev != nil {
			if p, ok := prev[name]; ok {
				from = p
			}
		}
		if from == state {
			continue
		}

		version := ""
		for _, pm := range snap.Targets[name] {
			if pm.Version != "" {
				version = pm.Version
				break
			}
		}

		event := &models.SessionEvent{
			Timestamp: s.now(),
			Target:    name,
			FromState: from,
			ToState:   state,
			IsWine:    state == matcher.StateWine,
			Version:   version,
		}

		if err := s.repo.Create(event); err != nil {
			s.storeError(err)
		}
	}
}

func (s *Service) storeError(err error) {
	if s.repo == nil {
		log.Printf("Watcher error: %v", err)
		return
	}

	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		ErrorMsg:  err.Error(),
	}

	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	} else {
		log.Printf("Error logged to database: %v", err)
	}
}

// watchRules reloads the detection-rules file when it changes. The parent
// directory is watched because editors replace rather than rewrite files.
func (s *Service) watchRules(ctx context.Context) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Rules watch unavailable: %v", err)
		return
	}
	defer w.Close()

	dir := filepath.Dir(s.config.Rules.Path)
	if err := w.Add(dir); err != nil {
		log.Printf("Rules watch unavailable for %s: %v", dir, err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Name != s.config.Rules.Path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.reloadRules()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Rules watch error: %v", err)
		}
	}
}

func (s *Service) reloadRules() {
	rules, err := config.LoadRules(s.config.Rules.Path)
	if err != nil {
		log.Printf("Failed to reload detection rules: %v", err)
		return
	}
	s.scanner.SetTargets(rules.Targets())
	log.Printf("Detection rules reloaded from %s", s.config.Rules.Path)
}
