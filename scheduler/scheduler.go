// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scheduler serializes every mutating operation through a single
// ordered queue. At most one entry per name is pending, and exactly the
// head entry is in flight at any time; this queue is the system's only
// mutual-exclusion mechanism.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iancoleman/orderedmap"
	"github.com/sirupsen/logrus"

	"github.com/fieldline/extman/metrics"
	"github.com/fieldline/extman/relaunch"
)

// Kind of a mutating job.
type Kind int

const (
	Install Kind = iota
	Update
	Uninstall
)

func (k Kind) String() string {
	switch k {
	case Install:
		return "install"
	case Update:
		return "update"
	case Uninstall:
		return "uninstall"
	default:
		return "unknown"
	}
}

// Job is what gets enqueued for a name.
type Job struct {
	Kind    Kind
	Payload interface{}
}

// Entry is a queued job. The ID correlates log lines across a job's
// lifetime.
type Entry struct {
	ID      string
	Name    string
	Kind    Kind
	Payload interface{}
}

// Executor runs one entry to completion. Returning a *ConvertError
// replaces the in-flight entry's job and redispatches it; returning a
// *RelaunchError freezes the scheduler for the process hand-off.
type Executor interface {
	Execute(ctx context.Context, entry *Entry) error
}

// Notifier receives the externally visible error reports. Within one
// session only the first error is delivered; the rest are logged only.
type Notifier interface {
	Notify(name string, err error)
}

// ConvertError asks the scheduler to replace the current job in place,
// keeping its queue position, instead of failing it.
type ConvertError struct {
	To    Job
	Cause error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("converting job to %s: %v", e.To.Kind, e.Cause)
}

// RelaunchError ends in-process scheduling: the entry never completes and
// the process exits with the request's reserved status.
type RelaunchError struct {
	Request relaunch.Request
}

func (e *RelaunchError) Error() string {
	return fmt.Sprintf("detaching for %s", e.Request)
}

type session int

const (
	sessionNone session = iota
	sessionClean
	sessionErrored
)

type Config struct {
	Executor Executor
	Notifier Notifier
	// OnComplete runs after each completed entry, before the next
	// dispatch. The manager refreshes installed/update state here.
	OnComplete func(entry *Entry, err error)
	// OnRelaunch is invoked once when a job diverts into the
	// process-replacement protocol.
	OnRelaunch func(req relaunch.Request)
}

type Scheduler struct {
	executor   Executor
	notifier   Notifier
	onComplete func(entry *Entry, err error)
	onRelaunch func(req relaunch.Request)
	log        *logrus.Entry

	mu      sync.Mutex
	queue   *orderedmap.OrderedMap
	session session
	running bool
	closed  bool
	idle    chan struct{} // closed whenever the worker goes idle
}

func New(config Config) *Scheduler {
	s := &Scheduler{
		executor:   config.Executor,
		notifier:   config.Notifier,
		onComplete: config.OnComplete,
		onRelaunch: config.OnRelaunch,
		log:        logrus.WithField("component", "scheduler"),
		queue:      orderedmap.New(),
		idle:       make(chan struct{}),
	}
	close(s.idle)
	return s
}

// Enqueue inserts a job for a name. It is a no-op if an entry for the name
// is already pending or the scheduler is detaching. Insertion into an
// empty queue dispatches immediately.
func (s *Scheduler) Enqueue(ctx context.Context, name string, job Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if _, ok := s.queue.Get(name); ok {
		return false
	}

	entry := &Entry{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    job.Kind,
		Payload: job.Payload,
	}
	s.queue.Set(name, entry)
	metrics.QueueDepth.Set(float64(len(s.queue.Keys())))

	s.log.WithFields(logrus.Fields{
		"extension": name,
		"kind":      job.Kind.String(),
		"job":       entry.ID,
	}).Info("queued")

	if !s.running {
		s.running = true
		s.idle = make(chan struct{})
		go s.run(ctx)
	}
	return true
}

// Pending reports whether an entry for the name is queued.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.queue.Get(name)
	return ok
}

// Wait blocks until the worker drains the queue or the context ends.
func (s *Scheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the single worker. It owns dispatch: one entry at a time, strict
// insertion order, next dispatch only after the previous entry is removed.
func (s *Scheduler) run(ctx context.Context) {
	for {
		s.mu.Lock()
		if s.closed {
			s.goIdleLocked()
			s.mu.Unlock()
			return
		}

		keys := s.queue.Keys()
		if len(keys) == 0 {
			// Queue drained: the session closes with it.
			s.session = sessionNone
			s.goIdleLocked()
			s.mu.Unlock()
			return
		}

		if s.session == sessionNone {
			s.session = sessionClean
		}

		head, _ := s.queue.Get(keys[0])
		entry := head.(*Entry)
		s.mu.Unlock()

		err := s.executor.Execute(ctx, entry)

		var convertErr *ConvertError
		var relaunchErr *RelaunchError
		switch {
		case errors.As(err, &relaunchErr):
			s.mu.Lock()
			s.closed = true
			s.goIdleLocked()
			s.mu.Unlock()
			s.log.WithField("extension", entry.Name).Info(relaunchErr.Error())
			if s.onRelaunch != nil {
				s.onRelaunch(relaunchErr.Request)
			}
			return

		case errors.As(err, &convertErr):
			// The replacement keeps the entry's head position and
			// runs before anything else dispatches.
			s.mu.Lock()
			entry.Kind = convertErr.To.Kind
			entry.Payload = convertErr.To.Payload
			s.mu.Unlock()
			s.log.WithFields(logrus.Fields{
				"extension": entry.Name,
				"job":       entry.ID,
			}).WithError(convertErr.Cause).Warn("job converted")
			continue

		case err != nil:
			metrics.JobsTotal.WithLabelValues(entry.Kind.String(), "failure").Inc()
			s.reportError(entry.Name, err)

		default:
			metrics.JobsTotal.WithLabelValues(entry.Kind.String(), "success").Inc()
		}

		s.complete(entry)
		if s.onComplete != nil {
			s.onComplete(entry, err)
		}
	}
}

func (s *Scheduler) complete(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.Delete(entry.Name)
	metrics.QueueDepth.Set(float64(len(s.queue.Keys())))
}

// reportError always logs; external delivery is suppressed after the first
// error of a session so batch operations do not spam the observer.
func (s *Scheduler) reportError(name string, err error) {
	s.log.WithField("extension", name).WithError(err).Error("job failed")

	s.mu.Lock()
	first := s.session != sessionErrored
	s.session = sessionErrored
	s.mu.Unlock()

	if first && s.notifier != nil {
		s.notifier.Notify(name, err)
	}
}

func (s *Scheduler) goIdleLocked() {
	s.running = false
	select {
	case <-s.idle:
	default:
		close(s.idle)
	}
}
