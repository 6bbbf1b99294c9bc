// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultInterval is the render cadence of the animation.
	DefaultInterval = 120 * time.Millisecond
	// LowAnimationInterval is the coarser cadence for --low-animation.
	LowAnimationInterval = time.Second
)

// 🖼️ Reporter renders the copy progress on its own goroutine. It only
// ever reads State and writes to the terminal, so the copy loop is
// never delayed by rendering. The loop stops when Halt is called or,
// as a safety net, once every file is done; the final summary
// (Finish or Abort) must be rendered only after Run has returned.
type Reporter struct {
	state    *State
	interval time.Duration
	writer   io.Writer
	start    time.Time

	spinner  *pterm.SpinnerPrinter
	halt     chan struct{}
	haltOnce sync.Once
}

// 🏭 NewReporter creates a reporter over state. lowAnimation selects
// the coarser cadence.
func NewReporter(state *State, lowAnimation bool) *Reporter {
	interval := DefaultInterval
	if lowAnimation {
		interval = LowAnimationInterval
	}
	return &Reporter{
		state:    state,
		interval: interval,
		writer:   os.Stdout,
		start:    time.Now(),
		halt:     make(chan struct{}),
	}
}

// WithWriter redirects the rendering, for tests.
func (r *Reporter) WithWriter(w io.Writer) *Reporter {
	r.writer = w
	return r
}

// 🔄 Run drives the animation until Halt is called, the context is
// cancelled, or every file is done. One render and one sleep per tick;
// no lock is held across a render.
func (r *Reporter) Run(ctx context.Context) error {
	spinner, err := pterm.DefaultSpinner.
		WithWriter(r.writer).
		WithShowTimer(false).
		WithDelay(r.interval).
		Start(r.statusLine())
	if err != nil {
		return errors.Errorf("starting progress animation: %w", err)
	}
	r.spinner = spinner

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.halt:
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			spinner.UpdateText(r.statusLine())
			if r.state.TotalFiles() > 0 && r.state.CompletedFiles() >= r.state.TotalFiles() {
				return nil
			}
		}
	}
}

// Halt asks the render loop to exit. Idempotent, non-blocking.
func (r *Reporter) Halt() {
	r.haltOnce.Do(func() {
		close(r.halt)
	})
}

// Elapsed returns the time since the reporter was created.
func (r *Reporter) Elapsed() time.Duration {
	return time.Since(r.start)
}

// ✅ Finish clears the animation line and renders the completion
// summary. Call only after Run has returned.
func (r *Reporter) Finish() {
	msg := fmt.Sprintf("Copied %d/%d files (%s) in %s",
		r.state.CompletedFiles(), r.state.TotalFiles(),
		FormatBytes(r.state.CompletedBytes()), r.Elapsed().Round(100*time.Millisecond))
	if r.spinner != nil {
		r.spinner.Success(msg)
		return
	}
	pterm.Success.WithWriter(r.writer).Println(msg)
}

// ⚠️ Abort clears the animation line and renders the interruption
// summary. Call only after Run has returned.
func (r *Reporter) Abort() {
	msg := fmt.Sprintf("Interrupted: %d/%d files copied in %s, remaining files were not started and the last file may be partial",
		r.state.CompletedFiles(), r.state.TotalFiles(),
		r.Elapsed().Round(100*time.Millisecond))
	if r.spinner != nil {
		r.spinner.Warning(msg)
		return
	}
	pterm.Warning.WithWriter(r.writer).Println(msg)
}

// statusLine is the single animation line: percentage, file counter,
// byte counter, elapsed time.
func (r *Reporter) statusLine() string {
	return fmt.Sprintf("%d%% | %d/%d files | %s / %s | %s",
		r.state.Percent(),
		r.state.CompletedFiles(), r.state.TotalFiles(),
		FormatBytes(r.state.CompletedBytes()), FormatBytes(r.state.TotalBytes()),
		r.Elapsed().Round(100*time.Millisecond))
}
