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

// Package interrupt translates an operator interrupt (SIGINT/SIGTERM)
// into a flag the copy loop can poll between files.
package interrupt

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
)

// 🎯 Monitor watches for the first interrupt signal of the process.
// Its listener goroutine exits after that first signal; later signals
// have no additional effect. Observers either poll Interrupted or
// select on Done, both safe from any goroutine.
type Monitor struct {
	interrupted atomic.Bool
	done        chan struct{}
	sigs        chan os.Signal
	once        sync.Once
}

// 🏭 NewMonitor installs the signal listener. Call Stop to release the
// registration when the run is over.
func NewMonitor(ctx context.Context) *Monitor {
	m := &Monitor{
		done: make(chan struct{}),
		sigs: make(chan os.Signal, 2),
	}
	signal.Notify(m.sigs, os.Interrupt, syscall.SIGTERM)

	logger := zerolog.Ctx(ctx)
	go func() {
		sig, ok := <-m.sigs
		if !ok {
			return
		}
		logger.Warn().Str("signal", sig.String()).Msg("interrupt received, stopping after current file")
		m.trip()
	}()
	return m
}

func (m *Monitor) trip() {
	m.once.Do(func() {
		m.interrupted.Store(true)
		close(m.done)
	})
}

// Trigger requests a stop programmatically, as if a signal arrived.
// Idempotent.
func (m *Monitor) Trigger() {
	m.trip()
}

// Interrupted reports whether a stop was requested. Non-blocking.
func (m *Monitor) Interrupted() bool {
	return m.interrupted.Load()
}

// Done is closed once a stop has been requested.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Stop releases the signal registration. The listener goroutine ends
// with it if no signal ever arrived.
func (m *Monitor) Stop() {
	signal.Stop(m.sigs)
	close(m.sigs)
}
