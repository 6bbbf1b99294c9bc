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

// Package operation runs one whole transfer: enumerate, aggregate,
// copy with a live progress animation, summarize.
package operation

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/bak/pkg/config"
	"github.com/walteh/bak/pkg/copier"
	"github.com/walteh/bak/pkg/interrupt"
	"github.com/walteh/bak/pkg/progress"
	"github.com/walteh/bak/pkg/scan"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🎯 Phase is where a run currently is, or how it ended.
type Phase int

const (
	PhaseEnumerating Phase = iota
	PhaseAggregating
	PhaseCopying
	PhaseFinishing
	PhaseCompleted
	PhaseInterrupted
)

// String returns a string representation of Phase
func (p Phase) String() string {
	switch p {
	case PhaseEnumerating:
		return "enumerating"
	case PhaseAggregating:
		return "aggregating"
	case PhaseCopying:
		return "copying"
	case PhaseFinishing:
		return "finishing"
	case PhaseCompleted:
		return "completed"
	case PhaseInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// 🔧 Options contains everything a run needs. Monitor and Out exist so
// tests can inject a triggerable monitor and capture output; both
// default to the real thing.
type Options struct {
	Request config.TransferRequest
	Monitor *interrupt.Monitor
	Out     io.Writer
}

// 📊 Result summarizes a finished run. Phase is PhaseCompleted or
// PhaseInterrupted; both are graceful. Per-file failures land in
// Failed and never abort the run.
type Result struct {
	Phase      Phase
	Copied     int
	Failed     int
	TotalFiles int
	TotalBytes int64
}

// 🔄 Run executes the transfer described by opts.Request. The only
// fatal outcome is an enumeration failure (or an invalid request);
// everything after that point resolves to a Result.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	req := opts.Request

	if err := req.Validate(); err != nil {
		return nil, errors.Errorf("validating request: %w", err)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	// Enumerating
	files, err := scan.Enumerate(ctx, req.Source, req.Excludes)
	if err != nil {
		return nil, errors.Errorf("enumerating source: %w", err)
	}

	// Aggregating: best effort, never fatal.
	totalBytes := scan.TotalSize(files)

	srcInfo, err := os.Stat(req.Source)
	if err != nil {
		return nil, errors.Errorf("reading source path %s: %w", req.Source, err)
	}
	dstInfo, err := os.Stat(req.Destination)
	dstIsDir := err == nil && dstInfo.IsDir()

	pterm.Info.WithWriter(out).Printfln("Copying %d files (%s) from %s to %s",
		len(files), progress.FormatBytes(totalBytes), req.Source, req.Destination)

	monitor := opts.Monitor
	if monitor == nil {
		monitor = interrupt.NewMonitor(ctx)
		defer monitor.Stop()
	}

	// The reporter starts only after the totals are final.
	state := progress.NewState(len(files), totalBytes)
	reporter := progress.NewReporter(state, req.LowAnimation).WithWriter(out)
	var g errgroup.Group
	g.Go(func() error {
		return reporter.Run(ctx)
	})

	okLine := color.New(color.FgGreen)
	failLine := color.New(color.FgRed)

	// Copying. The monitor is polled before each file; an interrupt
	// never cuts off an in-flight copy.
	var copied, failed int
	interrupted := false
	for _, f := range files {
		if monitor.Interrupted() {
			interrupted = true
			break
		}

		dst := copier.Resolve(req.Source, srcInfo.IsDir(), f.Path, req.Destination, dstIsDir)
		n, err := copier.Copy(ctx, f.Path, dst, req.FastMode)
		if err != nil {
			failed++
			failLine.Fprintf(out, "✗ %s: %v\n", f.Path, err)
			logger.Error().Err(err).Str("file", f.Path).Msg("copy failed, continuing")
			continue
		}

		state.FileDone(n)
		copied++
		if req.Verbose {
			okLine.Fprintf(out, "✓ %s\n", f.Path)
		}
	}

	// Finishing: the summary renders only after the animation loop has
	// actually exited, so it cannot be overwritten by a late frame.
	reporter.Halt()
	if err := g.Wait(); err != nil {
		logger.Warn().Err(err).Msg("progress reporter failed")
	}

	res := &Result{
		Copied:     copied,
		Failed:     failed,
		TotalFiles: len(files),
		TotalBytes: totalBytes,
	}
	if interrupted {
		reporter.Abort()
		res.Phase = PhaseInterrupted
	} else {
		reporter.Finish()
		res.Phase = PhaseCompleted
	}
	return res, nil
}
