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

// Package progress holds the shared copy counters and the background
// reporter that renders them to the terminal.
package progress

import (
	"fmt"
	"sync/atomic"
)

// 📊 State is the progress shared between the copy loop and the
// reporter. One writer (the copy loop, via FileDone), any number of
// readers. Totals are fixed at construction, before the reporter ever
// reads them.
type State struct {
	totalFiles     int64
	totalBytes     int64
	completedFiles atomic.Int64
	completedBytes atomic.Int64
}

// 🏭 NewState creates the counters for a run of totalFiles files
// summing totalBytes.
func NewState(totalFiles int, totalBytes int64) *State {
	return &State{
		totalFiles: int64(totalFiles),
		totalBytes: totalBytes,
	}
}

// FileDone records one successfully copied file of the given size.
// Called by the copy loop only, strictly after the copy completed.
func (s *State) FileDone(bytes int64) {
	s.completedBytes.Add(bytes)
	s.completedFiles.Add(1)
}

// CompletedFiles returns how many files have finished so far.
func (s *State) CompletedFiles() int {
	return int(s.completedFiles.Load())
}

// CompletedBytes returns how many bytes have been written so far.
func (s *State) CompletedBytes() int64 {
	return s.completedBytes.Load()
}

// TotalFiles returns the fixed file total.
func (s *State) TotalFiles() int {
	return int(s.totalFiles)
}

// TotalBytes returns the fixed byte total.
func (s *State) TotalBytes() int64 {
	return s.totalBytes
}

// Percent returns completed files as a percentage of the total, 0 when
// the total is 0.
func (s *State) Percent() int {
	if s.totalFiles == 0 {
		return 0
	}
	return int(s.completedFiles.Load() * 100 / s.totalFiles)
}

// FormatBytes renders a byte count for humans, binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
