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

// Package copier copies single files, by default through a staged
// temp file and an atomic rename so the destination path is never
// observed half-written.
package copier

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// TempSuffix is appended verbatim to the destination path to name the
// staging file. No staging file survives a Copy call, on any outcome.
const TempSuffix = ".bak.tmp"

// 📋 Copy copies src to dst and returns the bytes written. The
// destination's parent directories are created if absent. In protected
// mode (fast=false) content is staged at dst+TempSuffix and renamed
// onto dst only once complete; any failure removes the staging file
// best effort before returning. In fast mode dst is written directly.
func Copy(ctx context.Context, src, dst string, fast bool) (int64, error) {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, errors.Errorf("creating destination directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("opening source %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, errors.Errorf("reading source metadata: %w", err)
	}

	target := dst
	if !fast {
		target = dst + TempSuffix
	}

	n, err := writeFile(target, in, info.Mode().Perm())
	if err != nil {
		if !fast {
			_ = os.Remove(target) // best effort, never escalated
		}
		return 0, errors.Errorf("writing %s: %w", dst, err)
	}

	if !fast {
		if err := os.Rename(target, dst); err != nil {
			_ = os.Remove(target)
			return 0, errors.Errorf("renaming onto %s: %w", dst, err)
		}
	}

	logger.Debug().Str("src", src).Str("dst", dst).Int64("bytes", n).Msg("copied file")
	return n, nil
}

func writeFile(path string, in io.Reader, perm os.FileMode) (int64, error) {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

// 🎯 Resolve computes the final destination path for one enumerated
// file:
//   - single-file source into an existing directory → dir/<basename>
//   - single-file source otherwise → destination verbatim
//   - directory source → destination/<path relative to the root>
func Resolve(srcRoot string, srcRootIsDir bool, file, dst string, dstIsDir bool) string {
	if !srcRootIsDir {
		if dstIsDir {
			return filepath.Join(dst, filepath.Base(file))
		}
		return dst
	}
	rel, err := filepath.Rel(srcRoot, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return filepath.Join(dst, rel)
}
