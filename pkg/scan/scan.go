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

// Package scan enumerates the regular files under a source path and
// aggregates their sizes for progress scaling.
package scan

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 File is one enumerated regular file. Size is captured at
// enumeration time and is best effort: a file whose metadata cannot be
// read contributes zero. It only feeds display scaling.
type File struct {
	Path string // absolute-ish path as discovered under the root
	Size int64
}

// 🔍 Enumerate lists the regular files denoted by root, depth-first:
// within a directory, files are appended in iteration order and
// subdirectories are expanded in place, so one subtree's files are
// contiguous. Symlinks and other special entries are skipped silently.
// Exclude patterns are doublestar globs matched against the
// root-relative path; a matching directory prunes its whole subtree.
//
// An unreadable root (or an unreadable directory found during the
// walk) is a fatal error: the caller must not copy anything from a
// partial enumeration.
func Enumerate(ctx context.Context, root string, excludes []string) ([]File, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("reading source path %s: %w", root, err)
	}

	if info.Mode().IsRegular() {
		if excluded(excludes, filepath.Base(root)) {
			return nil, nil
		}
		return []File{{Path: root, Size: info.Size()}}, nil
	}
	if !info.IsDir() {
		return nil, nil
	}

	files, err := walk(root, root, excludes)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("files", len(files)).Str("root", root).Msg("enumerated source")
	return files, nil
}

func walk(root, dir string, excludes []string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Errorf("reading directory %s: %w", dir, err)
	}

	var files []File
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = entry.Name()
		}
		if excluded(excludes, rel) {
			continue
		}

		switch {
		case entry.Type().IsRegular():
			var size int64
			if info, err := entry.Info(); err == nil {
				size = info.Size()
			}
			files = append(files, File{Path: path, Size: size})
		case entry.IsDir():
			sub, err := walk(root, path, excludes)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		default:
			// symlink, fifo, socket, device: skipped
		}
	}
	return files, nil
}

func excluded(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// 📊 TotalSize sums the enumerated sizes. Display scaling only; never
// a correctness input.
func TotalSize(files []File) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}
