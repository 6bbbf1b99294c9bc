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

// Package config defines the transfer request and the optional
// defaults file that seeds it.
package config

import (
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DefaultsFile is the defaults file looked up in the working directory
// when --config is not given.
const DefaultsFile = ".bak.yaml"

// 🎯 TransferRequest describes one copy run. It is immutable once
// resolved from flags, positionals, the defaults file and (if needed)
// the interactive prompt.
type TransferRequest struct {
	Source       string   // file or directory to copy
	Destination  string   // where the copy should land
	Verbose      bool     // print a success line per copied file
	FastMode     bool     // skip temp-file staging
	LowAnimation bool     // coarser progress cadence
	Excludes     []string // doublestar patterns, matched root-relative
}

// Validate checks that the request is runnable.
func (r *TransferRequest) Validate() error {
	if r.Source == "" {
		return errors.Errorf("source path is required")
	}
	if r.Destination == "" {
		return errors.Errorf("destination path is required")
	}
	return nil
}

// 🔧 Defaults holds the optional settings read from a .bak.yaml file.
// Pointer fields distinguish "unset" from an explicit false.
type Defaults struct {
	Verbose      *bool    `yaml:"verbose,omitempty"`
	FastMode     *bool    `yaml:"fast_mode,omitempty"`
	LowAnimation *bool    `yaml:"low_animation,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
}

// 📝 LoadDefaults parses the defaults file at path. A missing file is
// not an error; flags always win over anything loaded here.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, errors.Errorf("reading defaults file: %w", err)
	}

	var d Defaults
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	return &d, nil
}

// Apply copies every set default onto req. Callers overwrite with
// explicit flag values afterwards.
func (d *Defaults) Apply(req *TransferRequest) {
	if d.Verbose != nil {
		req.Verbose = *d.Verbose
	}
	if d.FastMode != nil {
		req.FastMode = *d.FastMode
	}
	if d.LowAnimation != nil {
		req.LowAnimation = *d.LowAnimation
	}
	if len(d.Exclude) > 0 {
		req.Excludes = append(req.Excludes, d.Exclude...)
	}
}
