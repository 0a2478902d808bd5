// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config handles stackvm.toml configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/consensys/go-stackvm/pkg/vm"
)

// FILENAME is the name of the configuration file searched for.
const FILENAME = "stackvm.toml"

// Config represents a stackvm.toml configuration.
type Config struct {
	Execution Execution `toml:"execution"`
	Output    Output    `toml:"output"`

	// Path is the file from which this configuration was loaded, or empty if
	// defaults are being used.
	Path string `toml:"-"`
}

// Execution configures how programs are executed.
type Execution struct {
	// Maximum number of instructions to execute (zero is unbounded).
	Budget uint `toml:"budget"`
	// Number of instructions executed between termination checks.
	Chunk uint `toml:"chunk"`
}

// Output configures how results are reported.
type Output struct {
	// Print every executed instruction along with the stack.
	Trace bool `toml:"trace"`
	// Colour trace output when writing to a terminal.
	Color bool `toml:"color"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Execution: Execution{Budget: 0, Chunk: vm.DEFAULT_CHUNK},
		Output:    Output{Trace: false, Color: true},
	}
}

// Load parses a configuration file.  Keys missing from the file retain their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	//
	config := Default()
	//
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	//
	if config.Execution.Chunk == 0 {
		return nil, fmt.Errorf("invalid configuration in %s: chunk must be positive", path)
	}
	//
	config.Path = path
	//
	return config, nil
}

// FindAndLoad walks up from startDir looking for a stackvm.toml file, and
// loads the first one found.  If there is none, the default configuration is
// returned.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}
	//
	for {
		path := filepath.Join(dir, FILENAME)
		//
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		//
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		//
		dir = parent
	}
}
