// Copyright 2026 The rc9 Authors.
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

// Package config holds the namespace subsystem's settings: the service
// directory, the delegated tool names and the default search path. Every
// field has a compiled-in default; a TOML file can override any of them.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable pointing at an optional config
// file.
const EnvVar = "RC9_CONFIG"

// Tools names the external programs features delegate to.
type Tools struct {
	SSHFS      string `toml:"sshfs"`
	Mount      string `toml:"mount"`
	Umount     string `toml:"umount"`
	Fusermount string `toml:"fusermount"`
	NinePFuse  string `toml:"9pfuse"`
	SSH        string `toml:"ssh"`
}

// Config is the subsystem configuration.
type Config struct {
	// SrvDir is the well-known service rendezvous directory.
	SrvDir string `toml:"srv_dir"`
	// DefaultPath is the search path rfork e falls back to after clearing
	// the environment.
	DefaultPath []string `toml:"default_path"`
	// MountOptions are the sshfs options used by mount.
	MountOptions string `toml:"mount_options"`
	// ImportOptions are the sshfs options used by import.
	ImportOptions string `toml:"import_options"`
	Tools         Tools  `toml:"tools"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		SrvDir:        "/tmp/rc-srv",
		DefaultPath:   []string{"/usr/local/bin", "/usr/bin", "/bin"},
		MountOptions:  "reconnect,ServerAliveInterval=15",
		ImportOptions: "reconnect,ServerAliveInterval=15,follow_symlinks",
		Tools: Tools{
			SSHFS:      "sshfs",
			Mount:      "mount",
			Umount:     "umount",
			Fusermount: "fusermount",
			NinePFuse:  "9pfuse",
			SSH:        "ssh",
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("config %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}
	if c.SrvDir == "" {
		return nil, fmt.Errorf("config %s: srv_dir must not be empty", path)
	}
	return c, nil
}

// FromEnv loads the file named by $RC9_CONFIG, or the defaults when it is
// unset.
func FromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
