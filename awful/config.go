/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package awful

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// settingsFile is the YAML form of Settings; absent keys keep their value
type settingsFile struct {
	MaxDepth      *int    `yaml:"max_depth"`
	MaxSourceSize *string `yaml:"max_source_size"`
	Warnings      *bool   `yaml:"warnings"`
	TraceDir      *string `yaml:"trace_dir"`
	HistoryFile   *string `yaml:"history_file"`
}

// LoadSettings reads a YAML settings file on top of base:
//
//	max_depth: 5000
//	max_source_size: 256KiB
//	warnings: false
//	trace_dir: /tmp
//	history_file: ~/.awful-history
func LoadSettings(path string, base Settings) (Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("settings: open %s: %w", path, err)
	}
	defer file.Close()
	return DecodeSettings(file, base)
}

func DecodeSettings(r io.Reader, base Settings) (Settings, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw settingsFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("settings: %w", err)
	}

	s := base
	var issues []string
	if raw.MaxDepth != nil {
		if *raw.MaxDepth < 0 {
			issues = append(issues, "max_depth must not be negative")
		}
		s.MaxDepth = *raw.MaxDepth
	}
	if raw.MaxSourceSize != nil {
		n, err := ParseSize(*raw.MaxSourceSize)
		if err != nil {
			issues = append(issues, "max_source_size: "+err.Error())
		}
		s.MaxSourceSize = n
	}
	if raw.Warnings != nil {
		s.Warnings = *raw.Warnings
	}
	if raw.TraceDir != nil {
		s.TraceDir = *raw.TraceDir
	}
	if raw.HistoryFile != nil {
		s.HistoryFile = *raw.HistoryFile
	}
	if len(issues) > 0 {
		return base, fmt.Errorf("settings: %s", strings.Join(issues, "; "))
	}
	return s, nil
}
