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
	"fmt"
	"os"

	units "github.com/docker/go-units"
)

type Settings struct {
	MaxDepth      int    // maximum nesting of term evaluations, 0 = unlimited
	MaxSourceSize int64  // maximum source text in bytes, 0 = unlimited
	Warnings      bool   // log residual token warnings
	TraceDir      string // folder for trace files
	HistoryFile   string // readline history of the REPL
}

func DefaultSettings() Settings {
	s := Settings{
		MaxDepth:      10000,
		MaxSourceSize: 1 << 20,
		Warnings:      true,
		TraceDir:      os.Getenv("AWFUL_TRACEDIR"),
		HistoryFile:   ".awful-history.tmp",
	}
	if h, ok := os.LookupEnv("AWFUL_HISTORY"); ok {
		s.HistoryFile = h
	}
	return s
}

// ParseSize accepts human readable sizes like "64KiB", "1MB" or "4096"
func ParseSize(s string) (int64, error) {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", s)
	}
	return n, nil
}

func HumanSize(n int64) string {
	return units.BytesSize(float64(n))
}

// checkSourceSize fails with LimitError when n exceeds MaxSourceSize
func (s Settings) checkSourceSize(n int64) error {
	if s.MaxSourceSize > 0 && n > s.MaxSourceSize {
		return newError(LimitError, Position{}, "source of %s exceeds the limit of %s", HumanSize(n), HumanSize(s.MaxSourceSize))
	}
	return nil
}

func (s Settings) String() string {
	size := "unlimited"
	if s.MaxSourceSize > 0 {
		size = HumanSize(s.MaxSourceSize)
	}
	depth := "unlimited"
	if s.MaxDepth > 0 {
		depth = fmt.Sprint(s.MaxDepth)
	}
	return fmt.Sprintf("MaxDepth=%s MaxSourceSize=%s Warnings=%v", depth, size, s.Warnings)
}
