// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package floop

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// parseDirectives extracts the leading # EXPECTED and # INPUT lines from
// a conformance file. EXPECTED lines are the program's outputs, one per
// line, or a single "Error: ..." line; INPUT is a space-separated list
// of naturals bound to CELL(0), CELL(1), ...
func parseDirectives(content string) (expected []string, input string) {
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "# EXPECTED:"):
			expected = append(expected, strings.TrimSpace(line[len("# EXPECTED:"):]))
		case strings.HasPrefix(line, "# INPUT:"):
			input = strings.TrimSpace(line[len("# INPUT:"):])
		default:
			return expected, input
		}
	}
	return expected, input
}

func parseInputDirective(t *testing.T, input string) []int64 {
	t.Helper()
	if input == "" {
		return nil
	}
	var inputs []int64
	for _, field := range strings.Fields(input) {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			t.Fatalf("bad INPUT directive %q: %v", input, err)
		}
		inputs = append(inputs, v)
	}
	return inputs
}

func TestConformance(t *testing.T) {
	files, err := filepath.Glob("../../tests/conformance/*.floop")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no conformance files found")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".floop")
		t.Run(name, func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			expected, input := parseDirectives(string(content))
			if len(expected) == 0 {
				t.Fatal("file has no # EXPECTED directives")
			}

			rt := New()
			defer rt.Close()

			outputs, runErr := rt.Run(string(content), parseInputDirective(t, input))

			if strings.HasPrefix(expected[0], "Error:") {
				wantMsg := strings.TrimSpace(strings.TrimPrefix(expected[0], "Error:"))
				if runErr == nil {
					t.Fatalf("expected error containing %q, got outputs %v", wantMsg, outputs)
				}
				if !strings.Contains(runErr.Error(), wantMsg) {
					t.Fatalf("error %q does not contain %q", runErr, wantMsg)
				}
				return
			}

			if runErr != nil {
				t.Fatalf("run: %v", runErr)
			}
			var got []string
			for _, v := range outputs {
				got = append(got, fmt.Sprintf("%d", v))
			}
			if strings.Join(got, "\n") != strings.Join(expected, "\n") {
				t.Errorf("outputs:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(expected, "\n"))
			}
		})
	}
}
