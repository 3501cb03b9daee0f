// floop-check: Syntax checker for .floop files.
//
// Parses each file without executing it. Conformance-test directives
// (# EXPECTED:, # INPUT:) are ordinary comments to the parser; a file
// whose # EXPECTED: line names a runtime error is still expected to
// parse cleanly.
//
// Usage:
//
//	floop-check FILE [FILE...]
//	floop-check --dir DIR
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"nickandperla.net/floop/internal/parser"
)

// checkResult holds the outcome of checking a single file.
type checkResult struct {
	path string
	err  error
}

func checkFile(path string) checkResult {
	content, err := os.ReadFile(path)
	if err != nil {
		return checkResult{path: path, err: fmt.Errorf("read error: %w", err)}
	}
	_, err = parser.Parse(string(content))
	return checkResult{path: path, err: err}
}

// findFloopFiles recursively finds all .floop files under dir.
func findFloopFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".floop") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: floop-check [--dir DIR] FILE [FILE...]")
		os.Exit(1)
	}

	var files []string
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--dir" {
			if i+1 >= len(os.Args) {
				fmt.Fprintln(os.Stderr, "Error: --dir requires an argument")
				os.Exit(1)
			}
			i++
			found, err := findFloopFiles(os.Args[i])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error scanning directory %s: %v\n", os.Args[i], err)
				os.Exit(1)
			}
			files = append(files, found...)
		} else {
			files = append(files, os.Args[i])
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No .floop files found")
		os.Exit(1)
	}

	passed := 0
	failed := 0

	for _, f := range files {
		result := checkFile(f)
		if result.err != nil {
			failed++
			fmt.Printf("FAIL %s\n", f)
			fmt.Printf("     %v\n", result.err)
		} else {
			passed++
			fmt.Printf("OK   %s\n", f)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Printf("Total:  %d\n", len(files))

	if failed > 0 {
		os.Exit(1)
	}
}
