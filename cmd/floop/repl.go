package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"nickandperla.net/floop/pkg/floop"
)

const historyFile = ".floop_history"

func printBanner() {
	fmt.Println("floop REPL (Ctrl+D to exit)")
	fmt.Println()
	fmt.Println("Enter statements (CELL(0) <= 1;), procedure definitions, or :quit.")
	fmt.Println("Multi-line constructs continue until their closing BLOCK n: END.")
	fmt.Println()
}

func runREPL(runtime *floop.Runtime) {
	session, err := runtime.NewSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printBanner()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readByParseProbe(ln, ">>> ", "... ")
		if !ok {
			fmt.Println()
			return
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return
		}

		outputs, err := session.Eval(code)
		for _, v := range outputs {
			fmt.Println(v)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe reads lines until the accumulated input parses, or
// fails to parse for a reason other than ending too early.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" || strings.TrimSpace(src) == ":quit" {
			return src, true
		}
		if !floop.Incomplete(src) {
			return src, true
		}
	}
}
