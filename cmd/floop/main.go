// Command floop is the floop interpreter CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/floop/pkg/floop"
)

func main() {
	var (
		evalStr   = flag.String("e", "", "Evaluate floop source string")
		dbPath    = flag.String("db", "", "SQLite procedure library path")
		inputsF   = flag.String("in", "", "Comma-separated inputs, bound to CELL(0), CELL(1), ...")
		noPrelude = flag.Bool("no-prelude", false, "Disable the standard prelude procedures")
		compile   = flag.Bool("compile", false, "Persist every DEFINE to the procedure library")
		timeout   = flag.Duration("timeout", 0, "Cancel evaluation after this duration (0 = no limit)")
	)

	flag.Parse()
	file := flag.Arg(0)

	if *compile && *dbPath == "" {
		fmt.Fprintln(os.Stderr, "-compile requires -db")
		os.Exit(1)
	}

	var opts []floop.Option
	if *dbPath != "" {
		opts = append(opts, floop.WithSQLiteStore(*dbPath))
	}
	if *noPrelude {
		opts = append(opts, floop.WithNoPrelude())
	}
	if *compile {
		opts = append(opts, floop.WithPersist())
	}

	runtime := floop.New(opts...)
	defer runtime.Close()

	inputs, err := parseInputs(*inputsF)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	var outputs []int64
	switch {
	case *evalStr != "":
		outputs, err = runtime.RunContext(ctx, *evalStr, inputs)

	case file != "":
		outputs, err = runtime.RunFileContext(ctx, file, inputs)

	case !term.IsTerminal(int(os.Stdin.Fd())):
		// Piped input
		src, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", readErr)
			os.Exit(1)
		}
		outputs, err = runtime.RunContext(ctx, string(src), inputs)

	default:
		runREPL(runtime)
		return
	}

	// Partial outputs survive runtime faults and cancellation.
	printOutputs(outputs)
	if err != nil {
		if errors.Is(err, floop.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "floop: evaluation cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// parseInputs parses the -in flag: a comma-separated list of naturals.
func parseInputs(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var inputs []int64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad input %q: inputs must be natural numbers", strings.TrimSpace(part))
		}
		if v < 0 {
			return nil, fmt.Errorf("bad input %d: inputs must be natural numbers", v)
		}
		inputs = append(inputs, v)
	}
	return inputs, nil
}

func printOutputs(outputs []int64) {
	for _, v := range outputs {
		fmt.Println(v)
	}
}
