// Package main is the tracelink CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"tracelink/internal/cli"
	"tracelink/internal/orchestrate"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}

// exitCode maps a classified orchestrate.Error to a distinct non-zero exit
// code per spec §7; unclassified errors (flag parsing, config loading) exit
// 1.
func exitCode(err error) int {
	var oe *orchestrate.Error
	if !errors.As(err, &oe) {
		return 1
	}
	switch oe.Kind {
	case orchestrate.KindInputNotFound:
		return 2
	case orchestrate.KindInputUnreadable:
		return 3
	case orchestrate.KindInputMalformed:
		return 4
	case orchestrate.KindSchemaMismatch:
		return 5
	case orchestrate.KindUnknownSelector:
		return 6
	default:
		return 1
	}
}
