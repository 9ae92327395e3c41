// Command conformance runs third-party JSON conformance fixtures
// (SingleStepTests/680x0-shaped for the M68k core, jsmoo-Z80-v1-shaped
// for the Z80 core) against the two CPU interpreters and reports a
// pass/fail summary, exiting 0 iff every selected case passed.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFilter     string
	flagOnly       string
	flagDebug      bool
	flagQuiet      bool
	flagTiming     bool
	flagTestsuite  string
	flagExceptions string
)

var rootCmd = &cobra.Command{
	Use:   "conformance",
	Short: "Run SingleStepTests/680x0 and jsmoo Z80 conformance suites",
	Long: `conformance drives the M68k and Z80 interpreters against third-party
per-instruction JSON test corpora (SingleStepTests/680x0 for cpu/m68k,
jsmoo's Z80 v1 suite for cpu/z80), one CPU instance per test case.

The suite's shape is auto-detected from the first test record's fields:
a record with "d0" is M68k (SingleStepTests), a record with "af" is Z80
(jsmoo). A --testsuite directory is expected to contain only one shape.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagTestsuite == "" {
			return fmt.Errorf("--testsuite PATH is required")
		}
		mode, err := parseExceptionsMode(flagExceptions)
		if err != nil {
			return err
		}
		opts := runOptions{
			dir:        flagTestsuite,
			filter:     flagFilter,
			only:       flagOnly,
			debug:      flagDebug,
			quiet:      flagQuiet,
			timing:     flagTiming,
			exceptions: mode,
		}

		arch, err := detectSuite(opts.dir)
		if err != nil {
			return err
		}

		var summary runSummary
		switch arch {
		case suiteM68k:
			summary, err = runM68kSuite(opts)
		case suiteZ80:
			summary, err = runZ80Suite(opts)
		}
		if err != nil {
			return err
		}

		if !flagQuiet {
			fmt.Printf("\n%d passed, %d failed, %d skipped (%d files)\n",
				summary.passed, summary.failed, summary.skipped, summary.files)
		}
		if summary.failed > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagFilter, "filter", "", "only run JSON files whose base name has this prefix")
	rootCmd.Flags().StringVar(&flagOnly, "only", "", "only run the test case with this exact name")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "print a register/memory diff for every failing case")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "suppress per-file progress output")
	rootCmd.Flags().BoolVar(&flagTiming, "timing", false, "also check the reported cycle count for every case")
	rootCmd.Flags().StringVar(&flagTestsuite, "testsuite", "", "directory of conformance JSON files (required)")
	rootCmd.Flags().StringVar(&flagExceptions, "exceptions", "include", "exception-case handling: include|exclude|exclude-addr|only")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "conformance: %v\n", err)
		os.Exit(1)
	}
}

// exceptionsMode selects how files/cases touching CPU exception paths
// (bus/address error, CHK, TRAP, divide-by-zero, illegal opcode, ...)
// are treated relative to the rest of the suite.
type exceptionsMode int

const (
	exceptionsInclude exceptionsMode = iota
	exceptionsExclude
	exceptionsExcludeAddr
	exceptionsOnly
)

func parseExceptionsMode(s string) (exceptionsMode, error) {
	switch s {
	case "", "include":
		return exceptionsInclude, nil
	case "exclude":
		return exceptionsExclude, nil
	case "exclude-addr":
		return exceptionsExcludeAddr, nil
	case "only":
		return exceptionsOnly, nil
	default:
		return 0, fmt.Errorf("--exceptions: unknown mode %q (want include|exclude|exclude-addr|only)", s)
	}
}

type runOptions struct {
	dir        string
	filter     string
	only       string
	debug      bool
	quiet      bool
	timing     bool
	exceptions exceptionsMode
}

type runSummary struct {
	files   int
	passed  int
	failed  int
	skipped int
}

type suiteKind int

const (
	suiteM68k suiteKind = iota
	suiteZ80
)
