// Command bfdl is the thin CLI front-end spec.md §6 specifies a contract
// for: given a format description (a built-in name or a path to a .bfdl
// file) and an input (a path, or stdin if omitted), it prints the
// evaluated value as canonical JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/binspec/bfdl"
	"github.com/binspec/bfdl/builtins"
	"github.com/binspec/bfdl/eval"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code directly rather than calling os.Exit
// itself, so main stays a one-line wrapper testable-by-inspection.
func run() int {
	var (
		format     string
		listOnly   bool
		entry      string
		jsonIndent string
	)

	rootCmd := &cobra.Command{
		Use:   "bfdl [input-file]",
		Short: "Evaluate a binary format description against an input",
		Long: `bfdl parses bytes according to a format description written in the
binary format description language (BFDL) and prints the resulting value
tree as JSON. The input file is read from the given path, or from stdin
if omitted. The format is either the name of a built-in description
(see --list) or a path to a .bfdl file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listOnly {
				for _, name := range builtins.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			if format == "" {
				return userError{fmt.Errorf("--format is required unless --list is given")}
			}

			var inputPath string
			if len(args) == 1 {
				inputPath = args[0]
			}
			return runEval(cmd, format, entry, jsonIndent, inputPath)
		},
	}

	rootCmd.Flags().StringVarP(&format, "format", "f", "", "built-in format name or path to a .bfdl file")
	rootCmd.Flags().BoolVar(&listOnly, "list", false, "print built-in format names and exit")
	rootCmd.Flags().StringVar(&entry, "entry", "", "entry point name (defaults to the description's first declaration)")
	rootCmd.Flags().StringVar(&jsonIndent, "json-indent", "", "indent string for pretty-printed JSON (default: compact)")
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bfdl:", err)
		if _, ok := err.(userError); ok {
			return 1
		}
		return 2
	}
	return 0
}

// userError marks an exit-code-1 condition (spec.md §6: "1 user error
// (unknown format, unreadable file)"), distinct from a parse/evaluation
// failure which exits 2.
type userError struct{ error }

func (u userError) Unwrap() error { return u.error }

func loadSource(format string) (name string, src []byte, err error) {
	if builtinSrc, ok := builtins.Load(format); ok {
		return format, []byte(builtinSrc), nil
	}
	data, err := os.ReadFile(format)
	if err != nil {
		return "", nil, userError{fmt.Errorf("reading format %q: %w", format, err)}
	}
	return format, data, nil
}

func loadInput(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, userError{fmt.Errorf("reading stdin: %w", err)}
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, userError{fmt.Errorf("reading input %q: %w", path, err)}
	}
	return data, nil
}

func runEval(cmd *cobra.Command, format, entry, jsonIndent, inputPath string) error {
	name, src, err := loadSource(format)
	if err != nil {
		return err
	}
	desc := bfdl.Compile(name, src)
	if !desc.OK() {
		for _, e := range desc.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
		}
		return fmt.Errorf("%d error(s) compiling %s", len(desc.Errors), name)
	}

	if entry == "" {
		points := desc.EntryPoints()
		if len(points) == 0 {
			return fmt.Errorf("description %s declares no entry points", name)
		}
		entry = points[0]
	}

	input, err := loadInput(inputPath)
	if err != nil {
		return err
	}

	result := desc.Eval(entry, eval.NewMemInput(input), 0)
	for _, e := range result.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w.Error())
	}
	if result.Value == nil {
		return fmt.Errorf("evaluation of %s produced no value", entry)
	}

	var out []byte
	if jsonIndent != "" {
		out, err = json.MarshalIndent(result.Value, "", jsonIndent)
	} else {
		out, err = json.Marshal(result.Value)
	}
	if err != nil {
		return fmt.Errorf("encoding result as JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d error(s) evaluating %s", len(result.Errors), entry)
	}
	return nil
}
