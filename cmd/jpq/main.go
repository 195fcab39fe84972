// Command jpq evaluates a JSONPath expression against a document read
// from a file or stdin and prints the matched values or their canonical
// paths as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacoelho/jsonpath"
	"github.com/jacoelho/jsonpath/document"
	"github.com/jacoelho/jsonpath/node"
)

type options struct {
	yamlInput  bool
	pathList   bool
	alwaysList bool
	suppress   bool
	require    bool
	compact    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "jpq <expression> [file]",
		Short:        "Evaluate a JSONPath expression against a JSON or YAML document",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.yamlInput, "yaml", false, "parse the document as YAML")
	cmd.Flags().BoolVarP(&opts.pathList, "paths", "p", false, "print canonical paths instead of values")
	cmd.Flags().BoolVarP(&opts.alwaysList, "list", "l", false, "always print a list, even for definite paths")
	cmd.Flags().BoolVarP(&opts.suppress, "suppress", "s", false, "print an empty result instead of failing when nothing matches")
	cmd.Flags().BoolVar(&opts.require, "require", false, "fail when a named property or index is missing")
	cmd.Flags().BoolVarP(&opts.compact, "compact", "c", false, "print compact JSON")

	return cmd
}

func run(out io.Writer, args []string, opts options) error {
	data, err := readDocument(args)
	if err != nil {
		return err
	}

	root, err := parseDocument(data, opts)
	if err != nil {
		return err
	}

	cfg := jsonpath.DefaultConfiguration()
	var flags []jsonpath.Option
	if opts.pathList {
		flags = append(flags, jsonpath.AsPathList)
	}
	if opts.alwaysList {
		flags = append(flags, jsonpath.AlwaysReturnList)
	}
	if opts.suppress {
		flags = append(flags, jsonpath.SuppressExceptions)
	}
	if opts.require {
		flags = append(flags, jsonpath.RequireProperties)
	}
	if len(flags) > 0 {
		cfg = cfg.WithOptions(flags...)
	}

	path, err := jsonpath.CompileWith(args[0], cfg)
	if err != nil {
		return err
	}

	result, err := path.ReadNode(root)
	if err != nil {
		return err
	}

	return printResult(out, result, opts.compact)
}

func readDocument(args []string) ([]byte, error) {
	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func parseDocument(data []byte, opts options) (node.Node, error) {
	if opts.yamlInput {
		return document.YAML(data)
	}
	return document.GJSON(data)
}

func printResult(out io.Writer, result any, compact bool) error {
	enc := json.NewEncoder(out)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
