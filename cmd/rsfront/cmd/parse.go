package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaphox/rsfront/frontend"
)

var (
	parseOutput string
	parseFormat string
	parseStdout bool
	parseScopes bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a source file and write its syntax tree",
	Long: `Parse a source file and write the rendered syntax tree to the configured
output file (AST.txt unless configured otherwise).

Lexical errors are reported as warnings and do not stop the parse. Any syntax
error fails the command and no tree is written.

Examples:
  rsfront parse main.rs
  rsfront parse main.rs --stdout --format yaml
  rsfront parse main.rs --scopes --debug`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file (default from config: AST.txt)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: text or yaml")
	parseCmd.Flags().BoolVar(&parseStdout, "stdout", false, "write the tree to stdout instead of a file")
	parseCmd.Flags().BoolVar(&parseScopes, "scopes", false, "dump the scope table to stderr")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if parseOutput != "" {
		cfg.Output.Path = parseOutput
	}
	if parseFormat != "" {
		cfg.Output.Format = parseFormat
	}
	if err := checkFormat(cfg.Output.Format); err != nil {
		return err
	}

	path := args[0]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	opts := sessionOptions(cfg)
	if parseScopes || cfg.Parse.DumpScopes {
		opts.DumpScopes = cmd.ErrOrStderr()
	}
	session := frontend.NewSession(opts)
	root, err := session.Parse(src)
	printDiagnostics(cmd.ErrOrStderr(), path, session.Diagnostics())
	if err != nil {
		return fmt.Errorf("%s: parse failed", path)
	}

	out, err := render(root, cfg.Output.Format)
	if err != nil {
		return err
	}
	if parseStdout {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.WriteFile(cfg.Output.Path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("wrote"), cfg.Output.Path)
	return nil
}
