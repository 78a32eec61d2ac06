package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/metaphox/rsfront/diag"
	"github.com/metaphox/rsfront/frontend"
	"github.com/metaphox/rsfront/internal/config"
)

var (
	cfgFile string
	verbose bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "rsfront",
	Short: "rsfront - front end for a small Rust subset",
	Long: `rsfront tokenizes and parses a subset of Rust (let/const/static,
parameterless functions, if/while/loop, calls and scalar expressions),
builds a syntax tree and records the scopes and symbols it declares.

Commands:
  parse    - parse a file and write its syntax tree (AST.txt by default)
  tokens   - print the token stream of a file
  scopes   - print the scope table of a file
  repl     - parse snippets interactively`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $RSFRONT_CONFIG or ./rsfront.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log session activity to stderr")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace every grammar reduction")
}

// loadConfig resolves the configuration and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Parse.Debug = true
	}
	return cfg, nil
}

// sessionOptions maps the configuration onto frontend options. Diagnostics are
// printed by the commands themselves, so the logger stays off unless asked for.
func sessionOptions(cfg *config.Config) frontend.Options {
	opts := frontend.Options{
		Debug:    cfg.Parse.Debug,
		MaxDepth: cfg.Parse.MaxDepth,
	}
	if verbose || cfg.Parse.Debug {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return opts
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

// render formats a tree or scope table as text or YAML.
func render(v fmt.Stringer, format string) (string, error) {
	if format != config.FormatYAML {
		return v.String(), nil
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return string(out), nil
}

func checkFormat(format string) error {
	if format != config.FormatText && format != config.FormatYAML {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, config.FormatText, config.FormatYAML)
	}
	return nil
}

// printDiagnostics writes one styled line per diagnostic, prefixed with the
// source name.
func printDiagnostics(w io.Writer, source string, diags []diag.Diagnostic) {
	for _, d := range diags {
		label := errorStyle.Render("error:")
		if !d.Fatal() {
			label = warnStyle.Render("warning:")
		}
		fmt.Fprintf(w, "%s %s %s\n", dimStyle.Render(source+":"), label, d.Error())
	}
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s: %v\n", errorStyle.Render("error:"), msg, err)
}
