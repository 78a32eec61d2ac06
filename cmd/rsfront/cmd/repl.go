package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/metaphox/rsfront/frontend"
)

const (
	promptMain = "rs> "
	promptCont = "... "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse snippets interactively",
	Long: `Read snippets line by line and print their syntax tree.

A snippet that is still open at end of input (an unclosed block, a missing
';') keeps reading on a continuation prompt. Every snippet is parsed in a
fresh session.

Commands:
  :scopes  print the scope table of the last snippet
  :quit    exit (Ctrl-D works too; Ctrl-C drops the current snippet)`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, dimStyle.Render("rsfront "+Version+" - :scopes shows the last scope table, :quit exits"))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.REPL.HistoryFile
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		f, err := os.Create(histPath)
		if err != nil {
			printError("save history", err)
			return
		}
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}()

	opts := sessionOptions(cfg)
	var last *frontend.Session
	for {
		src, ok := readSnippet(ln, opts.MaxDepth)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}

		switch code := strings.TrimSpace(src); {
		case code == "":
			continue
		case code == ":quit":
			return nil
		case code == ":scopes":
			if last == nil {
				fmt.Fprintln(out, dimStyle.Render("nothing parsed yet"))
			} else {
				fmt.Fprint(out, last.DumpScopes())
			}
			continue
		case strings.HasPrefix(code, ":"):
			fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		last = frontend.NewSession(opts)
		root, err := last.Parse(src)
		printDiagnostics(cmd.ErrOrStderr(), "repl", last.Diagnostics())
		if err != nil {
			continue
		}
		fmt.Fprint(out, root.String())
	}
}

// readSnippet reads lines until the text parses, or fails somewhere before
// end of input. It reports false when input is closed.
func readSnippet(ln *liner.State, maxDepth int) (string, bool) {
	var b strings.Builder
	probe := frontend.Options{MaxDepth: maxDepth}

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil { // io.EOF on Ctrl-D
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if code := strings.TrimSpace(src); code == "" || strings.HasPrefix(code, ":") {
			return src, true
		}
		if _, _, err := frontend.Parse(src, probe); frontend.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}
