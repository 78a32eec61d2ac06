package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaphox/rsfront/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}

		l := lexer.New(src)
		out := cmd.OutOrStdout()
		for tok := range l.All() {
			pos := fmt.Sprintf("%d:%d", tok.Line, tok.Col)
			fmt.Fprintf(out, "%s %-18s %s\n", dimStyle.Render(fmt.Sprintf("%-7s", pos)), tok.Type, tok.Literal)
		}
		printDiagnostics(cmd.ErrOrStderr(), args[0], l.Errors())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
