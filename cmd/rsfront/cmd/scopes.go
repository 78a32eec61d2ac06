package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metaphox/rsfront/frontend"
)

var scopesFormat string

var scopesCmd = &cobra.Command{
	Use:   "scopes FILE",
	Short: "Parse a source file and print its scope table",
	Long: `Parse a source file and print every scope with the symbols declared in it.

The table is printed even when the parse fails; it then holds the declarations
made before the first unrecoverable error.`,
	Args: cobra.ExactArgs(1),
	RunE: runScopes,
}

func init() {
	scopesCmd.Flags().StringVarP(&scopesFormat, "format", "f", "text", "output format: text or yaml")
	rootCmd.AddCommand(scopesCmd)
}

func runScopes(cmd *cobra.Command, args []string) error {
	if err := checkFormat(scopesFormat); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := readSource(args[0])
	if err != nil {
		return err
	}

	session := frontend.NewSession(sessionOptions(cfg))
	_, parseErr := session.Parse(src)
	printDiagnostics(cmd.ErrOrStderr(), args[0], session.Diagnostics())

	out, err := render(session.Scopes(), scopesFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if parseErr != nil {
		return fmt.Errorf("%s: parse failed", args[0])
	}
	return nil
}
