package procedures

import (
	"fmt"

	"primer-registry/oligo"

	"github.com/spf13/cobra"
)

func (h *CommandHandler) InitCmd(cmd *cobra.Command, _ []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "store initialized at %s\n", h.db.Location())

	return nil
}

// TmCmd prints the Wallace melting temperature of every argument. It needs
// no store.
func (h *CommandHandler) TmCmd(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	tw := newTable(cmd.OutOrStdout())
	for _, arg := range args {
		sequence := arg
		if strict {
			var err error
			if sequence, err = oligo.Validate(arg); err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
		}
		fmt.Fprintf(tw, "%s\t%s\n", sequence, formatTm(oligo.Tm(sequence)))
	}

	return tw.Flush()
}

func (h *CommandHandler) initMiscCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the store and its tables if they do not exist",
			Args:  cobra.NoArgs,
			RunE:  h.InitCmd,
		},
		&cobra.Command{
			Use:         "tm <sequence>...",
			Short:       "Compute the melting temperature of primer sequences",
			Args:        cobra.MinimumNArgs(1),
			Annotations: map[string]string{skipSetup: "true"},
			RunE:        h.TmCmd,
		},
	)
}
