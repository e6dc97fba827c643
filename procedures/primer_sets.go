package procedures

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (h *CommandHandler) ExportCmd(cmd *cobra.Command, args []string) error {
	versionHash, err := h.service.ExportPrimerSet(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), versionHash)

	return nil
}

func (h *CommandHandler) ImportCmd(cmd *cobra.Command, args []string) error {
	imported, err := h.service.ImportPrimerSet(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d primer pairs from %s\n", imported, args[0])

	return nil
}

func (h *CommandHandler) DeleteSetCmd(cmd *cobra.Command, args []string) error {
	if err := h.service.DeletePrimerSet(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted primer set %s@%s\n", args[0], args[1])

	return nil
}

func (h *CommandHandler) initPrimerSetCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "export <name>",
			Short: "Export all primer pairs as a primer set and print its version hash",
			Args:  cobra.ExactArgs(1),
			RunE:  h.ExportCmd,
		},
		&cobra.Command{
			Use:   "import <name> <version_hash>",
			Short: "Add the primer pairs of an archived primer set",
			Args:  cobra.ExactArgs(2),
			RunE:  h.ImportCmd,
		},
	)

	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage archived primer sets",
	}
	archiveCmd.AddCommand(&cobra.Command{
		Use:   "delete <name> <version_hash>",
		Short: "Delete one version of a primer set",
		Args:  cobra.ExactArgs(2),
		RunE:  h.DeleteSetCmd,
	})
	rootCmd.AddCommand(archiveCmd)
}
