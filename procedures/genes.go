package procedures

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (h *CommandHandler) ListGenesCmd(cmd *cobra.Command, _ []string) error {
	geneIDs, err := h.service.ListGenes(cmd.Context())
	if err != nil {
		return err
	}

	for _, id := range geneIDs {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}

	return nil
}

func (h *CommandHandler) ShowGeneCmd(cmd *cobra.Command, args []string) error {
	gene, err := h.service.GetGene(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return writeGene(cmd.OutOrStdout(), gene)
}

func (h *CommandHandler) UpdateGeneCmd(cmd *cobra.Command, args []string) error {
	sequence := ""
	if len(args) > 1 {
		sequence = args[1]
	}

	gene, err := h.service.UpdateGeneSequence(cmd.Context(), args[0], sequence)
	if err != nil {
		return err
	}

	return writeGene(cmd.OutOrStdout(), gene)
}

// DeleteGeneCmd deletes a gene and all of its primer pairs
func (h *CommandHandler) DeleteGeneCmd(cmd *cobra.Command, args []string) error {
	if err := h.service.DeleteGene(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted gene %s\n", args[0])

	return nil
}

func (h *CommandHandler) initGeneCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "genes",
		Short: "List all gene identifiers",
		Args:  cobra.NoArgs,
		RunE:  h.ListGenesCmd,
	})

	geneCmd := &cobra.Command{
		Use:   "gene",
		Short: "Show, update or delete a gene",
	}
	geneCmd.AddCommand(
		&cobra.Command{
			Use:   "show <gene_id>",
			Short: "Show a gene and its sequence",
			Args:  cobra.ExactArgs(1),
			RunE:  h.ShowGeneCmd,
		},
		&cobra.Command{
			Use:   "update <gene_id> [sequence]",
			Short: "Replace the sequence of an existing gene",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  h.UpdateGeneCmd,
		},
		&cobra.Command{
			Use:   "delete <gene_id>",
			Short: "Delete a gene together with its primer pairs",
			Args:  cobra.ExactArgs(1),
			RunE:  h.DeleteGeneCmd,
		},
	)
	rootCmd.AddCommand(geneCmd)
}
