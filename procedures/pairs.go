package procedures

import (
	"fmt"

	"primer-registry/orm"

	"github.com/spf13/cobra"
)

func (h *CommandHandler) ListPairsCmd(cmd *cobra.Command, args []string) error {
	pairs, err := h.service.ListPrimerPairs(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return writePairs(cmd.OutOrStdout(), pairs)
}

func (h *CommandHandler) ShowPairCmd(cmd *cobra.Command, args []string) error {
	id, err := parsePrimersID(args[0])
	if err != nil {
		return err
	}

	pair, err := h.service.GetPrimerPair(cmd.Context(), id)
	if err != nil {
		return err
	}

	return writePairs(cmd.OutOrStdout(), []*orm.PrimerPair{pair})
}

// AddPairCmd creates a primer pair, creating the gene when it is unknown
func (h *CommandHandler) AddPairCmd(cmd *cobra.Command, args []string) error {
	pair, err := h.service.CreatePrimerPair(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}

	return writePairs(cmd.OutOrStdout(), []*orm.PrimerPair{pair})
}

func (h *CommandHandler) EditPairCmd(cmd *cobra.Command, args []string) error {
	id, err := parsePrimersID(args[0])
	if err != nil {
		return err
	}

	pair, err := h.service.UpdatePrimerPair(cmd.Context(), id, args[1], args[2])
	if err != nil {
		return err
	}

	return writePairs(cmd.OutOrStdout(), []*orm.PrimerPair{pair})
}

func (h *CommandHandler) DeletePairCmd(cmd *cobra.Command, args []string) error {
	id, err := parsePrimersID(args[0])
	if err != nil {
		return err
	}

	if err := h.service.DeletePrimerPair(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted primer pair %d\n", id)

	return nil
}

func (h *CommandHandler) initPairCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "pairs <gene_id>",
		Short: "List the primer pairs of a gene",
		Args:  cobra.ExactArgs(1),
		RunE:  h.ListPairsCmd,
	})

	pairCmd := &cobra.Command{
		Use:   "pair",
		Short: "Show, add, edit or delete a primer pair",
	}
	pairCmd.AddCommand(
		&cobra.Command{
			Use:   "show <primers_id>",
			Short: "Show a primer pair",
			Args:  cobra.ExactArgs(1),
			RunE:  h.ShowPairCmd,
		},
		&cobra.Command{
			Use:   "add <gene_id> <forward> <reverse>",
			Short: "Add a primer pair to a gene",
			Args:  cobra.ExactArgs(3),
			RunE:  h.AddPairCmd,
		},
		&cobra.Command{
			Use:   "edit <primers_id> <forward> <reverse>",
			Short: "Replace both sequences of a primer pair",
			Args:  cobra.ExactArgs(3),
			RunE:  h.EditPairCmd,
		},
		&cobra.Command{
			Use:   "delete <primers_id>",
			Short: "Delete a primer pair",
			Args:  cobra.ExactArgs(1),
			RunE:  h.DeletePairCmd,
		},
	)
	rootCmd.AddCommand(pairCmd)
}
