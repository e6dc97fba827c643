package procedures

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"primer-registry/orm"
)

func newTable(w io.Writer) *tabwriter.Writer {
	//nolint:mnd // column padding
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatTm(tm float64) string {
	return strconv.FormatFloat(tm, 'f', 1, 64)
}

func writePairs(w io.Writer, pairs []*orm.PrimerPair) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tGENE\tFORWARD\tFORWARD_TM\tREVERSE\tREVERSE_TM")
	for _, p := range pairs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID(),
			p.GeneID(),
			p.ForwardSequence(),
			formatTm(p.ForwardTm()),
			p.ReverseSequence(),
			formatTm(p.ReverseTm()),
		)
	}

	return tw.Flush()
}

func writeGene(w io.Writer, gene *orm.Gene) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "gene_id\t%s\n", gene.ID())
	fmt.Fprintf(tw, "sequence\t%s\n", gene.Sequence())
	fmt.Fprintf(tw, "length\t%d\n", len(gene.Sequence()))

	return tw.Flush()
}

func parsePrimersID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid primers id %q: %w", arg, err)
	}

	return id, nil
}
