package orm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Gene is a named nucleotide sequence. Its identifier is fixed at
// construction; renaming a gene means deleting it and creating a new one.
type Gene struct {
	id       string
	sequence string
	state    State
}

// NewGene creates an unsaved gene. The sequence is stored uppercased.
func NewGene(geneID, sequence string) *Gene {
	return &Gene{
		id:       geneID,
		sequence: strings.ToUpper(sequence),
		state:    StateNew,
	}
}

func geneFromModel(m GeneModel) *Gene {
	return &Gene{id: m.GeneID, sequence: m.Sequence, state: StateClean}
}

func (g *Gene) ID() string       { return g.id }
func (g *Gene) Sequence() string { return g.sequence }
func (g *Gene) State() State     { return g.state }
func (g *Gene) String() string   { return g.id }

// SetSequence replaces the sequence (uppercased) and marks the gene dirty when
// the value changes.
func (g *Gene) SetSequence(sequence string) {
	sequence = strings.ToUpper(sequence)
	if sequence == g.sequence {
		return
	}
	g.sequence = sequence
	g.state = g.state.touched()
}

// LoadGene fetches a single gene by primary key.
func LoadGene(ctx context.Context, db *DB, geneID string) (*Gene, error) {
	row, err := gorm.G[GeneModel](db.conn(ctx)).
		Where("gene_id = ?", geneID).
		First(ctx)
	if err != nil {
		return nil, wrapErrorWithDetails(
			err,
			"load gene",
			fmt.Sprintf("gene_id=%q", geneID),
		)
	}

	return geneFromModel(row), nil
}

// LoadGenes fetches every gene ordered by identifier.
func LoadGenes(ctx context.Context, db *DB) ([]*Gene, error) {
	rows, err := gorm.G[GeneModel](db.conn(ctx)).
		Order("gene_id").
		Find(ctx)
	if err != nil {
		return nil, wrapErrorWithDetails(err, "load genes", "all")
	}

	genes := make([]*Gene, 0, len(rows))
	for _, row := range rows {
		genes = append(genes, geneFromModel(row))
	}

	return genes, nil
}

// Save inserts the gene when no row with its identifier exists and updates
// the sequence otherwise. A clean gene is not written again.
func (g *Gene) Save(ctx context.Context, db *DB) error {
	if g.state == StateClean {
		return nil
	}

	err := db.Transaction(ctx, func(tx *DB) error {
		return g.persist(ctx, tx)
	})
	if err != nil {
		return wrapErrorWithDetails(err, "save gene", g.details())
	}

	g.state = StateClean
	log.Debug().Str("gene_id", g.id).Msg("Gene saved")

	return nil
}

// persist writes the gene through an open transaction without touching the
// in-memory state; the caller marks it clean once the transaction commits.
func (g *Gene) persist(ctx context.Context, tx *DB) error {
	count, err := gorm.G[GeneModel](tx.conn(ctx)).
		Where("gene_id = ?", g.id).
		Count(ctx, "*")
	if err != nil {
		return wrapErrorWithDetails(err, "check gene exists", g.details())
	}

	if count == 0 {
		err = tx.conn(ctx).Create(&GeneModel{GeneID: g.id, Sequence: g.sequence}).Error

		return wrapErrorWithDetails(err, "insert gene", g.details())
	}

	_, err = gorm.G[GeneModel](tx.conn(ctx)).
		Where("gene_id = ?", g.id).
		Update(ctx, "sequence", g.sequence)

	return wrapErrorWithDetails(err, "update gene", g.details())
}

// Delete removes every primer pair referencing the gene and then the gene
// itself, in one transaction.
func (g *Gene) Delete(ctx context.Context, db *DB) error {
	err := db.Transaction(ctx, func(tx *DB) error {
		if _, err := gorm.G[PrimerModel](tx.conn(ctx)).
			Where("gene_id = ?", g.id).
			Delete(ctx); err != nil {
			return wrapErrorWithDetails(err, "delete primers of gene", g.details())
		}

		_, err := gorm.G[GeneModel](tx.conn(ctx)).
			Where("gene_id = ?", g.id).
			Delete(ctx)

		return wrapErrorWithDetails(err, "delete gene", g.details())
	})
	if err != nil {
		return wrapErrorWithDetails(err, "delete gene", g.details())
	}

	g.state = StateNew
	log.Debug().Str("gene_id", g.id).Msg("Gene deleted")

	return nil
}

func (g *Gene) details() string {
	return fmt.Sprintf("gene_id=%q", g.id)
}
