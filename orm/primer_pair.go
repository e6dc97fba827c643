package orm

import (
	"context"
	"fmt"

	"primer-registry/oligo"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrimerPair is a forward/reverse primer pair designed against a gene. The
// melting temperatures are derived from the sequences and have no setters.
type PrimerPair struct {
	id        int64
	gene      *Gene
	forward   string
	reverse   string
	forwardTm float64
	reverseTm float64
	state     State
}

// NewPrimerPair creates an unsaved pair. Its identifier is assigned by the
// store on the first save.
func NewPrimerPair(gene *Gene, forward, reverse string) *PrimerPair {
	return &PrimerPair{
		gene:      gene,
		forward:   forward,
		reverse:   reverse,
		forwardTm: oligo.Tm(forward),
		reverseTm: oligo.Tm(reverse),
		state:     StateNew,
	}
}

// pairFromModel builds a clean pair from a row. genes caches the entities
// already built during one load so pairs of the same gene share it.
func pairFromModel(m PrimerModel, genes map[string]*Gene) *PrimerPair {
	gene, ok := genes[m.GeneID]
	if !ok {
		gene = geneFromModel(m.Gene)
		if m.Gene.GeneID == "" {
			// dangling reference, only possible with foreign keys disabled
			gene = NewGene(m.GeneID, "")
		}
		genes[m.GeneID] = gene
	}

	p := NewPrimerPair(gene, m.ForwardSequence, m.ReverseSequence)
	p.id = m.PrimersID
	p.state = StateClean

	return p
}

func (p *PrimerPair) ID() int64               { return p.id }
func (p *PrimerPair) Gene() *Gene             { return p.gene }
func (p *PrimerPair) ForwardSequence() string { return p.forward }
func (p *PrimerPair) ReverseSequence() string { return p.reverse }
func (p *PrimerPair) ForwardTm() float64      { return p.forwardTm }
func (p *PrimerPair) ReverseTm() float64      { return p.reverseTm }
func (p *PrimerPair) State() State            { return p.state }

// GeneID returns the identifier of the referenced gene, or "" without one.
func (p *PrimerPair) GeneID() string {
	if p.gene == nil {
		return ""
	}

	return p.gene.id
}

func (p *PrimerPair) SetForwardSequence(sequence string) {
	if sequence == p.forward {
		return
	}
	p.forward = sequence
	p.forwardTm = oligo.Tm(sequence)
	p.state = p.state.touched()
}

func (p *PrimerPair) SetReverseSequence(sequence string) {
	if sequence == p.reverse {
		return
	}
	p.reverse = sequence
	p.reverseTm = oligo.Tm(sequence)
	p.state = p.state.touched()
}

// SetGene points the pair at another gene. Only a change of gene identifier
// marks the pair dirty.
func (p *PrimerPair) SetGene(gene *Gene) {
	previous := p.GeneID()
	p.gene = gene
	if gene == nil || gene.id != previous {
		p.state = p.state.touched()
	}
}

// LoadPrimerPair fetches a pair by primary key together with its gene.
func LoadPrimerPair(ctx context.Context, db *DB, primersID int64) (*PrimerPair, error) {
	row, err := gorm.G[PrimerModel](db.conn(ctx)).
		Preload("Gene", nil).
		Where("primers_id = ?", primersID).
		First(ctx)
	if err != nil {
		return nil, wrapErrorWithDetails(
			err,
			"load primer pair",
			fmt.Sprintf("primers_id=%d", primersID),
		)
	}

	return pairFromModel(row, map[string]*Gene{}), nil
}

// LoadPrimerPairs fetches every pair ordered by identifier, genes included.
func LoadPrimerPairs(ctx context.Context, db *DB) ([]*PrimerPair, error) {
	rows, err := gorm.G[PrimerModel](db.conn(ctx)).
		Preload("Gene", nil).
		Order("primers_id").
		Find(ctx)
	if err != nil {
		return nil, wrapErrorWithDetails(err, "load primer pairs", "all")
	}

	return pairsFromModels(rows), nil
}

// LoadPrimerPairsByGene fetches the pairs referencing geneID ordered by
// identifier. An unknown gene yields an empty slice.
func LoadPrimerPairsByGene(
	ctx context.Context,
	db *DB,
	geneID string,
) ([]*PrimerPair, error) {
	rows, err := gorm.G[PrimerModel](db.conn(ctx)).
		Preload("Gene", nil).
		Where("gene_id = ?", geneID).
		Order("primers_id").
		Find(ctx)
	if err != nil {
		return nil, wrapErrorWithDetails(
			err,
			"load primer pairs by gene",
			fmt.Sprintf("gene_id=%q", geneID),
		)
	}

	return pairsFromModels(rows), nil
}

func pairsFromModels(rows []PrimerModel) []*PrimerPair {
	genes := map[string]*Gene{}
	pairs := make([]*PrimerPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, pairFromModel(row, genes))
	}

	return pairs
}

// Save writes the pair in one transaction. A gene that is new or dirty is
// saved first so the foreign key holds. On insert the identifier assigned by
// the store is captured. A clean pair is not written again.
func (p *PrimerPair) Save(ctx context.Context, db *DB) error {
	if p.state == StateClean {
		return nil
	}

	if p.gene == nil {
		return &BadInputError{Reason: "primer pair without gene"}
	}

	saveGene := p.gene.state != StateClean

	var id int64
	err := db.Transaction(ctx, func(tx *DB) error {
		if saveGene {
			if err := p.gene.persist(ctx, tx); err != nil {
				return err
			}
		}

		var err error
		id, err = p.persist(ctx, tx)

		return err
	})
	if err != nil {
		return wrapErrorWithDetails(err, "save primer pair", p.details())
	}

	if saveGene {
		p.gene.state = StateClean
	}
	p.id = id
	p.state = StateClean

	log.Debug().
		Int64("primers_id", p.id).
		Str("gene_id", p.gene.id).
		Msg("Primer pair saved")

	return nil
}

func (p *PrimerPair) persist(ctx context.Context, tx *DB) (int64, error) {
	exists := false
	if p.id != 0 {
		count, err := gorm.G[PrimerModel](tx.conn(ctx)).
			Where("primers_id = ?", p.id).
			Count(ctx, "*")
		if err != nil {
			return 0, wrapErrorWithDetails(err, "check primer pair exists", p.details())
		}
		exists = count > 0
	}

	forwardTm := oligo.Tm(p.forward)
	reverseTm := oligo.Tm(p.reverse)

	if !exists {
		row := PrimerModel{
			GeneID:          p.gene.id,
			ForwardSequence: p.forward,
			ReverseSequence: p.reverse,
			ForwardTm:       forwardTm,
			ReverseTm:       reverseTm,
		}
		err := tx.conn(ctx).Omit(clause.Associations).Create(&row).Error
		if err != nil {
			return 0, wrapErrorWithDetails(err, "insert primer pair", p.details())
		}

		return row.PrimersID, nil
	}

	err := tx.conn(ctx).
		Model(&PrimerModel{}).
		Where("primers_id = ?", p.id).
		Updates(map[string]any{
			"gene_id":          p.gene.id,
			"forward_sequence": p.forward,
			"reverse_sequence": p.reverse,
			"forward_tm":       forwardTm,
			"reverse_tm":       reverseTm,
		}).Error
	if err != nil {
		return 0, wrapErrorWithDetails(err, "update primer pair", p.details())
	}

	return p.id, nil
}

// Delete removes the pair row. The referenced gene is left alone.
func (p *PrimerPair) Delete(ctx context.Context, db *DB) error {
	err := db.Transaction(ctx, func(tx *DB) error {
		_, err := gorm.G[PrimerModel](tx.conn(ctx)).
			Where("primers_id = ?", p.id).
			Delete(ctx)

		return err
	})
	if err != nil {
		return wrapErrorWithDetails(err, "delete primer pair", p.details())
	}

	p.state = StateNew
	log.Debug().Int64("primers_id", p.id).Msg("Primer pair deleted")

	return nil
}

func (p *PrimerPair) details() string {
	return fmt.Sprintf("primers_id=%d, gene_id=%q", p.id, p.GeneID())
}
