package registry

import (
	"context"
	"time"

	"primer-registry/orm"

	"github.com/rs/zerolog/log"
)

// ListGenes returns the identifiers of all genes in ascending order.
func (s *Service) ListGenes(ctx context.Context) (geneIDs []string, err error) {
	defer s.observe("list_genes", time.Now(), &err)

	genes, err := orm.LoadGenes(ctx, s.db)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list genes")

		return nil, wrapServiceError(err, "listing genes")
	}

	geneIDs = make([]string, 0, len(genes))
	for _, g := range genes {
		geneIDs = append(geneIDs, g.ID())
	}

	return geneIDs, nil
}

// ListPrimerPairs returns the pairs designed against geneID ordered by
// identifier. An unknown gene has no pairs.
func (s *Service) ListPrimerPairs(
	ctx context.Context,
	geneID string,
) (pairs []*orm.PrimerPair, err error) {
	defer s.observe("list_primer_pairs", time.Now(), &err)

	if err = validateGeneID(geneID); err != nil {
		return nil, err
	}

	pairs, err = orm.LoadPrimerPairsByGene(ctx, s.db, geneID)
	if err != nil {
		log.Error().Err(err).Str("gene_id", geneID).Msg("Failed to list primer pairs")

		return nil, wrapServiceError(err, "listing primer pairs")
	}

	return pairs, nil
}

func (s *Service) GetGene(ctx context.Context, geneID string) (gene *orm.Gene, err error) {
	defer s.observe("get_gene", time.Now(), &err)

	if err = validateGeneID(geneID); err != nil {
		return nil, err
	}

	gene, err = orm.LoadGene(ctx, s.db, geneID)
	if err != nil {
		return nil, wrapServiceError(err, "retrieving gene")
	}

	return gene, nil
}

func (s *Service) GetPrimerPair(
	ctx context.Context,
	primersID int64,
) (pair *orm.PrimerPair, err error) {
	defer s.observe("get_primer_pair", time.Now(), &err)

	if err = validatePrimersID(primersID); err != nil {
		return nil, err
	}

	pair, err = orm.LoadPrimerPair(ctx, s.db, primersID)
	if err != nil {
		return nil, wrapServiceError(err, "retrieving primer pair")
	}

	return pair, nil
}

// CreatePrimerPair stores a new pair for geneID. A gene that does not exist yet
// is created with an empty sequence; an existing gene is left as it is.
func (s *Service) CreatePrimerPair(
	ctx context.Context,
	geneID, forward, reverse string,
) (pair *orm.PrimerPair, err error) {
	defer s.observe("create_primer_pair", time.Now(), &err)

	log.Info().
		Str("gene_id", geneID).
		Str("forward", forward).
		Str("reverse", reverse).
		Msg("Primer pair creation requested")

	if err = validateGeneID(geneID); err != nil {
		return nil, err
	}
	if forward, err = s.checkSequence("forward sequence", forward); err != nil {
		return nil, err
	}
	if reverse, err = s.checkSequence("reverse sequence", reverse); err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx *orm.DB) error {
		gene, err := geneOrNew(ctx, tx, geneID)
		if err != nil {
			return err
		}

		pair = orm.NewPrimerPair(gene, forward, reverse)

		return pair.Save(ctx, tx)
	})
	if err != nil {
		log.Error().Err(err).Str("gene_id", geneID).Msg("Failed to create primer pair")

		return nil, wrapServiceError(err, "creating primer pair")
	}

	log.Info().
		Int64("primers_id", pair.ID()).
		Str("gene_id", geneID).
		Msg("Primer pair created")

	return pair, nil
}

// UpdatePrimerPair replaces both sequences of an existing pair.
func (s *Service) UpdatePrimerPair(
	ctx context.Context,
	primersID int64,
	forward, reverse string,
) (pair *orm.PrimerPair, err error) {
	defer s.observe("update_primer_pair", time.Now(), &err)

	log.Info().
		Int64("primers_id", primersID).
		Str("forward", forward).
		Str("reverse", reverse).
		Msg("Primer pair update requested")

	if err = validatePrimersID(primersID); err != nil {
		return nil, err
	}
	if forward, err = s.checkSequence("forward sequence", forward); err != nil {
		return nil, err
	}
	if reverse, err = s.checkSequence("reverse sequence", reverse); err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx *orm.DB) error {
		var err error
		pair, err = orm.LoadPrimerPair(ctx, tx, primersID)
		if err != nil {
			return err
		}

		pair.SetForwardSequence(forward)
		pair.SetReverseSequence(reverse)

		return pair.Save(ctx, tx)
	})
	if err != nil {
		log.Error().Err(err).Int64("primers_id", primersID).Msg("Failed to update primer pair")

		return nil, wrapServiceError(err, "updating primer pair")
	}

	return pair, nil
}

// UpdateGeneSequence replaces the sequence of an existing gene.
func (s *Service) UpdateGeneSequence(
	ctx context.Context,
	geneID, sequence string,
) (gene *orm.Gene, err error) {
	defer s.observe("update_gene_sequence", time.Now(), &err)

	log.Info().
		Str("gene_id", geneID).
		Int("length", len(sequence)).
		Msg("Gene sequence update requested")

	if err = validateGeneID(geneID); err != nil {
		return nil, err
	}
	if sequence != "" {
		if sequence, err = s.checkSequence("gene sequence", sequence); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(ctx, func(tx *orm.DB) error {
		var err error
		gene, err = orm.LoadGene(ctx, tx, geneID)
		if err != nil {
			return err
		}

		gene.SetSequence(sequence)

		return gene.Save(ctx, tx)
	})
	if err != nil {
		log.Error().Err(err).Str("gene_id", geneID).Msg("Failed to update gene sequence")

		return nil, wrapServiceError(err, "updating gene sequence")
	}

	return gene, nil
}

func (s *Service) DeletePrimerPair(ctx context.Context, primersID int64) (err error) {
	defer s.observe("delete_primer_pair", time.Now(), &err)

	log.Info().Int64("primers_id", primersID).Msg("Deletion of primer pair requested")

	if err = validatePrimersID(primersID); err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(tx *orm.DB) error {
		pair, err := orm.LoadPrimerPair(ctx, tx, primersID)
		if err != nil {
			return err
		}

		return pair.Delete(ctx, tx)
	})
	if err != nil {
		log.Error().Err(err).Int64("primers_id", primersID).Msg("Failed to delete primer pair")

		return wrapServiceError(err, "deleting primer pair")
	}

	return nil
}

// DeleteGene removes the gene together with all of its primer pairs.
func (s *Service) DeleteGene(ctx context.Context, geneID string) (err error) {
	defer s.observe("delete_gene", time.Now(), &err)

	log.Info().Str("gene_id", geneID).Msg("Deletion of gene requested")

	if err = validateGeneID(geneID); err != nil {
		return err
	}

	err = s.db.Transaction(ctx, func(tx *orm.DB) error {
		gene, err := orm.LoadGene(ctx, tx, geneID)
		if err != nil {
			return err
		}

		return gene.Delete(ctx, tx)
	})
	if err != nil {
		log.Error().Err(err).Str("gene_id", geneID).Msg("Failed to delete gene")

		return wrapServiceError(err, "deleting gene")
	}

	return nil
}
