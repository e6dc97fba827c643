package registry

import (
	"context"
	"testing"

	"primer-registry/orm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestCreatePrimerPair(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing gene with empty sequence", func(t *testing.T) {
		svc := NewService(setupTestDB(t))

		pair, err := svc.CreatePrimerPair(ctx, "BRCA1", "AGCTTGCA", "GGCC")
		require.NoError(t, err)

		assert.Positive(t, pair.ID())
		assert.Equal(t, "BRCA1", pair.GeneID())
		assert.InDelta(t, 24.0, pair.ForwardTm(), 0.0001)
		assert.InDelta(t, 16.0, pair.ReverseTm(), 0.0001)
		assert.Equal(t, orm.StateClean, pair.State())

		gene, err := svc.GetGene(ctx, "BRCA1")
		require.NoError(t, err)
		assert.Empty(t, gene.Sequence())
	})

	t.Run("keeps sequence of existing gene", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(db)
		require.NoError(t, orm.NewGene("TP53", "atgcgt").Save(ctx, db))

		_, err := svc.CreatePrimerPair(ctx, "TP53", "AT", "GC")
		require.NoError(t, err)

		gene, err := svc.GetGene(ctx, "TP53")
		require.NoError(t, err)
		assert.Equal(t, "ATGCGT", gene.Sequence())
	})

	t.Run("rejects empty gene id", func(t *testing.T) {
		svc := NewService(setupTestDB(t))

		_, err := svc.CreatePrimerPair(ctx, "  ", "AT", "GC")
		requireCode(t, err, codes.InvalidArgument)
		require.ErrorIs(t, err, ErrEmptyGeneID)

		genes, err := svc.ListGenes(ctx)
		require.NoError(t, err)
		assert.Empty(t, genes)
	})

	t.Run("rejects gene id with surrounding whitespace", func(t *testing.T) {
		svc := NewService(setupTestDB(t))

		for _, geneID := range []string{" BRCA1", "BRCA1 ", "\tBRCA1\n"} {
			_, err := svc.CreatePrimerPair(ctx, geneID, "AT", "GC")
			requireCode(t, err, codes.InvalidArgument)
			require.ErrorIs(t, err, ErrGeneIDWhitespace)

			_, err = svc.GetGene(ctx, geneID)
			requireCode(t, err, codes.InvalidArgument)

			_, err = svc.ListPrimerPairs(ctx, geneID)
			requireCode(t, err, codes.InvalidArgument)
		}

		genes, err := svc.ListGenes(ctx)
		require.NoError(t, err)
		assert.Empty(t, genes)
	})
}

func TestStrictSequences(t *testing.T) {
	ctx := context.Background()

	t.Run("lenient mode stores sequences as given", func(t *testing.T) {
		svc := NewService(setupTestDB(t))

		pair, err := svc.CreatePrimerPair(ctx, "BRCA1", "ANNGC-", "xyz")
		require.NoError(t, err)
		assert.Equal(t, "ANNGC-", pair.ForwardSequence())
		assert.InDelta(t, 10.0, pair.ForwardTm(), 0.0001)
		assert.InDelta(t, 0.0, pair.ReverseTm(), 0.0001)
	})

	t.Run("strict mode normalizes valid sequences", func(t *testing.T) {
		svc := NewService(setupTestDB(t), WithStrictSequences(true))

		pair, err := svc.CreatePrimerPair(ctx, "BRCA1", " agct tgca ", "GGCC")
		require.NoError(t, err)
		assert.Equal(t, "AGCTTGCA", pair.ForwardSequence())
	})

	t.Run("strict mode rejects invalid sequences", func(t *testing.T) {
		svc := NewService(setupTestDB(t), WithStrictSequences(true))

		_, err := svc.CreatePrimerPair(ctx, "BRCA1", "AGCT-X", "GGCC")
		requireCode(t, err, codes.InvalidArgument)
		require.ErrorIs(t, err, ErrInvalidSequence)

		_, err = svc.CreatePrimerPair(ctx, "BRCA1", "AGCT", "")
		requireCode(t, err, codes.InvalidArgument)
	})
}

func TestGetters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	_, err := svc.GetGene(ctx, "MISSING")
	requireCode(t, err, codes.NotFound)

	_, err = svc.GetPrimerPair(ctx, 42)
	requireCode(t, err, codes.NotFound)

	_, err = svc.GetPrimerPair(ctx, 0)
	requireCode(t, err, codes.InvalidArgument)

	created, err := svc.CreatePrimerPair(ctx, "BRCA2", "ATGC", "GCAT")
	require.NoError(t, err)

	pair, err := svc.GetPrimerPair(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "BRCA2", pair.Gene().ID())
	assert.Equal(t, "ATGC", pair.ForwardSequence())
	assert.Equal(t, "GCAT", pair.ReverseSequence())
	assert.InDelta(t, 12.0, pair.ForwardTm(), 0.0001)
}

func TestListing(t *testing.T) {
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	for _, gene := range []string{"TP53", "BRCA1", "EGFR", "BRCA1"} {
		_, err := svc.CreatePrimerPair(ctx, gene, "AT", "GC")
		require.NoError(t, err)
	}

	genes, err := svc.ListGenes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BRCA1", "EGFR", "TP53"}, genes)

	pairs, err := svc.ListPrimerPairs(ctx, "BRCA1")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Less(t, pairs[0].ID(), pairs[1].ID())
	assert.Same(t, pairs[0].Gene(), pairs[1].Gene())

	pairs, err = svc.ListPrimerPairs(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestUpdatePrimerPair(t *testing.T) {
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	created, err := svc.CreatePrimerPair(ctx, "BRCA1", "AT", "GC")
	require.NoError(t, err)

	updated, err := svc.UpdatePrimerPair(ctx, created.ID(), "GGGG", "AAAA")
	require.NoError(t, err)
	assert.Equal(t, created.ID(), updated.ID())
	assert.InDelta(t, 16.0, updated.ForwardTm(), 0.0001)
	assert.InDelta(t, 8.0, updated.ReverseTm(), 0.0001)

	reloaded, err := svc.GetPrimerPair(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "GGGG", reloaded.ForwardSequence())
	assert.Equal(t, "AAAA", reloaded.ReverseSequence())
	assert.InDelta(t, 16.0, reloaded.ForwardTm(), 0.0001)

	_, err = svc.UpdatePrimerPair(ctx, created.ID()+100, "AT", "GC")
	requireCode(t, err, codes.NotFound)

	_, err = svc.UpdatePrimerPair(ctx, -1, "AT", "GC")
	requireCode(t, err, codes.InvalidArgument)
}

func TestUpdateGeneSequence(t *testing.T) {
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	_, err := svc.UpdateGeneSequence(ctx, "BRCA1", "ATGC")
	requireCode(t, err, codes.NotFound)

	_, err = svc.CreatePrimerPair(ctx, "BRCA1", "AT", "GC")
	require.NoError(t, err)

	gene, err := svc.UpdateGeneSequence(ctx, "BRCA1", "atgcatgc")
	require.NoError(t, err)
	assert.Equal(t, "ATGCATGC", gene.Sequence())
	assert.Equal(t, orm.StateClean, gene.State())

	reloaded, err := svc.GetGene(ctx, "BRCA1")
	require.NoError(t, err)
	assert.Equal(t, "ATGCATGC", reloaded.Sequence())

	// the pair still points at the gene
	pairs, err := svc.ListPrimerPairs(ctx, "BRCA1")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "ATGCATGC", pairs[0].Gene().Sequence())
}

func TestDeletes(t *testing.T) {
	ctx := context.Background()
	svc := NewService(setupTestDB(t))

	first, err := svc.CreatePrimerPair(ctx, "BRCA1", "AT", "GC")
	require.NoError(t, err)
	_, err = svc.CreatePrimerPair(ctx, "BRCA1", "ATAT", "GCGC")
	require.NoError(t, err)
	kept, err := svc.CreatePrimerPair(ctx, "TP53", "AA", "TT")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePrimerPair(ctx, first.ID()))
	_, err = svc.GetPrimerPair(ctx, first.ID())
	requireCode(t, err, codes.NotFound)
	requireCode(t, svc.DeletePrimerPair(ctx, first.ID()), codes.NotFound)

	// the gene survives deleting one of its pairs
	_, err = svc.GetGene(ctx, "BRCA1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGene(ctx, "BRCA1"))
	_, err = svc.GetGene(ctx, "BRCA1")
	requireCode(t, err, codes.NotFound)

	pairs, err := svc.ListPrimerPairs(ctx, "BRCA1")
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, err = svc.GetPrimerPair(ctx, kept.ID())
	require.NoError(t, err, "pairs of other genes are untouched")

	requireCode(t, svc.DeleteGene(ctx, "BRCA1"), codes.NotFound)
	requireCode(t, svc.DeleteGene(ctx, ""), codes.InvalidArgument)
}
