package registry

import (
	"testing"

	"primer-registry/orm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePrimerSet(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []primerSetEntry
		errPart  string
	}{
		{
			name:     "empty file",
			content:  "",
			expected: nil,
		},
		{
			name:    "comments blank lines and CRLF",
			content: "# gene_id\tforward\treverse\r\n\r\nBRCA1\tAGCT\tTTGG\r\n  # indented comment\nTP53\tgg\tcc\n",
			expected: []primerSetEntry{
				{GeneID: "BRCA1", Forward: "AGCT", Reverse: "TTGG"},
				{GeneID: "TP53", Forward: "gg", Reverse: "cc"},
			},
		},
		{
			name:    "gene id with space and empty reverse",
			content: "HLA A\tATGC\t\n",
			expected: []primerSetEntry{
				{GeneID: "HLA A", Forward: "ATGC", Reverse: ""},
			},
		},
		{
			name:    "too few fields",
			content: "BRCA1\tAGCT\n",
			errPart: "panel:1 bad field count 2",
		},
		{
			name:    "too many fields",
			content: "# ok\nBRCA1\tAGCT\tTTGG\t100\n",
			errPart: "panel:2 bad field count 4",
		},
		{
			name:    "empty gene id",
			content: "\tAGCT\tTTGG\n",
			errPart: "panel:1 empty gene id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := decodePrimerSet("panel", []byte(tt.content))
			if tt.errPart != "" {
				require.ErrorIs(t, err, ErrMalformedPrimerFile)
				assert.Contains(t, err.Error(), tt.errPart)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, entries)
		})
	}
}

func TestEncodeDecodePrimerSet(t *testing.T) {
	gene := orm.NewGene("BRCA1", "")
	pairs := []*orm.PrimerPair{
		orm.NewPrimerPair(gene, "AGCT", "TTGG"),
		orm.NewPrimerPair(gene, "ATAT", ""),
	}

	content := encodePrimerSet(pairs)
	entries, err := decodePrimerSet("panel", content)
	require.NoError(t, err)

	assert.Equal(t, []primerSetEntry{
		{GeneID: "BRCA1", Forward: "AGCT", Reverse: "TTGG"},
		{GeneID: "BRCA1", Forward: "ATAT", Reverse: ""},
	}, entries)
}
