package registry

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"primer-registry/orm"
)

const primerSetHeader = "# gene_id\tforward\treverse\n"

// primerSetEntry is one line of a primer set file.
type primerSetEntry struct {
	GeneID  string
	Forward string
	Reverse string
}

// encodePrimerSet renders pairs as a tab separated primer file, one pair per
// line in the given order.
func encodePrimerSet(pairs []*orm.PrimerPair) []byte {
	var buf bytes.Buffer
	buf.WriteString(primerSetHeader)
	for _, p := range pairs {
		fmt.Fprintf(&buf, "%s\t%s\t%s\n", p.GeneID(), p.ForwardSequence(), p.ReverseSequence())
	}

	return buf.Bytes()
}

// decodePrimerSet parses a primer file. Blank lines and lines starting with
// '#' are skipped. Errors name the set and the line.
func decodePrimerSet(name string, content []byte) ([]primerSetEntry, error) {
	var entries []primerSetEntry
	sc := bufio.NewScanner(bytes.NewReader(content))
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if trimmed := strings.TrimSpace(line); trimmed == "" || trimmed[0] == '#' {
			continue
		}
		// split on tabs only: empty sequences are kept as empty fields
		f := strings.Split(line, "\t")
		if len(f) != 3 {
			return nil, fmt.Errorf("%w: %s:%d bad field count %d", ErrMalformedPrimerFile, name, ln, len(f))
		}
		geneID := strings.TrimSpace(f[0])
		if geneID == "" {
			return nil, fmt.Errorf("%w: %s:%d empty gene id", ErrMalformedPrimerFile, name, ln)
		}
		entries = append(entries, primerSetEntry{
			GeneID:  geneID,
			Forward: strings.TrimSpace(f[1]),
			Reverse: strings.TrimSpace(f[2]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPrimerFile, name, err)
	}

	return entries, nil
}
