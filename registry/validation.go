package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"primer-registry/oligo"

	"google.golang.org/grpc/codes"
)

var (
	// Static errors to avoid err113 violations
	ErrEmptyGeneID         = errors.New("gene id cannot be empty")
	ErrGeneIDWhitespace    = errors.New("gene id has surrounding whitespace")
	ErrInvalidPrimersID    = errors.New("primers id must be positive")
	ErrInvalidSetName      = errors.New("invalid primer set name")
	ErrEmptyVersionHash    = errors.New("versionHash cannot be empty")
	ErrInvalidVersionHash  = errors.New("versionHash must be a lowercase hex sha256 digest")
	ErrInvalidSequence     = errors.New("invalid sequence")
	ErrMalformedPrimerFile = errors.New("malformed primer set")
)

var (
	setNamePattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	versionHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// validateGeneID rejects blank ids and ids with leading or trailing
// whitespace. Primer set imports trim ids, so padded ids stay unreachable.
func validateGeneID(geneID string) error {
	trimmed := strings.TrimSpace(geneID)
	if trimmed == "" {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: "gene id cannot be empty",
			Inner:   ErrEmptyGeneID,
		}
	}

	if trimmed != geneID {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: fmt.Sprintf("gene id %q has leading or trailing whitespace", geneID),
			Inner:   ErrGeneIDWhitespace,
		}
	}

	return nil
}

func validatePrimersID(primersID int64) error {
	if primersID <= 0 {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: fmt.Sprintf("primers id must be positive, got %d", primersID),
			Inner:   ErrInvalidPrimersID,
		}
	}

	return nil
}

func validateSetName(name string) error {
	if !setNamePattern.MatchString(name) {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: fmt.Sprintf("primer set name %q must match %s", name, setNamePattern),
			Inner:   ErrInvalidSetName,
		}
	}

	return nil
}

func validateVersionHash(versionHash string) error {
	if versionHash == "" {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: "versionHash cannot be empty",
			Inner:   ErrEmptyVersionHash,
		}
	}

	if !versionHashPattern.MatchString(versionHash) {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: fmt.Sprintf("versionHash %q must be 64 lowercase hex characters", versionHash),
			Inner:   ErrInvalidVersionHash,
		}
	}

	return nil
}

// checkSequence returns the sequence to store. Without strict checking the
// input is kept as given; with it the sequence is normalized and must consist
// of IUPAC codes only.
func (s *Service) checkSequence(field, sequence string) (string, error) {
	if !s.strict {
		return sequence, nil
	}

	normalized, err := oligo.Validate(sequence)
	if err != nil {
		return "", &ServiceError{
			Code:    codes.InvalidArgument,
			Message: fmt.Sprintf("%s: %v", field, err),
			Inner:   fmt.Errorf("%w: %w", ErrInvalidSequence, err),
		}
	}

	return normalized, nil
}
