package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"primer-registry/archive"
	"primer-registry/orm"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
)

// ExportPrimerSet writes every primer pair as a primer set file to the archive
// under name and returns the version hash of the file.
func (s *Service) ExportPrimerSet(
	ctx context.Context,
	name string,
) (versionHash string, err error) {
	defer s.observe("export_primer_set", time.Now(), &err)

	log.Info().Str("name", name).Msg("Primer set export requested")

	if s.archive == nil {
		return "", newArchiveUnavailableError("primer set export")
	}
	if err = validateSetName(name); err != nil {
		return "", err
	}

	pairs, err := orm.LoadPrimerPairs(ctx, s.db)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load primer pairs for export")

		return "", wrapServiceError(err, "loading primer pairs")
	}

	versionHash, err = s.archive.StorePrimerSet(ctx, name, encodePrimerSet(pairs))
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to store primer set")

		return "", wrapArchiveError(err, "storing primer set")
	}

	log.Info().
		Str("name", name).
		Str("versionHash", versionHash).
		Int("pairs", len(pairs)).
		Msg("Primer set exported")

	return versionHash, nil
}

// ImportPrimerSet adds every pair of an archived primer set as a new primer
// pair, creating missing genes with an empty sequence. Nothing is written when
// any line fails. It returns the number of pairs created.
func (s *Service) ImportPrimerSet(
	ctx context.Context,
	name, versionHash string,
) (imported int, err error) {
	defer s.observe("import_primer_set", time.Now(), &err)

	log.Info().
		Str("name", name).
		Str("versionHash", versionHash).
		Msg("Primer set import requested")

	if s.archive == nil {
		return 0, newArchiveUnavailableError("primer set import")
	}
	if err = validateSetName(name); err != nil {
		return 0, err
	}
	if err = validateVersionHash(versionHash); err != nil {
		return 0, err
	}

	content, err := s.archive.GetPrimerSet(ctx, name, versionHash)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to get primer set")

		return 0, wrapArchiveError(err, "retrieving primer set")
	}
	if actual := archive.VersionHash(content); actual != versionHash {
		err = fmt.Errorf("%w: expected %s, got %s", ErrCorruptPrimerSet, versionHash, actual)
		log.Error().Err(err).Str("name", name).Msg("Primer set failed integrity check")

		return 0, wrapServiceError(err, "retrieving primer set")
	}

	entries, err := decodePrimerSet(name, content)
	if err != nil {
		return 0, wrapServiceError(err, "parsing primer set")
	}
	for i, e := range entries {
		if entries[i].Forward, err = s.checkSequence(e.GeneID+" forward sequence", e.Forward); err != nil {
			return 0, err
		}
		if entries[i].Reverse, err = s.checkSequence(e.GeneID+" reverse sequence", e.Reverse); err != nil {
			return 0, err
		}
	}

	err = s.db.Transaction(ctx, func(tx *orm.DB) error {
		genes := make(map[string]*orm.Gene)
		for _, e := range entries {
			gene, ok := genes[e.GeneID]
			if !ok {
				var err error
				if gene, err = geneOrNew(ctx, tx, e.GeneID); err != nil {
					return err
				}
				genes[e.GeneID] = gene
			}

			if err := orm.NewPrimerPair(gene, e.Forward, e.Reverse).Save(ctx, tx); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to import primer set")

		return 0, wrapServiceError(err, "importing primer set")
	}

	log.Info().
		Str("name", name).
		Str("versionHash", versionHash).
		Int("pairs", len(entries)).
		Msg("Primer set imported")

	return len(entries), nil
}

// DeletePrimerSet removes one version of a primer set from the archive.
func (s *Service) DeletePrimerSet(ctx context.Context, name, versionHash string) (err error) {
	defer s.observe("delete_primer_set", time.Now(), &err)

	log.Info().
		Str("name", name).
		Str("versionHash", versionHash).
		Msg("Deletion of primer set requested")

	if s.archive == nil {
		return newArchiveUnavailableError("primer set deletion")
	}
	if err = validateSetName(name); err != nil {
		return err
	}
	if err = validateVersionHash(versionHash); err != nil {
		return err
	}

	if err = s.archive.DeletePrimerSet(ctx, name, versionHash); err != nil {
		log.Error().Err(err).Str("name", name).Msg("Failed to delete primer set")

		return wrapArchiveError(err, "deleting primer set")
	}

	return nil
}

// wrapArchiveError classifies backend failures other than a missing set as
// unavailable.
func wrapArchiveError(err error, operation string) error {
	if errors.Is(err, archive.ErrPrimerSetNotFound) {
		return wrapServiceError(err, operation)
	}

	if errors.Is(err, archive.ErrInvalidKey) {
		return &ServiceError{
			Code:    codes.InvalidArgument,
			Message: "Invalid primer set key for " + operation,
			Inner:   err,
		}
	}

	return &ServiceError{
		Code:    codes.Unavailable,
		Message: "Primer set archive unavailable for " + operation,
		Inner:   err,
	}
}
