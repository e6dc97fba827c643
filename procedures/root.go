// Package procedures wires configuration, storage and the registry service
// into the primer-registry command line.
package procedures

import (
	"context"
	"errors"
	"fmt"
	"io"

	"primer-registry/archive"
	"primer-registry/archive/filesystemArchive"
	"primer-registry/archive/memoryArchive"
	"primer-registry/archive/s3"
	"primer-registry/config"
	"primer-registry/orm"
	"primer-registry/registry"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// annotation set on commands that do not open the store
const skipSetup = "skip-setup"

// CommandHandler carries the state shared by all subcommands. It is filled in
// by the root command before any subcommand runs.
type CommandHandler struct {
	configPath string

	cfg     *config.AppConfig
	db      *orm.DB
	metrics *registry.Metrics
	service *registry.Service
}

// Execute runs the command line given by args and releases the store
// afterwards, also when the command failed.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	handler := &CommandHandler{}
	rootCmd := handler.NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	return errors.Join(err, handler.Close())
}

// NewRootCommand builds the command tree.
func (h *CommandHandler) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "primer-registry",
		Short: "Store genes and PCR primer pairs",
		Long: `primer-registry stores gene sequences and the primer pairs designed
against them, computes the Wallace melting temperature of every primer and
exports the primer library as versioned primer set files.

Configuration is read from the optional --config file and PRIMER_REGISTRY_*
environment variables; the flags below take precedence over both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: h.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&h.configPath, "config", "", "Path to a YAML config file")
	flags.String("database", "", "Path to the sqlite database file")
	flags.String("archive-dir", "", "Directory of the filesystem primer set archive")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("metrics-file", "", "Write operation metrics to this file on exit")
	flags.Bool("strict", false, "Reject sequences that are not IUPAC DNA")

	h.initGeneCommands(rootCmd)
	h.initPairCommands(rootCmd)
	h.initPrimerSetCommands(rootCmd)
	h.initMiscCommands(rootCmd)

	return rootCmd
}

// flagOverrides maps explicitly set flags to configuration keys.
func flagOverrides(cmd *cobra.Command) []config.DefaultValue {
	flagKeys := map[string]string{
		"database":     "database.path",
		"archive-dir":  "archive.storage_dir",
		"log-level":    "log_level",
		"metrics-file": "metrics_file",
		"strict":       "strict_sequences",
	}

	var overrides []config.DefaultValue
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}

		var value any = f.Value.String()
		if flag == "strict" {
			value, _ = cmd.Flags().GetBool(flag)
		}
		overrides = append(overrides, config.DefaultValue{Key: key, Value: value})
	}

	return overrides
}

func (h *CommandHandler) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		return nil
	}

	cfg, err := config.Load(h.configPath, flagOverrides(cmd)...)
	if err != nil {
		return err
	}
	config.ConfigureLogging(cfg)
	h.cfg = cfg

	db, err := orm.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	h.db = db

	h.metrics = registry.NewMetrics()
	h.service = registry.NewService(
		db,
		registry.WithArchive(initializeArchive(cfg.Archive)),
		registry.WithMetrics(h.metrics),
		registry.WithStrictSequences(cfg.StrictSequences),
	)

	log.Debug().Str("location", db.Location()).Msg("Store ready")

	return nil
}

// Close writes the metrics file when configured and closes the store. It is
// safe to call when setup never ran.
func (h *CommandHandler) Close() error {
	var errs []error

	if h.metrics != nil && h.cfg != nil && h.cfg.MetricsFile != "" {
		errs = append(errs, h.metrics.WriteTextfile(h.cfg.MetricsFile))
	}

	if h.db != nil {
		errs = append(errs, h.db.Close())
		h.db = nil
	}

	return errors.Join(errs...)
}

// initializeArchive builds the configured backend. A backend that cannot be
// created is logged and left out; primer set commands then report the
// archive as unavailable.
func initializeArchive(cfg config.ArchiveConfig) archive.Archive {
	switch cfg.Type {
	case "memory":
		log.Debug().Msg("memory archive initialized")

		return memoryArchive.New()
	case "s3":
		return initS3Archive(cfg.S3)
	case "filesystem":
		return initFilesystemArchive(cfg)
	default:
		log.Warn().Msgf("unknown archive type '%s', defaulting to filesystem", cfg.Type)

		return initFilesystemArchive(cfg)
	}
}

func initFilesystemArchive(cfg config.ArchiveConfig) archive.Archive {
	storageDir := cfg.StorageDirAbs()
	fsArchive, err := filesystemArchive.New(storageDir)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize filesystem archive")

		return nil
	}
	log.Debug().
		Str("storage_dir", storageDir).
		Msg("filesystem archive initialized")

	return fsArchive
}

func initS3Archive(cfg config.S3Config) archive.Archive {
	s3Archive, err := s3.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize s3 archive")

		return nil
	}
	log.Debug().Str("bucket", s3Archive.Bucket).Msg("s3 archive initialized")

	return s3Archive
}
