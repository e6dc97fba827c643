package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"primer-registry/procedures"
	"primer-registry/registry"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := procedures.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		log.Fatal().
			Err(err).
			Str("code", registry.Code(err).String()).
			Msg("primer-registry failed")
	}
}
