// Package main starts the page server that fills layout slots from the slot
// registry.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	slotscmd "github.com/louisbranch/pageslots/internal/cmd/slots"
)

func main() {
	log.SetPrefix("[SLOTS] ")
	cfg, err := slotscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := slotscmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
