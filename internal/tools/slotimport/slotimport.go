// Package slotimport loads slot registrations from a YAML file into the
// registration database.
package slotimport

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/pageslots/internal/slots/catalog"
	"github.com/louisbranch/pageslots/internal/slots/slotconfig"
	"github.com/louisbranch/pageslots/internal/slots/storage"
	storagesqlite "github.com/louisbranch/pageslots/internal/slots/storage/sqlite"
)

// Config holds configuration for the slot importer.
type Config struct {
	File    string
	DBPath  string
	Replace bool
	DryRun  bool
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "slots.db"),
	}

	fs.StringVar(&cfg.File, "file", "", "YAML file listing slot registrations")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "slot registration database path")
	fs.BoolVar(&cfg.Replace, "replace", false, "remove stored registrations the file no longer lists for its slots")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.File) == "" {
		return Config{}, errors.New("file is required")
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db-path is required")
	}
	return cfg, nil
}

// Run executes the importer using the provided Config.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}

	registrations, err := slotconfig.ParseFile(cfg.File)
	if err != nil {
		return err
	}
	if _, err := storage.BuildEntries(registrations, catalog.New()); err != nil {
		return fmt.Errorf("validate %s: %w", cfg.File, err)
	}

	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d registration(s)\n", len(registrations))
		return err
	}

	store, err := storagesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open slot store: %w", err)
	}
	defer store.Close()

	removed := 0
	if cfg.Replace {
		removed, err = removeStale(ctx, store, registrations)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	for _, registration := range registrations {
		registration.UpdatedAt = now
		if err := store.PutRegistration(ctx, registration); err != nil {
			return fmt.Errorf("import slot %q position %d: %w", registration.Slot, registration.Position, err)
		}
	}

	if removed > 0 {
		_, err = fmt.Fprintf(out, "imported %d registration(s) into %s, removed %d\n", len(registrations), cfg.DBPath, removed)
		return err
	}
	_, err = fmt.Fprintf(out, "imported %d registration(s) into %s\n", len(registrations), cfg.DBPath)
	return err
}

// removeStale deletes stored registrations in the imported slots whose
// position is not listed by the file. Slots absent from the file are kept.
func removeStale(ctx context.Context, store storage.RegistrationStore, incoming []storage.Registration) (int, error) {
	type key struct {
		slot     string
		position int
	}
	listed := make(map[key]struct{}, len(incoming))
	imported := make(map[string]struct{})
	for _, registration := range incoming {
		listed[key{registration.Slot, registration.Position}] = struct{}{}
		imported[registration.Slot] = struct{}{}
	}

	existing, err := store.ListRegistrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored registrations: %w", err)
	}
	removed := 0
	for _, registration := range existing {
		if _, ok := imported[registration.Slot]; !ok {
			continue
		}
		if _, ok := listed[key{registration.Slot, registration.Position}]; ok {
			continue
		}
		if err := store.DeleteRegistration(ctx, registration.Slot, registration.Position); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return removed, fmt.Errorf("remove slot %q position %d: %w", registration.Slot, registration.Position, err)
		}
		removed++
	}
	return removed, nil
}
