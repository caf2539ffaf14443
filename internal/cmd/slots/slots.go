// Package slots parses slots command configuration and composes the slot
// registry, its sources, and the page server.
package slots

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	entrypoint "github.com/louisbranch/pageslots/internal/platform/cmd"
	server "github.com/louisbranch/pageslots/internal/services/slots/app"
	"github.com/louisbranch/pageslots/internal/slots"
	"github.com/louisbranch/pageslots/internal/slots/catalog"
	"github.com/louisbranch/pageslots/internal/slots/slotconfig"
	"github.com/louisbranch/pageslots/internal/slots/storage"
	storagesqlite "github.com/louisbranch/pageslots/internal/slots/storage/sqlite"
)

// Config holds slots command configuration.
type Config struct {
	HTTPAddr  string        `env:"HTTP_ADDR"  envDefault:"localhost:8095"`
	AppName   string        `env:"APP_NAME"   envDefault:"Page Slots"`
	SlotsFile string        `env:"SLOTS_FILE"`
	DBPath    string        `env:"DB_PATH"`
	Watch     bool          `env:"WATCH"`
	CacheTTL  time.Duration `env:"CACHE_TTL"  envDefault:"5m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AppName, "app-name", cfg.AppName, "application name used in page titles")
	fs.StringVar(&cfg.SlotsFile, "slots-file", cfg.SlotsFile, "YAML file listing slot registrations")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite slot registration database path")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the slots file when it changes")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "dispatch cache TTL (0 disables caching)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Watch && strings.TrimSpace(cfg.SlotsFile) == "" {
		return Config{}, errors.New("watch requires a slots file")
	}
	return cfg, nil
}

// Run builds the slot registry from the configured sources and serves pages
// until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSlots, func(ctx context.Context) error {
		src, err := openSources(cfg)
		if err != nil {
			return err
		}
		defer src.Close()

		registry := slots.NewRegistry()
		if err := src.reload(ctx, registry); err != nil {
			return fmt.Errorf("load slots: %w", err)
		}

		dispatcher := newDispatcher(registry, cfg.CacheTTL)

		if cfg.Watch {
			stop := startWatch(ctx, cfg.SlotsFile, src, registry)
			defer stop()
		}

		srv, err := server.NewServer(server.Config{
			HTTPAddr:   cfg.HTTPAddr,
			AppName:    cfg.AppName,
			Dispatcher: dispatcher,
		})
		if err != nil {
			return fmt.Errorf("init page server: %w", err)
		}
		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve pages: %w", err)
		}
		return nil
	})
}

// startWatch reloads registry from src whenever the slots file changes. The
// returned stop function cancels the watch and waits for it to exit, so src
// is not closed under an in-flight reload.
func startWatch(ctx context.Context, file string, src *sources, registry *slots.Registry) (stop func()) {
	watchCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := slotconfig.Watch(watchCtx, file, func() error {
			if err := src.reload(watchCtx, registry); err != nil {
				return err
			}
			log.Printf("reloaded %d slot(s) from %s", len(registry.Slots()), file)
			return nil
		})
		if err != nil {
			log.Printf("watch slots file: %v", err)
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

func newDispatcher(registry *slots.Registry, ttl time.Duration) slots.Dispatcher {
	if ttl <= 0 {
		return slots.Direct(registry)
	}
	return slots.NewCachedDispatcher(registry, ttl)
}

// sources produces registry contents from the database and the slots file.
type sources struct {
	catalog *catalog.Catalog
	store   *storagesqlite.Store
	file    string
}

func openSources(cfg Config) (*sources, error) {
	src := &sources{
		catalog: catalog.New(),
		file:    strings.TrimSpace(cfg.SlotsFile),
	}
	if dbPath := strings.TrimSpace(cfg.DBPath); dbPath != "" {
		store, err := storagesqlite.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open slot store: %w", err)
		}
		src.store = store
	}
	return src, nil
}

// Close releases the database handle when one is open.
func (s *sources) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

// load merges stored entries ahead of file entries for each slot.
func (s *sources) load(ctx context.Context) (map[string][]slots.Entry, error) {
	var stored, fromFile map[string][]slots.Entry
	if s.store != nil {
		entries, err := storage.LoadEntries(ctx, s.store, s.catalog)
		if err != nil {
			return nil, err
		}
		stored = entries
	}
	if s.file != "" {
		entries, err := slotconfig.LoadFile(s.file, s.catalog)
		if err != nil {
			return nil, err
		}
		fromFile = entries
	}
	return slots.MergeEntries(stored, fromFile), nil
}

// reload replaces registry contents. The registry is untouched on failure.
func (s *sources) reload(ctx context.Context, registry *slots.Registry) error {
	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	registry.Replace(entries)
	return nil
}
