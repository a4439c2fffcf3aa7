// Package app builds the services shared by the binaries from the
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	clientStore "github.com/MrJamesThe3rd/cabinetdoc/internal/client/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/config"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/database"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/export"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv/file"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/kv/postgres"
	kvRedis "github.com/MrJamesThe3rd/cabinetdoc/internal/kv/redis"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
	libraryStore "github.com/MrJamesThe3rd/cabinetdoc/internal/library/store"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

type App struct {
	Store     kv.Store
	Clients   *client.Service
	Documents *library.Service
	Importer  *importer.Service
	Exporter  *export.Service
	Firm      render.Firm

	closers []io.Closer
}

// New opens the configured store and wires the services on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.Store = store
	a.Firm = Firm(cfg)
	a.Clients = client.NewService(clientStore.New(store))
	a.Documents = library.NewService(libraryStore.New(store), a.Clients,
		library.WithStrictPersistence(cfg.Persistence.Strict))
	a.Importer = importer.NewService(a.Clients, a.Documents)
	a.Exporter = export.NewService(a.Documents, a.Clients, a.Firm)

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	slog.Info("opening store", "backend", cfg.Store.Backend)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil
	case config.BackendFile:
		s, err := file.Open(cfg.Store.File)
		if err != nil {
			return nil, fmt.Errorf("opening file store: %w", err)
		}

		a.closers = append(a.closers, s)

		return s, nil
	case config.BackendPostgres:
		db, err := database.New(cfg.ConnectionString(), database.Pool{
			MaxOpen:     cfg.DB.MaxOpen,
			MaxIdle:     cfg.DB.MaxIdle,
			MaxLifetime: cfg.DB.MaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		a.closers = append(a.closers, db)

		if cfg.DB.Migrate {
			if err := database.Migrate(db); err != nil {
				return nil, errors.Join(err, a.Close())
			}
		}

		return postgres.New(db), nil
	case config.BackendRedis:
		rdb, err := kvRedis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}

		a.closers = append(a.closers, rdb)

		return kvRedis.New(rdb, cfg.Redis.Prefix), nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Close releases the store connections.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}

// Firm merges the configured cabinet identity over the built-in one.
func Firm(cfg *config.Config) render.Firm {
	f := render.DefaultFirm()

	for _, o := range []struct {
		dst *string
		val string
	}{
		{&f.Name, cfg.Firm.Name},
		{&f.Title, cfg.Firm.Title},
		{&f.Address, cfg.Firm.Address},
		{&f.Agrement, cfg.Firm.Agrement},
		{&f.NIF, cfg.Firm.NIF},
		{&f.NIS, cfg.Firm.NIS},
		{&f.AI, cfg.Firm.AI},
		{&f.BankName, cfg.Firm.BankName},
		{&f.RIB, cfg.Firm.RIB},
		{&f.BankAddress, cfg.Firm.BankAddress},
		{&f.City, cfg.Firm.City},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}

	return f
}
