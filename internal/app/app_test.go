package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/app"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/config"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

func TestNew_Backends(t *testing.T) {
	type testCase struct {
		name  string
		setup func(t *testing.T, cfg *config.Config)
	}

	tests := []testCase{
		{
			name: "Memory",
			setup: func(_ *testing.T, cfg *config.Config) {
				cfg.Store.Backend = config.BackendMemory
			},
		},
		{
			name: "File",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Store.Backend = config.BackendFile
				cfg.Store.File = filepath.Join(t.TempDir(), "store.json")
			},
		},
		{
			name: "Redis",
			setup: func(t *testing.T, cfg *config.Config) {
				cfg.Store.Backend = config.BackendRedis
				cfg.Redis.Addr = miniredis.RunT(t).Addr()
				cfg.Redis.Prefix = "test:"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			tt.setup(t, cfg)

			a, err := app.New(context.Background(), cfg)
			require.NoError(t, err)

			defer func() { assert.NoError(t, a.Close()) }()

			_, err = a.Clients.Create(context.Background(), client.CreateParams{Nom: "SARL Atlas", Adresse: "Oran"})
			require.NoError(t, err)

			list, err := a.Clients.List(context.Background(), client.ListFilter{})
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Backend = "sqlite"

	_, err := app.New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestFirm(t *testing.T) {
	cfg := &config.Config{}
	cfg.Firm.City = "Oran"
	cfg.Firm.RIB = "001"

	f := app.Firm(cfg)

	assert.Equal(t, "Oran", f.City)
	assert.Equal(t, "001", f.RIB)
	assert.Equal(t, render.DefaultFirm().Name, f.Name)
}
