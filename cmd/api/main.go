package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/app"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/config"
	cabinetHttp "github.com/MrJamesThe3rd/cabinetdoc/internal/http"
	clientHandler "github.com/MrJamesThe3rd/cabinetdoc/internal/http/client"
	documentHandler "github.com/MrJamesThe3rd/cabinetdoc/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/cabinetdoc/internal/http/export"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		documentsH = documentHandler.NewHandler(a.Documents, a.Clients, a.Firm)
		clientsH   = clientHandler.NewHandler(a.Clients, a.Importer)
		exportH    = exportHandler.NewHandler(a.Exporter)
	)

	router := cabinetHttp.New(cfg.CORS.AllowedOrigins, documentsH, clientsH, exportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "store", cfg.Store.Backend)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
