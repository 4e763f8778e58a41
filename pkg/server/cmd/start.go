/* Copyright 2025 Lyricsmith Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/server/buildinfo"
	"github.com/lyricsmith/lyricsmith/pkg/server/config"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newStartCmd() *cobra.Command {
	var p config.Params

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), p)
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.AppEnv, "appEnv", "", "Application environment (env: APP_ENV, default: DEVELOPMENT)")
	f.StringVar(&p.Port, "port", "", "Server port (env: PORT, default: 4000)")
	f.StringVar(&p.DatabaseURL, "databaseUrl", "", "Postgres URL or path to a SQLite database file (env: DATABASE_URL, default: $XDG_DATA_HOME/lyricsmith/server.db)")
	f.StringVar(&p.LogLevel, "logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	return cmd
}

func runStart(ctx context.Context, p config.Params) error {
	cfg, err := config.New(p)
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	log.SetLevel(cfg.LogLevel)

	a, cleanup, err := initApp(cfg)
	if err != nil {
		return errors.Wrap(err, "initializing app")
	}
	defer cleanup()

	scheduler, err := database.StartMaintenance(a.DB, a.Clock)
	if err != nil {
		return errors.Wrap(err, "starting maintenance jobs")
	}
	defer scheduler.Stop()

	handler, err := newHandler(a)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"env":      cfg.AppEnv,
		"postgres": database.IsPostgres(cfg.DatabaseURL),
	}).Info("Lyricsmith server starting")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return errors.Wrap(err, "serving http")
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutting down server")
}
