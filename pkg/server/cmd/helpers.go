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
	"fmt"
	"io"
	"net/http"

	"github.com/fatih/color"
	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/config"
	"github.com/lyricsmith/lyricsmith/pkg/server/controllers"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/llm"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/lyricsmith/lyricsmith/pkg/server/mailer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	colorRed   = color.New(color.FgRed)
	colorGreen = color.New(color.FgGreen)
	colorBlue  = color.New(color.FgBlue)
)

func printSuccess(w io.Writer, msg string, v ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", colorGreen.Sprint("✔"), fmt.Sprintf(msg, v...))
}

func printInfo(w io.Writer, msg string, v ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", colorBlue.Sprint("•"), fmt.Sprintf(msg, v...))
}

// PrintError prints a failed command's error
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s Error: %s\n", colorRed.Sprint("⨯"), err)
}

func initDB(cfg config.Config) (*gorm.DB, error) {
	db := database.Open(cfg.DatabaseURL, cfg.LogLevel)
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "running migrations")
	}

	return db, nil
}

func getEmailBackend(cfg config.Config) mailer.Backend {
	b, err := mailer.NewDefaultBackend(mailer.SMTPParams{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		log.Debug("SMTP not configured, using StdoutBackend for emails")
		return mailer.NewStdoutBackend()
	}

	log.Debug("Email backend configured")
	return b
}

func getGenerator(cfg config.Config) llm.Generator {
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, lyrics will come from the stub generator")
		return llm.Stub{}
	}

	return llm.NewOpenAIClient(llm.OpenAIParams{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.LLMTimeout,
	})
}

// initApp wires the app from the configuration. The returned function
// closes the database.
func initApp(cfg config.Config) (*app.App, func(), error) {
	db, err := initDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	a := &app.App{
		DB:           db,
		Clock:        clock.New(),
		EmailBackend: getEmailBackend(cfg),
		Generator:    getGenerator(cfg),
		Config:       cfg,
	}
	cleanup := func() {
		sqlDB, err := a.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return a, cleanup, nil
}

// setupAppWithDB initializes an app for the maintenance commands
func setupAppWithDB(databaseURL string) (*app.App, func(), error) {
	cfg, err := config.New(config.Params{
		DatabaseURL: databaseURL,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading configuration")
	}
	log.SetLevel(cfg.LogLevel)

	return initApp(cfg)
}

func newHandler(a *app.App) (http.Handler, error) {
	ctl := controllers.New(a)
	rc := controllers.RouteConfig{
		WebRoutes:   controllers.NewWebRoutes(a, ctl),
		APIRoutes:   controllers.NewAPIRoutes(a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(a, rc)
	if err != nil {
		return nil, errors.Wrap(err, "initializing router")
	}

	return r, nil
}
