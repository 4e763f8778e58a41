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

// Package config builds the server configuration from flags, the
// environment and defaults
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/dirs"
	"github.com/lyricsmith/lyricsmith/pkg/server/helpers"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvDevelopment represents an app environment for development.
	AppEnvDevelopment string = "DEVELOPMENT"

	// DefaultJWTSecret is the signing secret used when none is configured.
	// It is rejected in production.
	DefaultJWTSecret = "lyricsmith-dev-secret"
	// DefaultOpenAIModel is the chat model used for lyrics generation
	DefaultOpenAIModel = "gpt-4o-mini"
)

// DefaultOrigins are the browser origins always allowed by CORS
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3005",
	"http://localhost:4000",
	"http://localhost:4001",
}

var (
	// ErrDBMissingURL is an error for an incomplete configuration missing the database url
	ErrDBMissingURL = errors.New("Database URL is empty")
	// ErrURLInvalid is an error for a configuration with an invalid url
	ErrURLInvalid = errors.New("Invalid URL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrJWTSecretInsecure is an error for a production configuration using the default secret
	ErrJWTSecretInsecure = errors.New("JWT_SECRET must be set in production")
	// ErrOpenAIKeyMissing is an error for a production configuration without an LLM API key
	ErrOpenAIKeyMissing = errors.New("OPENAI_API_KEY must be set in production")
	// ErrLogLevelInvalid is an error for an unknown log level
	ErrLogLevelInvalid = errors.New("Invalid log level")
	// ErrDurationInvalid is an error for a non-positive or malformed duration
	ErrDurationInvalid = errors.New("Invalid duration")
	// ErrSMTPPortInvalid is an error for a malformed SMTP port
	ErrSMTPPortInvalid = errors.New("Invalid SMTP port")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// SMTP holds the outbound mail settings
type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Google holds the OAuth client settings for Google sign in
type Google struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether Google sign in is configured
func (g Google) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.CallbackURL != ""
}

// Config is an application configuration
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	LogLevel          string
	JWTSecret         string
	JWTExpiresIn      time.Duration
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	LLMTimeout        time.Duration
	SMTP              SMTP
	FrontendURLs      []string
	AdminURL          string
	APIURL            string
	Google            Google
	ResetTokenExpires time.Duration
}

// Params are the configuration parameters for creating a new Config.
// Empty values fall back to environment variables and defaults.
type Params struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	LogLevel    string
}

// parseDuration parses a Go duration or a whole number of days such as "7d"
func parseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return 0, errors.Wrapf(ErrDurationInvalid, "'%s'", s)
		}

		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(ErrDurationInvalid, "'%s'", s)
	}

	return d, nil
}

// parseMillis parses a number of milliseconds
func parseMillis(s string) (time.Duration, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrDurationInvalid, "'%s'", s)
	}

	return time.Duration(ms) * time.Millisecond, nil
}

// New constructs and returns a new validated config.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:        getOrEnv(p.AppEnv, "APP_ENV", AppEnvDevelopment),
		Port:          getOrEnv(p.Port, "PORT", "4000"),
		DatabaseURL:   getOrEnv(p.DatabaseURL, "DATABASE_URL", dirs.DefaultDBPath()),
		LogLevel:      getOrEnv(p.LogLevel, "LOG_LEVEL", log.LevelInfo),
		JWTSecret:     getOrEnv("", "JWT_SECRET", DefaultJWTSecret),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getOrEnv("", "OPENAI_MODEL", DefaultOpenAIModel),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		FrontendURLs: helpers.ParseOrigins(getOrEnv("", "FRONTEND_URL", "http://localhost:3000")),
		AdminURL:     helpers.NormalizeOrigin(getOrEnv("", "ADMIN_URL", "http://localhost:3005")),
		Google: Google{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		},
	}
	c.APIURL = helpers.NormalizeOrigin(getOrEnv("", "API_URL", "http://localhost:"+c.Port))

	var err error
	if c.JWTExpiresIn, err = parseDuration(getOrEnv("", "JWT_EXPIRES_IN", "7d")); err != nil {
		return Config{}, err
	}
	if c.LLMTimeout, err = parseDuration(getOrEnv("", "LLM_TIMEOUT", "60s")); err != nil {
		return Config{}, err
	}
	if c.ResetTokenExpires, err = parseMillis(getOrEnv("", "RESET_TOKEN_EXPIRES", "900000")); err != nil {
		return Config{}, err
	}
	if c.SMTP.Port, err = strconv.Atoi(getOrEnv("", "SMTP_PORT", "587")); err != nil {
		return Config{}, errors.Wrapf(ErrSMTPPortInvalid, "'%s'", os.Getenv("SMTP_PORT"))
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// FrontendURL returns the primary frontend url used to build redirects
func (c Config) FrontendURL() string {
	if len(c.FrontendURLs) == 0 {
		return ""
	}

	return c.FrontendURLs[0]
}

// AllowedOrigins returns the normalized browser origins allowed by CORS
func (c Config) AllowedOrigins() []string {
	seen := map[string]bool{}
	ret := []string{}

	candidates := append([]string{}, DefaultOrigins...)
	candidates = append(candidates, c.FrontendURLs...)
	candidates = append(candidates, c.AdminURL)

	for _, o := range candidates {
		o = helpers.NormalizeOrigin(o)
		if o == "" || seen[o] {
			continue
		}

		seen[o] = true
		ret = append(ret, o)
	}

	return ret
}

func validateURL(raw string) error {
	if _, err := url.ParseRequestURI(raw); err != nil {
		return errors.Wrapf(ErrURLInvalid, "'%s'", raw)
	}

	return nil
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.Wrapf(ErrPortInvalid, "'%s'", c.Port)
	}
	if c.DatabaseURL == "" {
		return ErrDBMissingURL
	}
	if !log.IsValidLevel(c.LogLevel) {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}
	if c.IsProd() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrJWTSecretInsecure
	}
	if c.IsProd() && c.OpenAIAPIKey == "" {
		return ErrOpenAIKeyMissing
	}
	if c.JWTExpiresIn <= 0 || c.LLMTimeout <= 0 || c.ResetTokenExpires <= 0 {
		return ErrDurationInvalid
	}

	for _, u := range c.FrontendURLs {
		if err := validateURL(u); err != nil {
			return err
		}
	}
	if err := validateURL(c.APIURL); err != nil {
		return err
	}

	return nil
}
