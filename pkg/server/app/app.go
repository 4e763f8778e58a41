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

// Package app implements the domain operations of the server. Controllers
// authenticate the request and pass the acting principal explicitly.
package app

import (
	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/config"
	"github.com/lyricsmith/lyricsmith/pkg/server/llm"
	"github.com/lyricsmith/lyricsmith/pkg/server/mailer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
	// ErrEmptyGenerator is an error for missing lyrics generator in the app configuration
	ErrEmptyGenerator = errors.New("No lyrics generator was provided")
	// ErrEmptyJWTSecret is an error for missing token signing secret
	ErrEmptyJWTSecret = errors.New("No JWT secret was provided")
	// ErrEmptyAPIURL is an error for missing API url used to build email links
	ErrEmptyAPIURL = errors.New("No API URL was provided")
)

// App is an application context
type App struct {
	DB           *gorm.DB
	Clock        clock.Clock
	EmailBackend mailer.Backend
	Generator    llm.Generator
	Config       config.Config
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.Generator == nil {
		return ErrEmptyGenerator
	}
	if a.Config.JWTSecret == "" {
		return ErrEmptyJWTSecret
	}
	if a.Config.APIURL == "" {
		return ErrEmptyAPIURL
	}

	return nil
}
