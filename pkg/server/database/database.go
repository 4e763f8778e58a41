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

// Package database defines the models and opens connections to the
// relational store
package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Song{},
		&Comment{},
		&Like{},
		&PromptHistory{},
	); err != nil {
		panic(err)
	}
}

// IsPostgres reports whether the given DSN points to a postgres server
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func dialector(dsn string) (gorm.Dialector, error) {
	if IsPostgres(dsn) {
		return postgres.Open(dsn), nil
	}

	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}
	}

	return sqlite.Open(dsn), nil
}

// Open initializes the database connection. The DSN is either a postgres
// URL or a path to a sqlite database file.
func Open(dsn, logLevel string) *gorm.DB {
	d, err := dialector(dsn)
	if err != nil {
		panic(err)
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:                                   logger.Default.LogMode(getDBLogLevel(logLevel)),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		panic(errors.Wrap(err, "opening database conection"))
	}

	return db
}
