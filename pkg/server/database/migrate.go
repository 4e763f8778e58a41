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

package database

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/database/migrations"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type migrationFile struct {
	filename string
	version  int
}

// validateMigrationFilename checks if filename follows format: NNN-description.sql
func validateMigrationFilename(name string) error {
	if !strings.HasSuffix(name, ".sql") {
		return errors.Errorf("invalid migration filename %s: must end with .sql", name)
	}

	parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "-", 2)
	if len(parts) != 2 {
		return errors.Errorf("invalid migration filename %s: must be NNN-description.sql", name)
	}

	version, description := parts[0], parts[1]
	if len(version) != 3 {
		return errors.Errorf("invalid migration filename %s: version must be 3 digits", name)
	}
	for _, c := range version {
		if c < '0' || c > '9' {
			return errors.Errorf("invalid migration filename %s: version must be numeric", name)
		}
	}
	if description == "" {
		return errors.Errorf("invalid migration filename %s: description is required", name)
	}

	return nil
}

// Migrate runs the migrations using the embedded migration files
func Migrate(db *gorm.DB) error {
	return migrate(db, migrations.Files)
}

func getMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading migration directory")
	}

	var files []migrationFile
	seen := make(map[int]string)
	for _, e := range entries {
		name := e.Name()

		if err := validateMigrationFilename(name); err != nil {
			return nil, err
		}

		var v int
		if _, err := fmt.Sscanf(name, "%d", &v); err != nil {
			return nil, errors.Wrapf(err, "parsing version of %s", name)
		}

		if existing, found := seen[v]; found {
			return nil, errors.Errorf("duplicate migration version %d: %s and %s", v, existing, name)
		}
		seen[v] = name

		files = append(files, migrationFile{
			filename: name,
			version:  v,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].version < files[j].version
	})

	return files, nil
}

func applyMigration(db *gorm.DB, fsys fs.FS, m migrationFile) error {
	sql, err := fs.ReadFile(fsys, m.filename)
	if err != nil {
		return errors.Wrapf(err, "reading migration file %s", m.filename)
	}

	if len(strings.TrimSpace(string(sql))) == 0 {
		return errors.Errorf("migration file %s is empty", m.filename)
	}

	tx := db.Begin()
	if err := tx.Exec(string(sql)).Error; err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "migration %s failed", m.filename)
	}
	if err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version).Error; err != nil {
		tx.Rollback()
		return errors.Wrapf(err, "recording migration %s", m.filename)
	}

	return errors.Wrapf(tx.Commit().Error, "committing migration %s", m.filename)
}

// migrate runs migrations from the provided filesystem
func migrate(db *gorm.DB, fsys fs.FS) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return errors.Wrap(err, "initializing migration table")
	}

	var version int
	if err := db.Raw("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version).Error; err != nil {
		return errors.Wrap(err, "reading current version")
	}

	files, err := getMigrationFiles(fsys)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"version": version,
		"files":   len(files),
	}).Debug("Database schema version.")

	for _, m := range files {
		if m.version <= version {
			continue
		}

		if err := applyMigration(db, fsys, m); err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"file": m.filename,
		}).Info("Applied migration.")
	}

	return nil
}
