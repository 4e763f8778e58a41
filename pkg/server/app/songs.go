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

package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/helpers"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/lyricsmith/lyricsmith/pkg/server/metrics"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// MinCreativity is the lowest creativity level
	MinCreativity = 1
	// MaxCreativity is the highest creativity level
	MaxCreativity = 10
	// PopularSongsLimit is the number of songs in the popular listing
	PopularSongsLimit = 10
)

// GenerateSongParams is the request to generate a song
type GenerateSongParams struct {
	Title      string
	Topic      string
	Mood       string
	Genre      string
	Language   string
	Style      string
	Era        string
	Verses     string
	Creativity int
}

func (p *GenerateSongParams) trim() {
	p.Title = strings.TrimSpace(p.Title)
	p.Topic = strings.TrimSpace(p.Topic)
	p.Mood = strings.TrimSpace(p.Mood)
	p.Genre = strings.TrimSpace(p.Genre)
	p.Language = strings.TrimSpace(p.Language)
	p.Style = strings.TrimSpace(p.Style)
	p.Era = strings.TrimSpace(p.Era)
	p.Verses = strings.TrimSpace(p.Verses)
}

// Validate checks that every field required by the prompt is present
func (p GenerateSongParams) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"title", p.Title},
		{"topic", p.Topic},
		{"mood", p.Mood},
		{"genre", p.Genre},
		{"language", p.Language},
		{"era", p.Era},
		{"verses", p.Verses},
	}
	for _, f := range required {
		if f.value == "" {
			return validationError("%s is required", f.name)
		}
	}

	if p.Creativity < MinCreativity || p.Creativity > MaxCreativity {
		return validationError("creativity must be between %d and %d", MinCreativity, MaxCreativity)
	}

	return nil
}

// generateLyrics calls the lyrics service. The underlying failure is logged
// and replaced by ErrGenerationFailed.
func (a *App) generateLyrics(ctx context.Context, userID, prompt string) (string, error) {
	start := time.Now()

	lyrics, err := a.Generator.GenerateLyrics(ctx, prompt)
	if err != nil {
		metrics.RecordLLMRequest(metrics.ResultFailure, time.Since(start))
		log.WithFields(log.Fields{
			"userId": userID,
			"err":    err,
		}).Error("Lyrics generation failed.")

		return "", ErrGenerationFailed
	}

	metrics.RecordLLMRequest(metrics.ResultSuccess, time.Since(start))

	return lyrics, nil
}

// GenerateSong checks the daily quota, generates lyrics for the request and
// persists the song together with the prompt that produced it. Generation
// is serialized per user and the writes happen in a single transaction.
func (a *App) GenerateSong(ctx context.Context, p permissions.Principal, params GenerateSongParams) (database.Song, error) {
	params.trim()
	if err := params.Validate(); err != nil {
		return database.Song{}, err
	}

	unlock := generationLocks.Lock(p.ID)
	defer unlock()

	if err := a.CheckDailyQuota(a.DB, p.ID); err != nil {
		if err == ErrQuotaExceeded {
			metrics.RecordGeneration(metrics.ResultQuotaExceeded)
		}
		return database.Song{}, err
	}

	prompt := ComposePrompt(params)

	lyrics, err := a.generateLyrics(ctx, p.ID, prompt)
	if err != nil {
		metrics.RecordGeneration(metrics.ResultFailure)
		return database.Song{}, err
	}

	songID, err := a.persistGeneratedSong(p.ID, params, prompt, lyrics)
	if err != nil {
		metrics.RecordGeneration(metrics.ResultFailure)
		return database.Song{}, err
	}

	metrics.RecordGeneration(metrics.ResultSuccess)

	return a.GetSong(songID)
}

func (a *App) persistGeneratedSong(userID string, params GenerateSongParams, prompt, lyrics string) (string, error) {
	now := a.Clock.Now()

	tx := a.DB.Begin()

	if err := a.CheckDailyQuota(tx, userID); err != nil {
		tx.Rollback()
		return "", err
	}

	song := database.Song{
		Model:      database.Model{CreatedAt: now, UpdatedAt: now},
		Title:      params.Title,
		Lyrics:     database.ToNullString(lyrics),
		Topic:      params.Topic,
		Mood:       params.Mood,
		Genre:      params.Genre,
		Language:   params.Language,
		Style:      params.Style,
		Era:        params.Era,
		Verses:     params.Verses,
		Creativity: params.Creativity,
		UserID:     userID,
	}
	if err := tx.Omit("User", "Prompt").Create(&song).Error; err != nil {
		tx.Rollback()
		return "", pkgErrors.Wrap(err, "inserting song")
	}

	history := database.PromptHistory{
		Model:  database.Model{CreatedAt: now, UpdatedAt: now},
		UserID: userID,
		Prompt: prompt,
		SongID: song.ID,
	}
	if err := tx.Omit("Song").Create(&history).Error; err != nil {
		tx.Rollback()
		return "", pkgErrors.Wrap(err, "inserting prompt history")
	}

	if err := tx.Model(&database.Song{}).Where("id = ?", song.ID).
		UpdateColumn("prompt_id", history.ID).Error; err != nil {
		tx.Rollback()
		return "", pkgErrors.Wrap(err, "linking prompt history")
	}

	if err := tx.Commit().Error; err != nil {
		return "", pkgErrors.Wrap(err, "committing generated song")
	}

	return song.ID, nil
}

// CreateSongParams is a manually submitted song
type CreateSongParams struct {
	GenerateSongParams
	Lyrics string
}

// CreateSong stores a song submitted by the user without calling the
// lyrics service. It does not count against the daily quota.
func (a *App) CreateSong(p permissions.Principal, params CreateSongParams) (database.Song, error) {
	params.trim()
	if params.Title == "" {
		return database.Song{}, validationError("title is required")
	}
	if params.Creativity != 0 && (params.Creativity < MinCreativity || params.Creativity > MaxCreativity) {
		return database.Song{}, validationError("creativity must be between %d and %d", MinCreativity, MaxCreativity)
	}

	now := a.Clock.Now()
	song := database.Song{
		Model:      database.Model{CreatedAt: now, UpdatedAt: now},
		Title:      params.Title,
		Lyrics:     database.ToNullString(params.Lyrics),
		Topic:      params.Topic,
		Mood:       params.Mood,
		Genre:      params.Genre,
		Language:   params.Language,
		Style:      params.Style,
		Era:        params.Era,
		Verses:     params.Verses,
		Creativity: params.Creativity,
		UserID:     p.ID,
	}
	if err := a.DB.Omit("User", "Prompt").Create(&song).Error; err != nil {
		return database.Song{}, pkgErrors.Wrap(err, "inserting song")
	}

	return a.GetSong(song.ID)
}

// GetSong returns the song with its owner and prompt expanded
func (a *App) GetSong(id string) (database.Song, error) {
	var song database.Song
	if !helpers.ValidateUUID(id) {
		return song, ErrSongNotFound
	}

	err := a.DB.Preload("User").Preload("Prompt").Where("id = ?", id).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return song, ErrSongNotFound
	} else if err != nil {
		return song, pkgErrors.Wrap(err, "finding song")
	}

	return song, nil
}

// SongList is a page of songs
type SongList struct {
	Songs      []database.Song
	Pagination Pagination
}

func (a *App) listSongs(scope func(*gorm.DB) *gorm.DB, p PageParams) (SongList, error) {
	var total int64
	if err := a.DB.Model(&database.Song{}).Scopes(scope).Count(&total).Error; err != nil {
		return SongList{}, pkgErrors.Wrap(err, "counting songs")
	}

	songs := []database.Song{}
	if err := a.DB.Scopes(scope, pageScope(p)).
		Preload("User").
		Preload("Prompt").
		Order("songs.created_at DESC, songs.id DESC").
		Find(&songs).Error; err != nil {
		return SongList{}, pkgErrors.Wrap(err, "finding songs")
	}

	return SongList{
		Songs:      songs,
		Pagination: NewPagination(p, total),
	}, nil
}

// ListSongs returns a page of all songs, newest first
func (a *App) ListSongs(p PageParams) (SongList, error) {
	return a.listSongs(func(db *gorm.DB) *gorm.DB { return db }, p)
}

// ListUserSongs returns a page of the songs owned by the user, newest first
func (a *App) ListUserSongs(userID string, p PageParams) (SongList, error) {
	return a.listSongs(func(db *gorm.DB) *gorm.DB {
		return db.Where("songs.user_id = ?", userID)
	}, p)
}

// ListPopularSongs returns the most liked songs. Ties keep creation order.
func (a *App) ListPopularSongs() ([]database.Song, error) {
	songs := []database.Song{}

	if err := a.DB.Preload("User").
		Order("like_count DESC, created_at ASC").
		Limit(PopularSongsLimit).
		Find(&songs).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding popular songs")
	}

	return songs, nil
}

// DeleteSong deletes the song and everything attached to it. Only the
// owner or an admin may do so.
func (a *App) DeleteSong(p permissions.Principal, id string) error {
	var song database.Song
	err := a.DB.Where("id = ?", id).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSongNotFound
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding song")
	}

	if !permissions.DeleteSong(&p, song) {
		return ErrUnauthorized
	}

	tx := a.DB.Begin()

	for _, m := range []interface{}{&database.Comment{}, &database.Like{}, &database.PromptHistory{}} {
		if err := tx.Where("song_id = ?", id).Delete(m).Error; err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting song dependents")
		}
	}
	if err := tx.Where("id = ?", id).Delete(&database.Song{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting song")
	}

	return pkgErrors.Wrap(tx.Commit().Error, "committing song deletion")
}
