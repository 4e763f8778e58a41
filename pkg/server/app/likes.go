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
	"errors"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleLike likes the song if the principal has not liked it yet and
// removes the like otherwise. The like row and the song's counter change
// in one transaction with the song row locked. It returns whether the song
// is liked afterwards.
func (a *App) ToggleLike(p permissions.Principal, songID string) (bool, error) {
	tx := a.DB.Begin()

	var song database.Song
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").Where("id = ?", songID).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return false, ErrSongNotFound
	} else if err != nil {
		tx.Rollback()
		return false, pkgErrors.Wrap(err, "finding song")
	}

	var like database.Like
	err = tx.Where("user_id = ? AND song_id = ?", p.ID, songID).First(&like).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return false, pkgErrors.Wrap(err, "finding like")
	}

	liked := errors.Is(err, gorm.ErrRecordNotFound)
	if liked {
		like = database.Like{
			Model:  database.Model{CreatedAt: a.Clock.Now()},
			UserID: p.ID,
			SongID: songID,
		}
		if err := tx.Omit("Song").Create(&like).Error; err != nil {
			tx.Rollback()
			return false, pkgErrors.Wrap(err, "inserting like")
		}
		if err := tx.Model(&database.Song{}).Where("id = ?", songID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			tx.Rollback()
			return false, pkgErrors.Wrap(err, "incrementing like count")
		}
	} else {
		res := tx.Where("id = ?", like.ID).Delete(&database.Like{})
		if res.Error != nil {
			tx.Rollback()
			return false, pkgErrors.Wrap(res.Error, "deleting like")
		}
		// A concurrent toggle already removed the like and its count.
		if res.RowsAffected > 0 {
			if err := tx.Model(&database.Song{}).Where("id = ? AND like_count > 0", songID).
				UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
				tx.Rollback()
				return false, pkgErrors.Wrap(err, "decrementing like count")
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return false, pkgErrors.Wrap(err, "committing like toggle")
	}

	return liked, nil
}

// HasLiked reports whether the user liked the song
func (a *App) HasLiked(userID, songID string) (bool, error) {
	var count int64
	if err := a.DB.Model(&database.Like{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error; err != nil {
		return false, pkgErrors.Wrap(err, "counting likes")
	}

	return count > 0, nil
}

// ListUserLikes returns the likes given by the user with the liked songs,
// newest first
func (a *App) ListUserLikes(userID string) ([]database.Like, error) {
	likes := []database.Like{}

	if err := a.DB.Preload("Song").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&likes).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding likes")
	}

	return likes, nil
}
