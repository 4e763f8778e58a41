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
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// CommentList is a page of comments
type CommentList struct {
	Comments   []database.Comment
	Pagination Pagination
}

// CreateComment adds a comment by the principal to the song
func (a *App) CreateComment(p permissions.Principal, songID, text string) (database.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return database.Comment{}, ErrCommentTextRequired
	}

	var count int64
	if err := a.DB.Model(&database.Song{}).Where("id = ?", songID).Count(&count).Error; err != nil {
		return database.Comment{}, pkgErrors.Wrap(err, "finding song")
	}
	if count == 0 {
		return database.Comment{}, ErrSongNotFound
	}

	comment := database.Comment{
		Model:  database.Model{CreatedAt: a.Clock.Now()},
		Text:   text,
		UserID: p.ID,
		SongID: songID,
	}
	if err := a.DB.Omit("User", "Song").Create(&comment).Error; err != nil {
		return database.Comment{}, pkgErrors.Wrap(err, "inserting comment")
	}

	if err := a.DB.Preload("User").Where("id = ?", comment.ID).First(&comment).Error; err != nil {
		return database.Comment{}, pkgErrors.Wrap(err, "reloading comment")
	}

	return comment, nil
}

func (a *App) listComments(scope func(*gorm.DB) *gorm.DB, preload string, p PageParams) (CommentList, error) {
	var total int64
	if err := a.DB.Model(&database.Comment{}).Scopes(scope).Count(&total).Error; err != nil {
		return CommentList{}, pkgErrors.Wrap(err, "counting comments")
	}

	comments := []database.Comment{}
	if err := a.DB.Scopes(scope, pageScope(p)).
		Preload(preload).
		Order("comments.created_at DESC, comments.id DESC").
		Find(&comments).Error; err != nil {
		return CommentList{}, pkgErrors.Wrap(err, "finding comments")
	}

	return CommentList{
		Comments:   comments,
		Pagination: NewPagination(p, total),
	}, nil
}

// ListSongComments returns a page of the comments on a song with their
// authors, newest first
func (a *App) ListSongComments(songID string, p PageParams) (CommentList, error) {
	return a.listComments(func(db *gorm.DB) *gorm.DB {
		return db.Where("comments.song_id = ?", songID)
	}, "User", p)
}

// ListUserComments returns a page of the comments written by the user with
// the commented songs, newest first
func (a *App) ListUserComments(userID string, p PageParams) (CommentList, error) {
	return a.listComments(func(db *gorm.DB) *gorm.DB {
		return db.Where("comments.user_id = ?", userID)
	}, "Song", p)
}

// DeleteComment deletes a comment. If songID is not empty, the comment must
// belong to that song. Only the author or an admin may delete a comment.
func (a *App) DeleteComment(p permissions.Principal, commentID, songID string) error {
	conn := a.DB.Where("id = ?", commentID)
	if songID != "" {
		conn = conn.Where("song_id = ?", songID)
	}

	var comment database.Comment
	err := conn.First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding comment")
	}

	if !permissions.DeleteComment(&p, comment) {
		return ErrUnauthorized
	}

	if err := a.DB.Where("id = ?", comment.ID).Delete(&database.Comment{}).Error; err != nil {
		return pkgErrors.Wrap(err, "deleting comment")
	}

	return nil
}
