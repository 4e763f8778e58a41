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
	"database/sql"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/server/helpers"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// RoleUser is the default role of a user
	RoleUser = "user"
	// RoleAdmin is the role of an administrator
	RoleAdmin = "admin"

	// ProviderGoogle marks a user created through Google sign in
	ProviderGoogle = "google"
)

// Model is the base model definition
type Model struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// BeforeCreate assigns a uuid to records created without an id
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID != "" {
		return nil
	}

	id, err := helpers.GenUUID()
	if err != nil {
		return errors.Wrap(err, "generating id")
	}
	m.ID = id

	return nil
}

// User is a model for a user
type User struct {
	Model
	Email                string         `gorm:"uniqueIndex;not null"`
	Username             string
	Password             sql.NullString `json:"-"`
	Role                 string         `gorm:"not null;default:user"`
	IsVerified           bool           `gorm:"not null;default:false"`
	VerificationToken    sql.NullString `gorm:"index"`
	ResetPasswordToken   sql.NullString `gorm:"index"`
	ResetPasswordExpires *time.Time
	GoogleID             sql.NullString `gorm:"index"`
	Provider             sql.NullString
	Picture              sql.NullString
	LastLoginAt          *time.Time
}

// Song is a model for a song
type Song struct {
	Model
	Title      string `gorm:"not null"`
	Lyrics     sql.NullString
	Topic      string
	Mood       string
	Genre      string
	Language   string
	Style      string
	Era        string
	Verses     string
	Creativity int
	LikeCount  int            `gorm:"not null;default:0;index"`
	UserID     string         `gorm:"index;type:text;not null"`
	User       User           `gorm:"foreignKey:UserID;references:ID"`
	PromptID   sql.NullString `gorm:"index;type:text"`
	Prompt     *PromptHistory `gorm:"foreignKey:PromptID;references:ID"`
}

// Comment is a model for a comment on a song
type Comment struct {
	Model
	Text   string `gorm:"not null"`
	UserID string `gorm:"index;type:text;not null"`
	User   User   `gorm:"foreignKey:UserID;references:ID"`
	SongID string `gorm:"index;type:text;not null"`
	Song   *Song  `gorm:"foreignKey:SongID;references:ID"`
}

// Like is a model for a like given by a user to a song
type Like struct {
	Model
	UserID string `gorm:"uniqueIndex:idx_likes_user_id_song_id;type:text;not null"`
	SongID string `gorm:"uniqueIndex:idx_likes_user_id_song_id;index;type:text;not null"`
	Song   *Song  `gorm:"foreignKey:SongID;references:ID"`
}

// PromptHistory is a model for a rendered prompt and the song it produced
type PromptHistory struct {
	Model
	UserID string `gorm:"index;type:text;not null"`
	Prompt string `gorm:"not null"`
	SongID string `gorm:"uniqueIndex;type:text;not null"`
	Song   *Song  `gorm:"foreignKey:SongID;references:ID"`
}

// ToNullString returns a valid NullString for a non-empty string and a
// null one otherwise
func ToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}

	return sql.NullString{String: s, Valid: true}
}
