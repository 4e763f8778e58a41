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

package presenters

import (
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
)

const (
	unknownAttribute = "Unknown"
	anonymousUser    = "Anonymous"
)

// PromptRef is the expanded form of a reference to a prompt history
type PromptRef struct {
	ID        string    `json:"_id"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Song is a result of PresentSong
type Song struct {
	ID         string         `json:"_id"`
	Title      string         `json:"title"`
	Lyrics     string         `json:"lyrics"`
	Topic      string         `json:"topic"`
	Mood       string         `json:"mood"`
	Genre      string         `json:"genre"`
	Language   string         `json:"language"`
	Style      string         `json:"style,omitempty"`
	Era        string         `json:"era"`
	Verses     string         `json:"verses"`
	Creativity int            `json:"creativity"`
	LikeCount  int            `json:"likeCount"`
	CreatedBy  Ref[UserRef]   `json:"createdBy"`
	Prompt     Ref[PromptRef] `json:"prompt"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// PresentSong presents a song. The owner and the prompt are expanded when
// they were loaded with the song.
func PresentSong(s database.Song) Song {
	ret := Song{
		ID:         s.ID,
		Title:      s.Title,
		Lyrics:     s.Lyrics.String,
		Topic:      s.Topic,
		Mood:       s.Mood,
		Genre:      s.Genre,
		Language:   s.Language,
		Style:      s.Style,
		Era:        s.Era,
		Verses:     s.Verses,
		Creativity: s.Creativity,
		LikeCount:  s.LikeCount,
		CreatedBy:  userRef(s.UserID, s.User),
		CreatedAt:  FormatTS(s.CreatedAt),
		UpdatedAt:  FormatTS(s.UpdatedAt),
	}

	if s.Prompt != nil && s.Prompt.ID != "" {
		ret.Prompt = Expanded(PromptRef{
			ID:        s.Prompt.ID,
			Prompt:    s.Prompt.Prompt,
			CreatedAt: FormatTS(s.Prompt.CreatedAt),
		})
	} else if s.PromptID.Valid {
		ret.Prompt = IDRef[PromptRef](s.PromptID.String)
	}

	return ret
}

// PresentSongs presents songs
func PresentSongs(songs []database.Song) []Song {
	ret := []Song{}

	for _, s := range songs {
		ret = append(ret, PresentSong(s))
	}

	return ret
}

// PopularSongOwner is the owner of a popular song
type PopularSongOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PopularSong is a condensed song in the popular listing
type PopularSong struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	LikeCount int              `json:"likeCount"`
	Mood      string           `json:"mood"`
	Genre     string           `json:"genre"`
	CreatedAt time.Time        `json:"createdAt"`
	CreatedBy PopularSongOwner `json:"createdBy"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

// PresentPopularSong presents a song of the popular listing
func PresentPopularSong(s database.Song) PopularSong {
	owner := PopularSongOwner{
		ID:       s.UserID,
		Username: anonymousUser,
	}
	if s.User.ID != "" {
		owner.Username = orDefault(s.User.Username, anonymousUser)
		owner.Email = s.User.Email
	}

	return PopularSong{
		ID:        s.ID,
		Title:     s.Title,
		LikeCount: s.LikeCount,
		Mood:      orDefault(s.Mood, unknownAttribute),
		Genre:     orDefault(s.Genre, unknownAttribute),
		CreatedAt: FormatTS(s.CreatedAt),
		CreatedBy: owner,
	}
}

// PresentPopularSongs presents the popular listing
func PresentPopularSongs(songs []database.Song) []PopularSong {
	ret := []PopularSong{}

	for _, s := range songs {
		ret = append(ret, PresentPopularSong(s))
	}

	return ret
}

// SongRef is the expanded form of a reference to a song
type SongRef struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

func songRef(id string, s *database.Song) Ref[SongRef] {
	if s == nil || s.ID == "" {
		return IDRef[SongRef](id)
	}

	return Expanded(SongRef{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: FormatTS(s.CreatedAt),
	})
}
