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

// PromptSong is the expanded song of a prompt history
type PromptSong struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Lyrics    string    `json:"lyrics"`
	Genre     string    `json:"genre"`
	Mood      string    `json:"mood"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// PromptHistory is a result of PresentPromptHistory
type PromptHistory struct {
	ID        string          `json:"_id"`
	Prompt    string          `json:"prompt"`
	User      string          `json:"user"`
	Song      Ref[PromptSong] `json:"song"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PresentPromptHistory presents a prompt history
func PresentPromptHistory(h database.PromptHistory) PromptHistory {
	ret := PromptHistory{
		ID:        h.ID,
		Prompt:    h.Prompt,
		User:      h.UserID,
		Song:      IDRef[PromptSong](h.SongID),
		CreatedAt: FormatTS(h.CreatedAt),
	}

	if h.Song != nil && h.Song.ID != "" {
		ret.Song = Expanded(PromptSong{
			ID:        h.Song.ID,
			Title:     h.Song.Title,
			Lyrics:    h.Song.Lyrics.String,
			Genre:     h.Song.Genre,
			Mood:      h.Song.Mood,
			Language:  h.Song.Language,
			CreatedAt: FormatTS(h.Song.CreatedAt),
		})
	}

	return ret
}

// PresentPromptHistories presents prompt histories
func PresentPromptHistories(histories []database.PromptHistory) []PromptHistory {
	ret := []PromptHistory{}

	for _, h := range histories {
		ret = append(ret, PresentPromptHistory(h))
	}

	return ret
}
