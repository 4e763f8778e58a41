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

// Comment is a result of PresentComment
type Comment struct {
	ID        string       `json:"_id"`
	Text      string       `json:"text"`
	CreatedBy Ref[UserRef] `json:"createdBy"`
	Song      Ref[SongRef] `json:"song"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PresentComment presents a comment
func PresentComment(c database.Comment) Comment {
	return Comment{
		ID:        c.ID,
		Text:      c.Text,
		CreatedBy: userRef(c.UserID, c.User),
		Song:      songRef(c.SongID, c.Song),
		CreatedAt: FormatTS(c.CreatedAt),
	}
}

// PresentComments presents comments
func PresentComments(comments []database.Comment) []Comment {
	ret := []Comment{}

	for _, c := range comments {
		ret = append(ret, PresentComment(c))
	}

	return ret
}

// Like is a result of PresentLike
type Like struct {
	ID        string       `json:"_id"`
	User      string       `json:"user"`
	Song      Ref[SongRef] `json:"song"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PresentLikes presents likes
func PresentLikes(likes []database.Like) []Like {
	ret := []Like{}

	for _, l := range likes {
		ret = append(ret, Like{
			ID:        l.ID,
			User:      l.UserID,
			Song:      songRef(l.SongID, l.Song),
			CreatedAt: FormatTS(l.CreatedAt),
		})
	}

	return ret
}
