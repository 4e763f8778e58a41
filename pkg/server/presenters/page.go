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
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
)

// Page is a page of a listing with its pagination envelope
type Page[T any] struct {
	Data       []T            `json:"data"`
	Pagination app.Pagination `json:"pagination"`
}

// PresentSongList presents a page of songs
func PresentSongList(l app.SongList) Page[Song] {
	return Page[Song]{
		Data:       PresentSongs(l.Songs),
		Pagination: l.Pagination,
	}
}

// PresentCommentList presents a page of comments
func PresentCommentList(l app.CommentList) Page[Comment] {
	return Page[Comment]{
		Data:       PresentComments(l.Comments),
		Pagination: l.Pagination,
	}
}

// UserSongCount is the number of songs owned by a user
type UserSongCount struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	SongCount int64  `json:"songCount"`
}

// Stats is a result of PresentStats
type Stats struct {
	TotalUsers      int64           `json:"totalUsers"`
	TotalSongs      int64           `json:"totalSongs"`
	TotalComments   int64           `json:"totalComments"`
	AvgSongsPerUser string          `json:"avgSongsPerUser"`
	UserSongCounts  []UserSongCount `json:"userSongCounts"`
}

// PresentStats presents the platform statistics
func PresentStats(s app.Stats) Stats {
	counts := []UserSongCount{}
	for _, c := range s.UserSongCounts {
		counts = append(counts, UserSongCount{
			UserID:    c.UserID,
			Username:  c.Username,
			Email:     c.Email,
			SongCount: c.SongCount,
		})
	}

	return Stats{
		TotalUsers:      s.TotalUsers,
		TotalSongs:      s.TotalSongs,
		TotalComments:   s.TotalComments,
		AvgSongsPerUser: s.AvgSongsPerUser,
		UserSongCounts:  counts,
	}
}
