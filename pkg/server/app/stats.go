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
	"fmt"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/pkg/errors"
)

// UserSongCount is the number of songs owned by a user. Username and email
// are empty when the owner no longer exists.
type UserSongCount struct {
	UserID    string
	Username  string
	Email     string
	SongCount int64
}

// Stats is an overview of the platform for administrators
type Stats struct {
	TotalUsers      int64
	TotalSongs      int64
	TotalComments   int64
	AvgSongsPerUser string
	UserSongCounts  []UserSongCount
}

// GetUserSongCounts groups songs by owner. Users without songs are absent.
func (a *App) GetUserSongCounts() ([]UserSongCount, error) {
	rows := []UserSongCount{}

	if err := a.DB.Table("songs").
		Select(`songs.user_id AS user_id,
COALESCE(users.username, '') AS username,
COALESCE(users.email, '') AS email,
COUNT(songs.id) AS song_count`).
		Joins("LEFT JOIN users ON users.id = songs.user_id").
		Group("songs.user_id, users.username, users.email").
		Order("song_count DESC, songs.user_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "counting songs per user")
	}

	return rows, nil
}

func formatAverage(songs, users int64) string {
	if users == 0 {
		return "0.00"
	}

	return fmt.Sprintf("%.2f", float64(songs)/float64(users))
}

// GetStats returns totals and per user song counts
func (a *App) GetStats() (Stats, error) {
	var s Stats

	if err := a.DB.Model(&database.User{}).Count(&s.TotalUsers).Error; err != nil {
		return Stats{}, errors.Wrap(err, "counting users")
	}
	if err := a.DB.Model(&database.Song{}).Count(&s.TotalSongs).Error; err != nil {
		return Stats{}, errors.Wrap(err, "counting songs")
	}
	if err := a.DB.Model(&database.Comment{}).Count(&s.TotalComments).Error; err != nil {
		return Stats{}, errors.Wrap(err, "counting comments")
	}

	counts, err := a.GetUserSongCounts()
	if err != nil {
		return Stats{}, err
	}

	s.AvgSongsPerUser = formatAverage(s.TotalSongs, s.TotalUsers)
	s.UserSongCounts = counts

	return s, nil
}
