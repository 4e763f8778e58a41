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

// Package permissions decides what an authenticated principal may do
package permissions

import (
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
)

// Principal is the authenticated identity acting on a request
type Principal struct {
	ID    string
	Email string
	Role  string
}

// FromUser returns the principal for the given user
func FromUser(u database.User) Principal {
	return Principal{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}

// IsAdmin checks if the principal holds the admin role
func IsAdmin(p *Principal) bool {
	if p == nil {
		return false
	}

	return p.Role == database.RoleAdmin
}

// DeleteComment checks if the principal can delete the given comment.
// Authors can delete their own comments and admins can delete any.
func DeleteComment(p *Principal, c database.Comment) bool {
	if p == nil || p.ID == "" {
		return false
	}
	if IsAdmin(p) {
		return true
	}

	return c.UserID != "" && c.UserID == p.ID
}

// DeleteSong checks if the principal can delete the given song
func DeleteSong(p *Principal, s database.Song) bool {
	if p == nil || p.ID == "" {
		return false
	}
	if IsAdmin(p) {
		return true
	}

	return s.UserID != "" && s.UserID == p.ID
}
