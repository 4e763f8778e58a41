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

// User is the profile of a user. It never carries credentials.
type User struct {
	ID          string     `json:"_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsVerified  bool       `json:"isVerified"`
	Provider    string     `json:"provider,omitempty"`
	Picture     string     `json:"picture,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PresentUser presents a user
func PresentUser(u database.User) User {
	ret := User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Provider:   u.Provider.String,
		Picture:    u.Picture.String,
		CreatedAt:  FormatTS(u.CreatedAt),
		UpdatedAt:  FormatTS(u.UpdatedAt),
	}

	if u.LastLoginAt != nil {
		t := FormatTS(*u.LastLoginAt)
		ret.LastLoginAt = &t
	}

	return ret
}

// PresentUsers presents users
func PresentUsers(users []database.User) []User {
	ret := []User{}

	for _, u := range users {
		ret = append(ret, PresentUser(u))
	}

	return ret
}

// UserRef is the expanded form of a reference to a user
type UserRef struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// userRef references the user with the given id, expanded when the user
// was loaded
func userRef(id string, u database.User) Ref[UserRef] {
	if u.ID == "" {
		return IDRef[UserRef](id)
	}

	return Expanded(UserRef{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	})
}
