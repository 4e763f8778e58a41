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
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/pkg/errors"
)

// GoogleProfile is the identity returned by Google after sign in
type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// FindOrCreateGoogleUser returns the user matching the Google account by
// google id or email, linking the account if needed. A new verified user
// without a password is created when none matches.
func (a *App) FindOrCreateGoogleUser(p GoogleProfile) (database.User, error) {
	email := normalizeEmail(p.Email)
	if p.ID == "" || email == "" {
		return database.User{}, ErrUnauthenticated
	}

	var users []database.User
	if err := a.DB.Where("google_id = ? OR email = ?", p.ID, email).Limit(1).Find(&users).Error; err != nil {
		return database.User{}, errors.Wrap(err, "finding user by google account")
	}

	if len(users) > 0 {
		user := users[0]
		updates := map[string]interface{}{}
		if !user.GoogleID.Valid {
			updates["google_id"] = p.ID
			updates["provider"] = database.ProviderGoogle
		}
		if !user.Picture.Valid && p.Picture != "" {
			updates["picture"] = p.Picture
		}
		if !user.IsVerified {
			updates["is_verified"] = true
			updates["verification_token"] = nil
		}

		if len(updates) > 0 {
			if err := a.DB.Model(&database.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
				return user, errors.Wrap(err, "linking google account")
			}

			return a.GetUser(user.ID)
		}

		return user, nil
	}

	username := strings.TrimSpace(p.Name)
	if username == "" {
		username = strings.Split(email, "@")[0]
	}

	user := database.User{
		Model:      database.Model{CreatedAt: a.Clock.Now()},
		Username:   username,
		Email:      email,
		Role:       database.RoleUser,
		IsVerified: true,
		GoogleID:   database.ToNullString(p.ID),
		Provider:   database.ToNullString(database.ProviderGoogle),
		Picture:    database.ToNullString(p.Picture),
	}
	if err := a.insertUser(&user); err != nil {
		return database.User{}, err
	}

	return user, nil
}
