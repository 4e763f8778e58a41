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
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/pkg/errors"
)

// ListUserPrompts returns the prompts the user generated songs with,
// newest first, with the resulting songs
func (a *App) ListUserPrompts(userID string) ([]database.PromptHistory, error) {
	prompts := []database.PromptHistory{}

	if err := a.DB.Preload("Song").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&prompts).Error; err != nil {
		return nil, errors.Wrap(err, "finding prompt histories")
	}

	return prompts, nil
}
