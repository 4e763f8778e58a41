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

package controllers

import (
	"net/http"

	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	mw "github.com/lyricsmith/lyricsmith/pkg/server/middleware"
	"github.com/lyricsmith/lyricsmith/pkg/server/presenters"
)

// NewPrompts creates a new Prompts controller
func NewPrompts(a *app.App) *Prompts {
	return &Prompts{
		app: a,
	}
}

// Prompts is a controller for the prompt history
type Prompts struct {
	app *app.App
}

// Mine handles GET /prompts/me
func (p *Prompts) Mine(w http.ResponseWriter, r *http.Request) {
	histories, err := p.app.ListUserPrompts(principal(r).ID)
	if err != nil {
		handleJSONError(w, err, "listing prompts")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentPromptHistories(histories))
}
