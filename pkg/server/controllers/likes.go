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

	"github.com/gorilla/mux"
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	mw "github.com/lyricsmith/lyricsmith/pkg/server/middleware"
)

// NewLikes creates a new Likes controller
func NewLikes(a *app.App) *Likes {
	return &Likes{
		app: a,
	}
}

// Likes is a controller for likes
type Likes struct {
	app *app.App
}

type toggleLikeResponse struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}

type likeStatusResponse struct {
	Liked bool `json:"liked"`
}

// Toggle handles POST /songs/{id}/like
func (l *Likes) Toggle(w http.ResponseWriter, r *http.Request) {
	liked, err := l.app.ToggleLike(principal(r), mux.Vars(r)["id"])
	if err != nil {
		handleJSONError(w, err, "toggling like")
		return
	}

	message := "Like removed"
	if liked {
		message = "Song liked"
	}

	mw.RespondJSON(w, http.StatusOK, toggleLikeResponse{
		Liked:   liked,
		Message: message,
	})
}

// Status handles GET /songs/{id}/like
func (l *Likes) Status(w http.ResponseWriter, r *http.Request) {
	liked, err := l.app.HasLiked(principal(r).ID, mux.Vars(r)["id"])
	if err != nil {
		handleJSONError(w, err, "checking like")
		return
	}

	mw.RespondJSON(w, http.StatusOK, likeStatusResponse{Liked: liked})
}
