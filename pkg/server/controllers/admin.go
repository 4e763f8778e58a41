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
	"github.com/lyricsmith/lyricsmith/pkg/server/presenters"
)

// NewAdmin creates a new Admin controller
func NewAdmin(a *app.App) *Admin {
	return &Admin{
		app: a,
	}
}

// Admin is a controller for the moderation endpoints
type Admin struct {
	app *app.App
}

// Users handles GET /admin/users
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	users, err := a.app.ListUsers()
	if err != nil {
		handleJSONError(w, err, "listing users")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentUsers(users))
}

// UserSongs handles GET /admin/users/{id}/songs
func (a *Admin) UserSongs(w http.ResponseWriter, r *http.Request) {
	list, err := a.app.ListUserSongs(mux.Vars(r)["id"], parsePageParams(r))
	if err != nil {
		handleJSONError(w, err, "listing user songs")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentSongList(list))
}

// UserLikes handles GET /admin/users/{id}/likes
func (a *Admin) UserLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := a.app.ListUserLikes(mux.Vars(r)["id"])
	if err != nil {
		handleJSONError(w, err, "listing user likes")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentLikes(likes))
}

// UserComments handles GET /admin/users/{id}/comments
func (a *Admin) UserComments(w http.ResponseWriter, r *http.Request) {
	list, err := a.app.ListUserComments(mux.Vars(r)["id"], parsePageParams(r))
	if err != nil {
		handleJSONError(w, err, "listing user comments")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentCommentList(list))
}

// DeleteComment handles DELETE /admin/comments/{id}
func (a *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := a.app.DeleteComment(principal(r), mux.Vars(r)["id"], ""); err != nil {
		handleJSONError(w, err, "deleting comment")
		return
	}

	respondMessage(w, http.StatusOK, "Comment deleted")
}

// Stats handles GET /admin/stats
func (a *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.app.GetStats()
	if err != nil {
		handleJSONError(w, err, "getting stats")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentStats(stats))
}
