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

// NewComments creates a new Comments controller
func NewComments(a *app.App) *Comments {
	return &Comments{
		app: a,
	}
}

// Comments is a controller for comments
type Comments struct {
	app *app.App
}

type createCommentPayload struct {
	Text string `schema:"text" json:"text"`
}

// Create handles POST /songs/{id}/comments
func (c *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var payload createCommentPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	comment, err := c.app.CreateComment(principal(r), mux.Vars(r)["id"], payload.Text)
	if err != nil {
		handleJSONError(w, err, "creating comment")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, presenters.PresentComment(comment))
}

// SongIndex handles GET /songs/{id}/comments
func (c *Comments) SongIndex(w http.ResponseWriter, r *http.Request) {
	list, err := c.app.ListSongComments(mux.Vars(r)["id"], parsePageParams(r))
	if err != nil {
		handleJSONError(w, err, "listing song comments")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentCommentList(list))
}

// Mine handles GET /comments/me
func (c *Comments) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := c.app.ListUserComments(principal(r).ID, parsePageParams(r))
	if err != nil {
		handleJSONError(w, err, "listing user comments")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentCommentList(list))
}

// Delete handles DELETE /comments/{id} and DELETE /songs/{songId}/comments/{id}
func (c *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := c.app.DeleteComment(principal(r), vars["id"], vars["songId"]); err != nil {
		handleJSONError(w, err, "deleting comment")
		return
	}

	respondMessage(w, http.StatusOK, "Comment deleted")
}
