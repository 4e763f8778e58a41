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

// NewSongs creates a new Songs controller
func NewSongs(a *app.App) *Songs {
	return &Songs{
		app: a,
	}
}

// Songs is a controller for songs
type Songs struct {
	app *app.App
}

type songPayload struct {
	Title      string `schema:"title" json:"title"`
	Lyrics     string `schema:"lyrics" json:"lyrics"`
	Topic      string `schema:"topic" json:"topic"`
	Mood       string `schema:"mood" json:"mood"`
	Genre      string `schema:"genre" json:"genre"`
	Language   string `schema:"language" json:"language"`
	Style      string `schema:"style" json:"style"`
	Era        string `schema:"era" json:"era"`
	Verses     string `schema:"verses" json:"verses"`
	Creativity int    `schema:"creativity" json:"creativity"`
}

func (p songPayload) params() app.GenerateSongParams {
	return app.GenerateSongParams{
		Title:      p.Title,
		Topic:      p.Topic,
		Mood:       p.Mood,
		Genre:      p.Genre,
		Language:   p.Language,
		Style:      p.Style,
		Era:        p.Era,
		Verses:     p.Verses,
		Creativity: p.Creativity,
	}
}

// Generate handles POST /songs/generate
func (s *Songs) Generate(w http.ResponseWriter, r *http.Request) {
	var payload songPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	song, err := s.app.GenerateSong(r.Context(), principal(r), payload.params())
	if err != nil {
		handleJSONError(w, err, "generating song")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, presenters.PresentSong(song))
}

// Create handles POST /songs/create
func (s *Songs) Create(w http.ResponseWriter, r *http.Request) {
	var payload songPayload
	if err := parseRequestData(r, &payload); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	song, err := s.app.CreateSong(principal(r), app.CreateSongParams{
		GenerateSongParams: payload.params(),
		Lyrics:             payload.Lyrics,
	})
	if err != nil {
		handleJSONError(w, err, "creating song")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, presenters.PresentSong(song))
}

// Index handles GET /songs
func (s *Songs) Index(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.ListSongs(parsePageParams(r))
	if err != nil {
		handleJSONError(w, err, "listing songs")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentSongList(list))
}

// Mine handles GET /songs/my
func (s *Songs) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.ListUserSongs(principal(r).ID, parsePageParams(r))
	if err != nil {
		handleJSONError(w, err, "listing user songs")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentSongList(list))
}

// Popular handles GET /songs/popular
func (s *Songs) Popular(w http.ResponseWriter, r *http.Request) {
	songs, err := s.app.ListPopularSongs()
	if err != nil {
		handleJSONError(w, err, "listing popular songs")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentPopularSongs(songs))
}

// Show handles GET /songs/{id}
func (s *Songs) Show(w http.ResponseWriter, r *http.Request) {
	song, err := s.app.GetSong(mux.Vars(r)["id"])
	if err != nil {
		handleJSONError(w, err, "finding song")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentSong(song))
}

// Delete handles DELETE /songs/{id}
func (s *Songs) Delete(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteSong(principal(r), mux.Vars(r)["id"]); err != nil {
		handleJSONError(w, err, "deleting song")
		return
	}

	respondMessage(w, http.StatusOK, "Song deleted")
}
