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
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/context"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	mw "github.com/lyricsmith/lyricsmith/pkg/server/middleware"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	"github.com/lyricsmith/lyricsmith/pkg/server/views"
	"github.com/pkg/errors"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// parseForm decodes the url-encoded form of the request into dst
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(app.ErrInvalidRequest, err.Error())
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(app.ErrInvalidRequest, err.Error())
	}

	return nil
}

// parseJSON decodes the JSON body of the request into dst. An empty body
// leaves dst untouched.
func parseJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(app.ErrInvalidRequest, err.Error())
	}

	return nil
}

// parseRequestData decodes the body of the request into dst, either as
// JSON or as a form depending on the content type
func parseRequestData(r *http.Request, dst interface{}) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		return parseForm(r, dst)
	}

	return parseJSON(r, dst)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}

	return v
}

// parsePageParams reads the page and limit query parameters. Malformed
// values fall back to the defaults.
func parsePageParams(r *http.Request) app.PageParams {
	p := app.PageParams{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	return p.Normalize()
}

// principal returns the principal put in the context by the auth middleware
func principal(r *http.Request) permissions.Principal {
	p := context.Principal(r.Context())
	if p == nil {
		return permissions.Principal{}
	}

	return *p
}

func handleJSONError(w http.ResponseWriter, err error, msg string) {
	mw.RespondError(w, err, msg)
}

// handleHTMLError renders the view with an alert describing the error
func handleHTMLError(w http.ResponseWriter, r *http.Request, err error, msg string, v *views.View, d views.Data) {
	statusCode, message := mw.StatusCode(err)
	if statusCode == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path": r.URL.Path,
		}).ErrorWrap(err, msg)
	}

	d.PutAlert(views.AlertLvlError, message)
	v.Render(w, r, &d, statusCode)
}

type messageResponse struct {
	Message string `json:"message"`
}

func respondMessage(w http.ResponseWriter, statusCode int, message string) {
	mw.RespondJSON(w, statusCode, messageResponse{Message: message})
}
