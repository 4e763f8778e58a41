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

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/lyricsmith/lyricsmith/pkg/server/metrics"
	pkgErrors "github.com/pkg/errors"
)

const (
	// TokenCookieName is the cookie carrying the access token for browser clients
	TokenCookieName = "token"

	internalErrorMessage = "Internal server error"
)

// Middleware wraps a route handler
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// WebMw is the middleware for the routes rendering HTML
func WebMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(app, h, rateLimit)
}

// APIMw is the middleware for the JSON API routes
func APIMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	ret := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})

	return ApplyLimit(app, ret, rateLimit)
}

// Global is the middleware applied to every request
func Global(app *app.App, h http.Handler) http.Handler {
	return metrics.InstrumentHandler(CORS(app.Config.AllowedOrigins(), h))
}

// ErrorBody is the body of an error response
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

var statusByKind = map[app.Kind]int{
	app.KindUnauthenticated:       http.StatusUnauthorized,
	app.KindUnauthorized:          http.StatusForbidden,
	app.KindNotFound:              http.StatusNotFound,
	app.KindConflict:              http.StatusConflict,
	app.KindQuotaExceeded:         http.StatusForbidden,
	app.KindGenerationFailed:      http.StatusInternalServerError,
	app.KindValidationFailed:      http.StatusBadRequest,
	app.KindInvalidOrExpiredToken: http.StatusBadRequest,
}

// StatusCode returns the status code and the client message for the error.
// Errors other than app errors are internal and their message is hidden.
func StatusCode(err error) (int, string) {
	var appErr *app.Error
	if errors.As(err, &appErr) {
		if code, ok := statusByKind[appErr.Kind]; ok {
			return code, appErr.Message
		}
	}

	return http.StatusInternalServerError, internalErrorMessage
}

// RespondJSON encodes v as the JSON body of the response
func RespondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	if err != nil {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)
	}

	RespondJSON(w, statusCode, ErrorBody{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
	})
}

// RespondError responds with the status code and message for the error.
// Internal errors are logged with the given message.
func RespondError(w http.ResponseWriter, err error, msg string) {
	statusCode, message := StatusCode(err)
	if statusCode == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"statusCode": statusCode,
		}).ErrorWrap(err, msg)
	}

	RespondJSON(w, statusCode, ErrorBody{
		StatusCode: statusCode,
		Message:    message,
	})
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, app.ErrUnauthenticated, "")
}

// RespondNotFound responds with not found
func RespondNotFound(w http.ResponseWriter) {
	RespondError(w, app.ErrNotFound, "")
}

func getCredentialFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(TokenCookieName)
	if err == http.ErrNoCookie {
		return "", nil
	} else if err != nil {
		return "", pkgErrors.Wrap(err, "reading cookie")
	}

	return c.Value, nil
}

func getCredentialFromAuth(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.Fields(h)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", pkgErrors.Errorf("malformed authorization header")
	}

	return parts[1], nil
}

// GetCredential extracts the access token from the Authorization header,
// falling back to the token cookie
func GetCredential(r *http.Request) (string, error) {
	ret, err := getCredentialFromAuth(r)
	if err != nil {
		return "", pkgErrors.Wrap(err, "getting access token from the authorization header")
	}

	if ret == "" {
		ret, err = getCredentialFromCookie(r)
		if err != nil {
			return "", pkgErrors.Wrap(err, "getting access token from cookie")
		}
	}

	return ret, nil
}
