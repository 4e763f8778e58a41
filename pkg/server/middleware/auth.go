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
	"net/http"

	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/context"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	"github.com/pkg/errors"
)

// AuthWithToken authenticates the request with its access token. It
// returns false if no valid token was presented.
func AuthWithToken(a *app.App, r *http.Request) (database.User, bool, error) {
	var user database.User

	raw, err := GetCredential(r)
	if err != nil {
		log.WithFields(log.Fields{
			"path": r.URL.Path,
		}).Debug(err.Error())
		return user, false, nil
	}
	if raw == "" {
		return user, false, nil
	}

	user, err = a.AuthenticateToken(raw)
	if err == app.ErrUnauthenticated {
		return user, false, nil
	} else if err != nil {
		return user, false, errors.Wrap(err, "authenticating access token")
	}

	return user, true, nil
}

// Auth is an authentication middleware. It puts the user and the principal
// in the request context.
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := AuthWithToken(a, r)
		if err != nil {
			DoError(w, "authenticating with token", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Admin is an authentication middleware that also requires the admin role
func Admin(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return Auth(a, func(w http.ResponseWriter, r *http.Request) {
		if !permissions.IsAdmin(context.Principal(r.Context())) {
			RespondError(w, app.ErrUnauthorized, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}
