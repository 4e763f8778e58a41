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
	"crypto/sha256"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/assets"
	"github.com/lyricsmith/lyricsmith/pkg/server/metrics"
	mw "github.com/lyricsmith/lyricsmith/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	WebRoutes   []Route
	APIRoutes   []Route
}

// NewWebRoutes returns the routes serving browsers
func NewWebRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/auth/verify", c.Users.Verify, true},
		{"GET", "/auth/reset-password", c.Users.ResetPasswordPage, true},
		{"POST", "/auth/reset-password", c.Users.ResetPasswordForm, true},
		{"GET", "/auth/google", c.OAuth.GoogleLogin, true},
		{"GET", "/auth/google/callback", c.OAuth.GoogleCallback, true},

		{"GET", "/health", c.Health.Index, false},
		{"GET", "/metrics", metrics.Handler().ServeHTTP, false},
	}
}

// NewAPIRoutes returns the JSON API routes. Static segments are
// registered before the parameterized ones sharing their prefix.
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/auth/register", c.Users.Register, true},
		{"POST", "/auth/login", c.Users.Login, true},
		{"GET", "/auth/me", mw.Auth(a, c.Users.Me), true},
		{"POST", "/auth/forgot-password", c.Users.ForgotPassword, true},
		{"POST", "/auth/reset-password", c.Users.ResetPassword, true},

		{"POST", "/songs/generate", mw.Auth(a, c.Songs.Generate), true},
		{"POST", "/songs/create", mw.Auth(a, c.Songs.Create), true},
		{"GET", "/songs", c.Songs.Index, true},
		{"GET", "/songs/my", mw.Auth(a, c.Songs.Mine), true},
		{"GET", "/songs/popular", c.Songs.Popular, true},
		{"GET", "/songs/{id}", c.Songs.Show, true},
		{"DELETE", "/songs/{id}", mw.Auth(a, c.Songs.Delete), true},

		{"POST", "/songs/{id}/like", mw.Auth(a, c.Likes.Toggle), true},
		{"GET", "/songs/{id}/like", mw.Auth(a, c.Likes.Status), true},

		{"POST", "/songs/{id}/comments", mw.Auth(a, c.Comments.Create), true},
		{"GET", "/songs/{id}/comments", mw.Auth(a, c.Comments.SongIndex), true},
		{"DELETE", "/songs/{songId}/comments/{id}", mw.Auth(a, c.Comments.Delete), true},
		{"GET", "/comments/me", mw.Auth(a, c.Comments.Mine), true},
		{"DELETE", "/comments/{id}", mw.Auth(a, c.Comments.Delete), true},

		{"GET", "/prompts/me", mw.Auth(a, c.Prompts.Mine), true},

		{"GET", "/admin/users", mw.Admin(a, c.Admin.Users), true},
		{"GET", "/admin/users/{id}/songs", mw.Admin(a, c.Admin.UserSongs), true},
		{"GET", "/admin/users/{id}/likes", mw.Admin(a, c.Admin.UserLikes), true},
		{"GET", "/admin/users/{id}/comments", mw.Admin(a, c.Admin.UserComments), true},
		{"DELETE", "/admin/comments/{id}", mw.Admin(a, c.Admin.DeleteComment), true},
		{"GET", "/admin/stats", mw.Admin(a, c.Admin.Stats), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// csrfAuthKey derives the 32 byte key authenticating CSRF cookies
func csrfAuthKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret + "csrf"))
	return sum[:]
}

// isPlaintext reports whether the server is reached over plain HTTP
func isPlaintext(a *app.App) bool {
	return strings.HasPrefix(a.Config.APIURL, "http://")
}

// csrfProtect guards the HTML forms against cross site request forgery
func csrfProtect(a *app.App) mux.MiddlewareFunc {
	plaintext := isPlaintext(a)

	protect := csrf.Protect(
		csrfAuthKey(a.Config.JWTSecret),
		csrf.Path("/"),
		csrf.Secure(!plaintext),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if plaintext {
				r = csrf.PlaintextHTTPRequest(r)
			}

			h.ServeHTTP(w, r)
		})
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	webRouter := router.PathPrefix("/").Subrouter()
	webRouter.Use(csrfProtect(app))

	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)
	registerRoutes(webRouter, mw.WebMw, app, rc.WebRoutes)

	// static
	staticFs, err := assets.GetStaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "getting the filesystem for static files")
	}

	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(staticFs)))
	router.PathPrefix("/static/").Handler(staticHandler)

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /"))
	})

	// catch-all
	router.PathPrefix("/").HandlerFunc(rc.Controllers.Static.NotFound)

	return mw.Global(app, router), nil
}
