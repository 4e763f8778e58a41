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
	"net/url"

	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/helpers"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	mw "github.com/lyricsmith/lyricsmith/pkg/server/middleware"
	"github.com/lyricsmith/lyricsmith/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthStateMaxAge     = 600
)

var (
	googleEndpoint    = google.Endpoint
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleScopes      = []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
)

// NewOAuth creates a new OAuth controller. Google sign in is disabled
// unless the client is configured.
func NewOAuth(a *app.App) *OAuth {
	ret := &OAuth{app: a}

	g := a.Config.Google
	if g.Enabled() {
		ret.google = &oauth2.Config{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.CallbackURL,
			Endpoint:     googleEndpoint,
			Scopes:       googleScopes,
		}
	}

	return ret
}

// OAuth is a controller for signing in with external identity providers
type OAuth struct {
	app    *app.App
	google *oauth2.Config
}

func (o *OAuth) frontendURL(path string, q *url.Values) string {
	return o.app.Config.FrontendURL() + helpers.GetPath(path, q)
}

func (o *OAuth) redirectFailure(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.WithFields(log.Fields{
		"provider": "google",
	}).ErrorWrap(err, msg)

	q := url.Values{}
	q.Set("error", "oauth_failed")
	http.Redirect(w, r, o.frontendURL("/app/login", &q), http.StatusFound)
}

// GoogleLogin handles GET /auth/google and redirects to the consent screen
func (o *OAuth) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if o.google == nil {
		mw.RespondNotFound(w)
		return
	}

	state, err := token.Random(16)
	if err != nil {
		handleJSONError(w, err, "generating oauth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   o.app.Config.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, o.google.AuthCodeURL(state), http.StatusFound)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (o *OAuth) fetchGoogleProfile(r *http.Request, code string) (app.GoogleProfile, error) {
	ctx := r.Context()

	tok, err := o.google.Exchange(ctx, code)
	if err != nil {
		return app.GoogleProfile{}, errors.Wrap(err, "exchanging code")
	}

	res, err := o.google.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return app.GoogleProfile{}, errors.Wrap(err, "fetching user info")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return app.GoogleProfile{}, errors.Errorf("fetching user info: status %d", res.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return app.GoogleProfile{}, errors.Wrap(err, "decoding user info")
	}

	return app.GoogleProfile{
		ID:      info.ID,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// GoogleCallback handles GET /auth/google/callback. It signs the user in
// and hands the access token to the frontend.
func (o *OAuth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if o.google == nil {
		mw.RespondNotFound(w)
		return
	}

	c, err := r.Cookie(oauthStateCookieName)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		o.redirectFailure(w, r, errors.New("oauth state mismatch"), "verifying oauth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookieName,
		Value:  "",
		Path:   "/auth/google",
		MaxAge: -1,
	})

	profile, err := o.fetchGoogleProfile(r, r.URL.Query().Get("code"))
	if err != nil {
		o.redirectFailure(w, r, err, "fetching google profile")
		return
	}

	user, err := o.app.FindOrCreateGoogleUser(profile)
	if err != nil {
		o.redirectFailure(w, r, err, "finding google user")
		return
	}

	accessToken, err := o.app.SignIn(user)
	if err != nil {
		o.redirectFailure(w, r, err, "signing in google user")
		return
	}

	q := url.Values{}
	q.Set("token", accessToken)
	http.Redirect(w, r, o.frontendURL("/app/login/success", &q), http.StatusFound)
}
