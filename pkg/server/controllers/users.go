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
	"github.com/lyricsmith/lyricsmith/pkg/server/context"
	mw "github.com/lyricsmith/lyricsmith/pkg/server/middleware"
	"github.com/lyricsmith/lyricsmith/pkg/server/presenters"
	"github.com/lyricsmith/lyricsmith/pkg/server/views"
)

const (
	registerMessage       = "Registration successful! Check your email to verify your account."
	forgotPasswordMessage = "A password reset link has been sent to your email address."
	resetPasswordMessage  = "Your password has been updated."
)

// NewUsers creates a new Users controller.
// It panics if the necessary templates are not parsed.
func NewUsers(a *app.App, viewEngine *views.Engine) *Users {
	return &Users{
		VerifyView: viewEngine.NewView(
			views.Config{Title: "Verify Email", Clock: a.Clock},
			"auth/verify",
		),
		ResetPasswordView: viewEngine.NewView(
			views.Config{Title: "Reset Password", Clock: a.Clock},
			"auth/reset_password",
		),
		ResetPasswordDoneView: viewEngine.NewView(
			views.Config{Title: "Reset Password", Clock: a.Clock},
			"auth/reset_password_done",
		),
		app: a,
	}
}

// Users is a user controller.
type Users struct {
	VerifyView            *views.View
	ResetPasswordView     *views.View
	ResetPasswordDoneView *views.View
	app                   *app.App
}

func (u *Users) loginURL() string {
	return u.app.Config.FrontendURL() + "/app/login"
}

// RegistrationForm is the payload for registering
type RegistrationForm struct {
	Username string `schema:"username" json:"username"`
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Register handles POST /auth/register
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.Register(app.RegisterParams{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		handleJSONError(w, err, "registering user")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, registerResponse{
		Message: registerMessage,
		Email:   user.Email,
	})
}

// LoginForm is the payload for logging in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	User        presenters.User `json:"user"`
}

// Login handles POST /auth/login
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "")
		return
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		handleJSONError(w, err, "authenticating user")
		return
	}

	accessToken, err := u.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in user")
		return
	}

	mw.RespondJSON(w, http.StatusOK, loginResponse{
		AccessToken: accessToken,
		User:        presenters.PresentUser(user),
	})
}

// Me handles GET /auth/me
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentUser(*user))
}

type forgotPasswordPayload struct {
	Email string `schema:"email" json:"email"`
}

// ForgotPassword handles POST /auth/forgot-password
func (u *Users) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var params forgotPasswordPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if params.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "")
		return
	}

	if err := u.app.ForgotPassword(params.Email); err != nil {
		handleJSONError(w, err, "requesting password reset")
		return
	}

	respondMessage(w, http.StatusOK, forgotPasswordMessage)
}

type resetPasswordPayload struct {
	Token       string `schema:"token" json:"token"`
	NewPassword string `schema:"newPassword" json:"newPassword"`
}

// ResetPassword handles POST /api/auth/reset-password
func (u *Users) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var params resetPasswordPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if err := u.app.ResetPassword(params.Token, params.NewPassword); err != nil {
		handleJSONError(w, err, "resetting password")
		return
	}

	respondMessage(w, http.StatusOK, resetPasswordMessage)
}

// Verify handles GET /auth/verify and renders the result of the verification
func (u *Users) Verify(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{
		Yield: map[string]interface{}{
			"LoginURL": u.loginURL(),
		},
	}

	_, err := u.app.VerifyEmail(r.URL.Query().Get("token"))
	if err != nil {
		vd.Yield["Verified"] = false
		handleHTMLError(w, r, err, "verifying email", u.VerifyView, vd)
		return
	}

	vd.Yield["Verified"] = true
	u.VerifyView.Render(w, r, &vd, http.StatusOK)
}

// ResetPasswordPage handles GET /auth/reset-password and renders the form
// for choosing a new password
func (u *Users) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	vd := views.Data{
		Yield: map[string]interface{}{
			"Token": tok,
		},
	}

	user, err := u.app.GetResetPasswordUser(tok)
	if err != nil {
		handleHTMLError(w, r, err, "finding reset token", u.ResetPasswordView, vd)
		return
	}

	vd.Yield["Email"] = user.Email
	vd.Yield["ExpiresAt"] = user.ResetPasswordExpires

	u.ResetPasswordView.Render(w, r, &vd, http.StatusOK)
}

type resetPasswordForm struct {
	Token                string `schema:"token"`
	Password             string `schema:"password"`
	PasswordConfirmation string `schema:"password_confirmation"`
}

// ResetPasswordForm handles the form submitted from the reset password page
func (u *Users) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	var form resetPasswordForm
	if err := parseForm(r, &form); err != nil {
		handleHTMLError(w, r, err, "parsing form", u.ResetPasswordView, views.Data{})
		return
	}

	vd := views.Data{
		Yield: map[string]interface{}{
			"Token": form.Token,
		},
	}

	if form.Password != form.PasswordConfirmation {
		handleHTMLError(w, r, app.ErrPasswordConfirmationMismatch, "password mismatch", u.ResetPasswordView, vd)
		return
	}

	if err := u.app.ResetPassword(form.Token, form.Password); err != nil {
		handleHTMLError(w, r, err, "resetting password", u.ResetPasswordView, vd)
		return
	}

	done := views.Data{
		Yield: map[string]interface{}{
			"LoginURL": u.loginURL(),
		},
	}
	u.ResetPasswordDoneView.Render(w, r, &done, http.StatusOK)
}
