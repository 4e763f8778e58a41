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

package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/helpers"
	"github.com/lyricsmith/lyricsmith/pkg/server/mailer"
	"github.com/pkg/errors"
)

// GetSenderEmail returns the configured sender, or a noreply address on
// the domain of the given base url
func GetSenderEmail(baseURL, want string) (string, error) {
	if want != "" {
		return want, nil
	}

	addr, err := getNoreplySender(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "getting sender email address")
	}

	return addr, nil
}

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host, nil
	}

	return parts[len(parts)-2] + "." + parts[len(parts)-1], nil
}

func getNoreplySender(baseURL string) (string, error) {
	domain, err := getDomainFromURL(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing base url")
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

func (a *App) sender() (string, error) {
	return GetSenderEmail(a.Config.FrontendURL(), a.Config.SMTP.From)
}

func (a *App) apiLink(path, tok string) string {
	q := url.Values{}
	q.Set("token", tok)

	return a.Config.APIURL + helpers.GetPath(path, &q)
}

// SendVerificationEmail sends the email address verification link
func (a *App) SendVerificationEmail(user database.User) error {
	if user.Email == "" {
		return ErrEmailRequired
	}

	from, err := a.sender()
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.EmailVerifyTmplData{
		AccountEmail: user.Email,
		Username:     user.Username,
		VerifyURL:    a.apiLink("/auth/verify", user.VerificationToken.String),
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeVerifyEmail, from, []string{user.Email}, data); err != nil {
		return errors.Wrapf(err, "sending verification email for %s", user.Email)
	}

	return nil
}

// SendPasswordResetEmail sends password reset email
func (a *App) SendPasswordResetEmail(email, tokenValue string) error {
	if email == "" {
		return ErrEmailRequired
	}

	from, err := a.sender()
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.EmailResetPasswordTmplData{
		AccountEmail: email,
		ResetURL:     a.apiLink("/auth/reset-password", tokenValue),
		ExpiresIn:    a.Config.ResetTokenExpires.String(),
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeResetPassword, from, []string{email}, data); err != nil {
		return errors.Wrapf(err, "sending password reset email for %s", email)
	}

	return nil
}

// SendPasswordResetAlertEmail sends email that notifies users of a password change
func (a *App) SendPasswordResetAlertEmail(email string) error {
	from, err := a.sender()
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.EmailResetPasswordAlertTmplData{
		AccountEmail: email,
		BaseURL:      a.Config.FrontendURL(),
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeResetPasswordAlert, from, []string{email}, data); err != nil {
		return errors.Wrapf(err, "sending password reset alert email for %s", email)
	}

	return nil
}
