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

package mailer

// EmailVerifyTmplData is a template data for email verification emails
type EmailVerifyTmplData struct {
	AccountEmail string
	Username     string
	VerifyURL    string
}

// EmailResetPasswordTmplData is a template data for reset password emails
type EmailResetPasswordTmplData struct {
	AccountEmail string
	ResetURL     string
	ExpiresIn    string
}

// EmailResetPasswordAlertTmplData is a template data for password change alert emails
type EmailResetPasswordAlertTmplData struct {
	AccountEmail string
	BaseURL      string
}
