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
	"errors"
	"strings"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	"github.com/lyricsmith/lyricsmith/pkg/server/token"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// MinPasswordLength is the minimum length of a password
	MinPasswordLength = 6
	// tokenBytes is the number of random bytes in verification and reset tokens
	tokenBytes = 32
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", pkgErrors.Wrap(err, "hashing password")
	}

	return string(hashed), nil
}

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&database.User{}).Where("id = ?", user.ID).UpdateColumn("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// RegisterParams is the data submitted at registration
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// Register creates an unverified user and sends the verification email
func (a *App) Register(p RegisterParams) (database.User, error) {
	username := strings.TrimSpace(p.Username)
	email := normalizeEmail(p.Email)

	if username == "" {
		return database.User{}, ErrUsernameRequired
	}
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(p.Password) < MinPasswordLength {
		return database.User{}, ErrPasswordTooShort
	}

	hashedPassword, err := hashPassword(p.Password)
	if err != nil {
		return database.User{}, err
	}

	verificationToken, err := token.Random(tokenBytes)
	if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "generating verification token")
	}

	user := database.User{
		Model:             database.Model{CreatedAt: a.Clock.Now()},
		Username:          username,
		Email:             email,
		Password:          database.ToNullString(hashedPassword),
		Role:              database.RoleUser,
		IsVerified:        false,
		VerificationToken: database.ToNullString(verificationToken),
	}

	if err := a.insertUser(&user); err != nil {
		return database.User{}, err
	}

	if err := a.SendVerificationEmail(user); err != nil {
		log.WithFields(log.Fields{
			"userId": user.ID,
		}).ErrorWrap(err, "sending verification email")
	}

	return user, nil
}

// insertUser inserts the user unless the email is taken
func (a *App) insertUser(user *database.User) error {
	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(&database.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return ErrDuplicateEmail
	}

	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		// the email was taken by a registration that committed after the count
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return pkgErrors.Wrap(err, "saving user")
	}

	return pkgErrors.Wrap(tx.Commit().Error, "committing user")
}

// CreateUserParams is used by operators to create accounts directly
type CreateUserParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

// CreateUser creates a verified user with the given role
func (a *App) CreateUser(p CreateUserParams) (database.User, error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return database.User{}, ErrEmailRequired
	}
	if len(p.Password) < MinPasswordLength {
		return database.User{}, ErrPasswordTooShort
	}

	role := p.Role
	if role == "" {
		role = database.RoleUser
	}
	if role != database.RoleUser && role != database.RoleAdmin {
		return database.User{}, validationError("unknown role %s", role)
	}

	hashedPassword, err := hashPassword(p.Password)
	if err != nil {
		return database.User{}, err
	}

	user := database.User{
		Model:      database.Model{CreatedAt: a.Clock.Now()},
		Username:   strings.TrimSpace(p.Username),
		Email:      email,
		Password:   database.ToNullString(hashedPassword),
		Role:       role,
		IsVerified: true,
	}
	if err := a.insertUser(&user); err != nil {
		return database.User{}, err
	}

	return user, nil
}

// PromoteUser grants the admin role to the user with the given email
func (a *App) PromoteUser(email string) (database.User, error) {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return user, err
	}

	if err := a.DB.Model(&database.User{}).Where("id = ?", user.ID).
		UpdateColumn("role", database.RoleAdmin).Error; err != nil {
		return user, pkgErrors.Wrap(err, "updating role")
	}
	user.Role = database.RoleAdmin

	return user, nil
}

// GetUser returns the user with the given id
func (a *App) GetUser(id string) (database.User, error) {
	var user database.User

	err := a.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrUserNotFound
	} else if err != nil {
		return user, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// GetUserByEmail returns the user with the given email
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User

	err := a.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrUserNotFound
	} else if err != nil {
		return user, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// ListUsers returns all users, newest first
func (a *App) ListUsers() ([]database.User, error) {
	users := []database.User{}

	if err := a.DB.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "finding users")
	}

	return users, nil
}

// Authenticate checks the credentials of a password login
func (a *App) Authenticate(email, password string) (database.User, error) {
	var user database.User

	err := a.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrLoginUserNotFound
	} else if err != nil {
		return user, pkgErrors.Wrap(err, "finding user")
	}

	if !user.IsVerified {
		return user, ErrLoginNotVerified
	}
	if !user.Password.Valid || user.Password.String == "" {
		return user, ErrLoginNoPassword
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password)); err != nil {
		return user, ErrLoginInvalid
	}

	return user, nil
}

// SignIn records the login and issues an access token for the user
func (a *App) SignIn(user database.User) (string, error) {
	if err := a.TouchLastLoginAt(user, a.DB); err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	return a.SignToken(user)
}

// SignToken issues an access token for the user
func (a *App) SignToken(user database.User) (string, error) {
	return token.Sign(a.Config.JWTSecret, permissions.FromUser(user), a.Clock.Now(), a.Config.JWTExpiresIn)
}

// AuthenticateToken verifies an access token and loads its user
func (a *App) AuthenticateToken(raw string) (database.User, error) {
	p, err := token.Parse(a.Config.JWTSecret, raw, a.Clock.Now())
	if err != nil {
		return database.User{}, ErrUnauthenticated
	}

	user, err := a.GetUser(p.ID)
	if err == ErrUserNotFound {
		return user, ErrUnauthenticated
	}

	return user, err
}

// VerifyEmail redeems a verification token
func (a *App) VerifyEmail(tok string) (database.User, error) {
	var user database.User

	if tok == "" {
		return user, ErrInvalidOrExpiredToken
	}

	err := a.DB.Where("verification_token = ?", tok).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrInvalidOrExpiredToken
	} else if err != nil {
		return user, pkgErrors.Wrap(err, "finding user by verification token")
	}

	if err := a.DB.Model(&database.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": nil,
	}).Error; err != nil {
		return user, pkgErrors.Wrap(err, "verifying user")
	}

	user.IsVerified = true
	user.VerificationToken = database.ToNullString("")

	return user, nil
}

// ForgotPassword issues a time boxed reset token and emails the reset link
func (a *App) ForgotPassword(email string) error {
	user, err := a.GetUserByEmail(email)
	if err == ErrUserNotFound {
		return ErrEmailNotRegistered
	} else if err != nil {
		return err
	}

	resetToken, err := token.Random(tokenBytes)
	if err != nil {
		return pkgErrors.Wrap(err, "generating reset token")
	}
	expires := a.Clock.Now().Add(a.Config.ResetTokenExpires)

	if err := a.DB.Model(&database.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"reset_password_token":   resetToken,
		"reset_password_expires": expires,
	}).Error; err != nil {
		return pkgErrors.Wrap(err, "saving reset token")
	}

	if err := a.SendPasswordResetEmail(user.Email, resetToken); err != nil {
		return pkgErrors.Wrap(err, "sending password reset email")
	}

	return nil
}

// GetResetPasswordUser returns the user holding the unexpired reset token
func (a *App) GetResetPasswordUser(tok string) (database.User, error) {
	var user database.User

	if tok == "" {
		return user, ErrInvalidOrExpiredToken
	}

	err := a.DB.Where("reset_password_token = ? AND reset_password_expires > ?", tok, a.Clock.Now()).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrInvalidOrExpiredToken
	} else if err != nil {
		return user, pkgErrors.Wrap(err, "finding user by reset token")
	}

	return user, nil
}

// ResetPassword redeems a reset token and sets the new password
func (a *App) ResetPassword(tok, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := a.GetResetPasswordUser(tok)
	if err != nil {
		return err
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := a.DB.Model(&database.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password":               hashedPassword,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}).Error; err != nil {
		return pkgErrors.Wrap(err, "updating password")
	}

	if err := a.SendPasswordResetAlertEmail(user.Email); err != nil {
		log.WithFields(log.Fields{
			"userId": user.ID,
		}).ErrorWrap(err, "sending password reset alert email")
	}

	return nil
}
