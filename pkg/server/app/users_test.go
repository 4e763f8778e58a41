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
	"testing"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/assert"
	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/mailer"
	"github.com/lyricsmith/lyricsmith/pkg/server/testutils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		emailBackend := testutils.MockEmailbackendImplementation{}

		a := NewTest()
		a.DB = db
		a.EmailBackend = &emailBackend

		user, err := a.Register(RegisterParams{Username: " alice ", Email: " Alice@Example.com ", Password: "pass1234"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var userCount int64
		var userRecord database.User
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")

		assert.Equal(t, userCount, int64(1), "user count mismatch")
		assert.Equal(t, userRecord.Email, "alice@example.com", "email mismatch")
		assert.Equal(t, userRecord.Username, "alice", "username mismatch")
		assert.Equal(t, userRecord.Role, database.RoleUser, "role mismatch")
		assert.Equal(t, userRecord.IsVerified, false, "is_verified mismatch")
		assert.Equal(t, len(userRecord.VerificationToken.String), 64, "verification token length mismatch")

		passwordErr := bcrypt.CompareHashAndPassword([]byte(userRecord.Password.String), []byte("pass1234"))
		assert.Equal(t, passwordErr, nil, "Password mismatch")

		assert.Equal(t, len(emailBackend.Emails), 1, "email count mismatch")
		assert.Equal(t, emailBackend.Emails[0].TemplateType, mailer.EmailTypeVerifyEmail, "email type mismatch")
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		testutils.SetupUserData(db, "alice@example.com", "somepassword")

		a := NewTest()
		a.DB = db

		_, err := a.Register(RegisterParams{Username: "alice2", Email: "alice@example.com", Password: "newpassword"})
		assert.Equal(t, err, ErrDuplicateEmail, "error mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("duplicate email inserted after the check", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		var interleaved bool
		err := db.Callback().Query().After("gorm:query").Register("test:interleave_register", func(tx *gorm.DB) {
			if interleaved || tx.Statement.Table != "users" {
				return
			}
			interleaved = true

			other := tx.Session(&gorm.Session{NewDB: true})
			other.Create(&database.User{Email: "alice@example.com", Role: database.RoleUser})
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "registering callback"))
		}

		a := NewTest()
		a.DB = db

		err = a.insertUser(&database.User{Username: "alice", Email: "alice@example.com", Role: database.RoleUser})
		assert.Equal(t, interleaved, true, "interleaved insert did not run")
		assert.Equal(t, err, ErrDuplicateEmail, "error mismatch")
	})

	t.Run("validation", func(t *testing.T) {
		testCases := []struct {
			params   RegisterParams
			expected error
		}{
			{
				params:   RegisterParams{Username: "", Email: "alice@example.com", Password: "pass1234"},
				expected: ErrUsernameRequired,
			},
			{
				params:   RegisterParams{Username: "alice", Email: " ", Password: "pass1234"},
				expected: ErrEmailRequired,
			},
			{
				params:   RegisterParams{Username: "alice", Email: "alice@example.com", Password: "12345"},
				expected: ErrPasswordTooShort,
			},
		}

		for _, tc := range testCases {
			db := testutils.InitMemoryDB(t)
			a := NewTest()
			a.DB = db

			_, err := a.Register(tc.params)
			assert.Equal(t, err, tc.expected, "error mismatch")
		}
	})

	t.Run("email failure does not fail registration", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db
		a.EmailBackend = &testutils.MockEmailbackendImplementation{Err: errors.New("smtp down")}

		if _, err := a.Register(RegisterParams{Username: "alice", Email: "alice@example.com", Password: "pass1234"}); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})
}

func TestVerifyEmail(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	a := NewTest()
	a.DB = db

	user, err := a.Register(RegisterParams{Username: "alice", Email: "alice@example.com", Password: "pass1234"})
	if err != nil {
		t.Fatal(errors.Wrap(err, "registering"))
	}

	_, err = a.Authenticate("alice@example.com", "pass1234")
	assert.Equal(t, err, ErrLoginNotVerified, "login before verification")

	if _, err := a.VerifyEmail(user.VerificationToken.String); err != nil {
		t.Fatal(errors.Wrap(err, "verifying"))
	}

	var userRecord database.User
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	assert.Equal(t, userRecord.IsVerified, true, "is_verified mismatch")
	assert.Equal(t, userRecord.VerificationToken.Valid, false, "verification token should be cleared")

	_, err = a.VerifyEmail(user.VerificationToken.String)
	assert.Equal(t, err, ErrInvalidOrExpiredToken, "redeeming twice")

	_, err = a.VerifyEmail("")
	assert.Equal(t, err, ErrInvalidOrExpiredToken, "empty token")

	if _, err := a.Authenticate("alice@example.com", "pass1234"); err != nil {
		t.Fatal(errors.Wrap(err, "login after verification"))
	}
}

func TestAuthenticate(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	testutils.SetupUserData(db, "alice@example.com", "pass1234")

	unverified := testutils.SetupUserData(db, "bob@example.com", "pass1234")
	testutils.MustExec(t, db.Model(&unverified).UpdateColumn("is_verified", false), "unverifying bob")

	googleOnly := testutils.SetupUserData(db, "chuck@example.com", "pass1234")
	testutils.MustExec(t, db.Model(&googleOnly).UpdateColumn("password", nil), "clearing chuck password")

	a := NewTest()
	a.DB = db

	testCases := []struct {
		name     string
		email    string
		password string
		expected error
	}{
		{name: "success", email: "alice@example.com", password: "pass1234", expected: nil},
		{name: "case insensitive email", email: " ALICE@example.com", password: "pass1234", expected: nil},
		{name: "unknown email", email: "nobody@example.com", password: "pass1234", expected: ErrLoginUserNotFound},
		{name: "not verified", email: "bob@example.com", password: "pass1234", expected: ErrLoginNotVerified},
		{name: "no password", email: "chuck@example.com", password: "pass1234", expected: ErrLoginNoPassword},
		{name: "wrong password", email: "alice@example.com", password: "wrong", expected: ErrLoginInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Authenticate(tc.email, tc.password)
			if tc.expected == nil {
				assert.Equal(t, err, nil, "error mismatch")
			} else {
				assert.Equal(t, err, tc.expected, "error mismatch")
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	tok, err := a.SignIn(user)
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing in"))
	}

	var userRecord database.User
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	assert.NotEqual(t, userRecord.LastLoginAt, (*time.Time)(nil), "last_login_at should be set")

	authed, err := a.AuthenticateToken(tok)
	if err != nil {
		t.Fatal(errors.Wrap(err, "authenticating token"))
	}
	assert.Equal(t, authed.ID, user.ID, "user id mismatch")
}

func TestAuthenticateToken(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	t.Run("expired", func(t *testing.T) {
		c := clock.NewMock()
		a := NewTest()
		a.DB = db
		a.Clock = c

		tok, err := a.SignToken(user)
		if err != nil {
			t.Fatal(errors.Wrap(err, "signing"))
		}

		c.Advance(a.Config.JWTExpiresIn + time.Minute)

		_, err = a.AuthenticateToken(tok)
		assert.Equal(t, err, ErrUnauthenticated, "error mismatch")
	})

	t.Run("wrong secret", func(t *testing.T) {
		a := NewTest()
		a.DB = db

		tok, err := a.SignToken(user)
		if err != nil {
			t.Fatal(errors.Wrap(err, "signing"))
		}

		a.Config.JWTSecret = "another-secret"
		_, err = a.AuthenticateToken(tok)
		assert.Equal(t, err, ErrUnauthenticated, "error mismatch")
	})

	t.Run("deleted user", func(t *testing.T) {
		a := NewTest()
		a.DB = db

		tok, err := a.SignToken(database.User{Model: database.Model{ID: "00000000-0000-0000-0000-000000000000"}, Email: "ghost@example.com"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "signing"))
		}

		_, err = a.AuthenticateToken(tok)
		assert.Equal(t, err, ErrUnauthenticated, "error mismatch")
	})
}

func TestPasswordReset(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "oldpassword")
	emailBackend := testutils.MockEmailbackendImplementation{}
	c := clock.NewMock()

	a := NewTest()
	a.DB = db
	a.Clock = c
	a.EmailBackend = &emailBackend

	err := a.ForgotPassword("nobody@example.com")
	assert.Equal(t, err, ErrEmailNotRegistered, "unknown email")

	if err := a.ForgotPassword("alice@example.com"); err != nil {
		t.Fatal(errors.Wrap(err, "requesting reset"))
	}

	var userRecord database.User
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	resetToken := userRecord.ResetPasswordToken.String
	assert.Equal(t, len(resetToken), 64, "reset token length mismatch")
	assert.Equal(t, userRecord.ResetPasswordExpires.Equal(c.Now().Add(a.Config.ResetTokenExpires)), true, "expiry mismatch")

	assert.Equal(t, len(emailBackend.Emails), 1, "email count mismatch")
	assert.Equal(t, emailBackend.Emails[0].TemplateType, mailer.EmailTypeResetPassword, "email type mismatch")

	err = a.ResetPassword(resetToken, "123")
	assert.Equal(t, err, ErrPasswordTooShort, "short password")

	err = a.ResetPassword("bogus", "newpassword")
	assert.Equal(t, err, ErrInvalidOrExpiredToken, "bogus token")

	if err := a.ResetPassword(resetToken, "newpassword"); err != nil {
		t.Fatal(errors.Wrap(err, "resetting password"))
	}

	_, err = a.Authenticate("alice@example.com", "oldpassword")
	assert.Equal(t, err, ErrLoginInvalid, "old password should no longer work")
	if _, err := a.Authenticate("alice@example.com", "newpassword"); err != nil {
		t.Fatal(errors.Wrap(err, "login with new password"))
	}

	err = a.ResetPassword(resetToken, "anotherpassword")
	assert.Equal(t, err, ErrInvalidOrExpiredToken, "token is single use")

	assert.Equal(t, len(emailBackend.Emails), 2, "email count mismatch")
	assert.Equal(t, emailBackend.Emails[1].TemplateType, mailer.EmailTypeResetPasswordAlert, "alert email type mismatch")
}

func TestResetPassword_Expired(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	testutils.SetupUserData(db, "alice@example.com", "oldpassword")
	c := clock.NewMock()

	a := NewTest()
	a.DB = db
	a.Clock = c

	if err := a.ForgotPassword("alice@example.com"); err != nil {
		t.Fatal(errors.Wrap(err, "requesting reset"))
	}

	var userRecord database.User
	testutils.MustExec(t, db.First(&userRecord), "finding user")

	c.Advance(a.Config.ResetTokenExpires + time.Second)

	err := a.ResetPassword(userRecord.ResetPasswordToken.String, "newpassword")
	assert.Equal(t, err, ErrInvalidOrExpiredToken, "error mismatch")
}

func TestCreateUser(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		user, err := a.CreateUser(CreateUserParams{Username: "root", Email: "root@example.com", Password: "pass1234", Role: database.RoleAdmin})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, user.Role, database.RoleAdmin, "role mismatch")
		assert.Equal(t, user.IsVerified, true, "is_verified mismatch")
	})

	t.Run("unknown role", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		_, err := a.CreateUser(CreateUserParams{Email: "root@example.com", Password: "pass1234", Role: "superuser"})
		assert.NotEqual(t, err, nil, "error should not be nil")
	})
}

func TestPromoteUser(t *testing.T) {
	db := testutils.InitMemoryDB(t)
	user := testutils.SetupUserData(db, "alice@example.com", "pass1234")

	a := NewTest()
	a.DB = db

	if _, err := a.PromoteUser("Alice@example.com"); err != nil {
		t.Fatal(errors.Wrap(err, "promoting"))
	}

	var userRecord database.User
	testutils.MustExec(t, db.Where("id = ?", user.ID).First(&userRecord), "finding user")
	assert.Equal(t, userRecord.Role, database.RoleAdmin, "role mismatch")

	_, err := a.PromoteUser("nobody@example.com")
	assert.Equal(t, err, ErrUserNotFound, "error mismatch")
}

func TestFindOrCreateGoogleUser(t *testing.T) {
	t.Run("new user", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := NewTest()
		a.DB = db

		user, err := a.FindOrCreateGoogleUser(GoogleProfile{ID: "g-1", Email: "alice@example.com", Name: "Alice", Picture: "http://img"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, user.Username, "Alice", "username mismatch")
		assert.Equal(t, user.IsVerified, true, "is_verified mismatch")
		assert.Equal(t, user.Password.Valid, false, "google users have no password")
		assert.Equal(t, user.Provider.String, database.ProviderGoogle, "provider mismatch")

		again, err := a.FindOrCreateGoogleUser(GoogleProfile{ID: "g-1", Email: "alice@example.com"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing again"))
		}
		assert.Equal(t, again.ID, user.ID, "should find the same user")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting user")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("links existing account", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)
		existing := testutils.SetupUserData(db, "alice@example.com", "pass1234")

		a := NewTest()
		a.DB = db

		user, err := a.FindOrCreateGoogleUser(GoogleProfile{ID: "g-2", Email: "Alice@example.com"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		assert.Equal(t, user.ID, existing.ID, "user id mismatch")
		assert.Equal(t, user.GoogleID.String, "g-2", "google id mismatch")
		assert.Equal(t, user.Password.Valid, true, "password should be kept")
	})
}
