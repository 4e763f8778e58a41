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

// Package testutils provides utilities used in tests
package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/helpers"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	"github.com/lyricsmith/lyricsmith/pkg/server/token"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// JWTSecret is the secret used to sign access tokens in tests
const JWTSecret = "lyricsmith-test-secret"

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// Unique name per test so that connections of different tests do not share data
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatalf("failed to generate UUID for test database: %v", err)
	}
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

func setupUser(db *gorm.DB, email, password, role string) database.User {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	user := database.User{
		Username:   strings.Split(email, "@")[0],
		Email:      email,
		Password:   database.ToNullString(string(hashedPassword)),
		Role:       role,
		IsVerified: true,
	}

	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// SetupUserData creates and returns a new verified user with email and password for testing purposes
func SetupUserData(db *gorm.DB, email, password string) database.User {
	return setupUser(db, email, password, database.RoleUser)
}

// SetupAdminData creates and returns a new verified administrator
func SetupAdminData(db *gorm.DB, email, password string) database.User {
	return setupUser(db, email, password, database.RoleAdmin)
}

// SetupSongData creates and returns a song owned by the given user created at the given time
func SetupSongData(db *gorm.DB, user database.User, title string, createdAt time.Time) database.Song {
	song := database.Song{
		Model:      database.Model{CreatedAt: createdAt},
		Title:      title,
		Lyrics:     database.ToNullString("la la la"),
		Topic:      "love",
		Mood:       "happy",
		Genre:      "pop",
		Language:   "English",
		Creativity: 5,
		UserID:     user.ID,
	}

	if err := db.Save(&song).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare song"))
	}

	return song
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects.
		// e.g. /auth/google redirects to a provider but we'd like to test the redirect
		// itself, not what happens after the redirect
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// MustSignToken issues an access token for the user signed with JWTSecret
func MustSignToken(t *testing.T, user database.User) string {
	tok, err := token.Sign(JWTSecret, permissions.FromUser(user), time.Now(), time.Hour*24*7)
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing access token"))
	}

	return tok
}

// SetReqAuthHeader sets the authorization header in the given request for the given user
func SetReqAuthHeader(t *testing.T, req *http.Request, user database.User) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", MustSignToken(t, user)))
}

// HTTPAuthDo makes an HTTP request with an appropriate authorization header for a user
func HTTPAuthDo(t *testing.T, req *http.Request, user database.User) *http.Response {
	SetReqAuthHeader(t, req, user)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))

	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeJSONReq makes an HTTP request with the JSON encoding of the given payload
func MakeJSONReq(t *testing.T, endpoint, method, path string, payload interface{}) *http.Request {
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(errors.Wrap(err, "marshalling payload"))
	}

	req := MakeReq(endpoint, method, path, string(b))
	req.Header.Set("Content-Type", "application/json")

	return req
}

// MakeFormReq makes an HTTP request and returns a response
func MakeFormReq(endpoint, method, path string, data url.Values) *http.Request {
	req := MakeReq(endpoint, method, path, data.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// MustDecodeJSON decodes the response body into v and fails the test on error
func MustDecodeJSON(t *testing.T, res *http.Response, v interface{}) {
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(errors.Wrap(err, "decoding response body"))
	}
}

// GetCookieByName returns a cookie with the given name
func GetCookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	var ret *http.Cookie

	for i := 0; i < len(cookies); i++ {
		if cookies[i].Name == name {
			ret = cookies[i]
			break
		}
	}

	return ret
}

// MockEmail is a mock email data
type MockEmail struct {
	TemplateType string
	From         string
	To           []string
	Data         interface{}
}

// MockEmailbackendImplementation is an email backend that records emails
// instead of sending them
type MockEmailbackendImplementation struct {
	mu     sync.RWMutex
	Emails []MockEmail
	Err    error
}

// Clear clears the mock email queue
func (b *MockEmailbackendImplementation) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = []MockEmail{}
}

// SendEmail is an implementation of Backend.SendEmail.
func (b *MockEmailbackendImplementation) SendEmail(templateType, from string, to []string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Err != nil {
		return b.Err
	}

	b.Emails = append(b.Emails, MockEmail{
		TemplateType: templateType,
		From:         from,
		To:           to,
		Data:         data,
	})

	return nil
}

// Sent returns a copy of the recorded emails
func (b *MockEmailbackendImplementation) Sent() []MockEmail {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]MockEmail{}, b.Emails...)
}

// MockGenerator is a lyrics generator that answers with fixed lyrics
type MockGenerator struct {
	mu      sync.Mutex
	Lyrics  string
	Err     error
	Prompts []string
}

// GenerateLyrics is an implementation of llm.Generator.GenerateLyrics
func (g *MockGenerator) GenerateLyrics(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	if g.Lyrics == "" {
		return "generated lyrics", nil
	}

	return g.Lyrics, nil
}

// Calls returns the number of prompts the generator received
func (g *MockGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.Prompts)
}
