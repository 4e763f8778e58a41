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
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/assert"
	"github.com/lyricsmith/lyricsmith/pkg/server/app"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/presenters"
	"github.com/lyricsmith/lyricsmith/pkg/server/testutils"
	"github.com/pkg/errors"
)

func generatePayload() map[string]interface{} {
	return map[string]interface{}{
		"title":      "Summer Nights",
		"topic":      "a road trip",
		"mood":       "nostalgic",
		"genre":      "indie pop",
		"language":   "English",
		"style":      "acoustic",
		"era":        "90s",
		"verses":     "3",
		"creativity": 7,
	}
}

func TestGenerateSong(t *testing.T) {
	env := newTestEnv(t)
	env.generator.Lyrics = "Verse 1\nwe drove all night"
	user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	server := MustNewServer(t, &env.app)
	defer server.Close()

	// execute
	req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", generatePayload())
	res := testutils.HTTPAuthDo(t, req, user)

	// test
	assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

	var body presenters.Song
	testutils.MustDecodeJSON(t, res, &body)
	assert.Equal(t, body.Title, "Summer Nights", "title mismatch")
	assert.Equal(t, body.Lyrics, "Verse 1\nwe drove all night", "lyrics mismatch")
	assert.Equal(t, body.Creativity, 7, "creativity mismatch")
	assert.Equal(t, body.LikeCount, 0, "like count mismatch")
	assert.Equal(t, body.CreatedBy.IsExpanded(), true, "createdBy should be expanded")
	assert.Equal(t, body.CreatedBy.ID, user.ID, "createdBy id mismatch")
	assert.Equal(t, body.Prompt.IsExpanded(), true, "prompt should be expanded")
	assert.Contains(t, body.Prompt.Value.Prompt, "Summer Nights", "prompt text mismatch")

	assert.Equal(t, env.generator.Calls(), 1, "generator call count mismatch")

	var songCount, promptCount int64
	testutils.MustExec(t, env.app.DB.Model(&database.Song{}).Count(&songCount), "counting songs")
	testutils.MustExec(t, env.app.DB.Model(&database.PromptHistory{}).Count(&promptCount), "counting prompts")
	assert.Equal(t, songCount, int64(1), "song count mismatch")
	assert.Equal(t, promptCount, int64(1), "prompt history count mismatch")
}

func TestGenerateSongError(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		env := newTestEnv(t)
		server := MustNewServer(t, &env.app)
		defer server.Close()

		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", generatePayload())
		res := testutils.HTTPDo(t, req)

		assertErrorBody(t, res, http.StatusUnauthorized, app.ErrUnauthenticated.Message)
		assert.Equal(t, env.generator.Calls(), 0, "generator call count mismatch")
	})

	t.Run("missing field", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
		server := MustNewServer(t, &env.app)
		defer server.Close()

		payload := generatePayload()
		delete(payload, "mood")
		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", payload)
		res := testutils.HTTPAuthDo(t, req, user)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
		assert.Equal(t, env.generator.Calls(), 0, "generator call count mismatch")
	})

	t.Run("creativity out of range", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
		server := MustNewServer(t, &env.app)
		defer server.Close()

		payload := generatePayload()
		payload["creativity"] = 11
		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", payload)
		res := testutils.HTTPAuthDo(t, req, user)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
	})

	t.Run("quota exceeded", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
		for i := 0; i < app.DailySongQuota; i++ {
			testutils.SetupSongData(env.app.DB, user, fmt.Sprintf("song %d", i), env.clock.Now())
		}
		server := MustNewServer(t, &env.app)
		defer server.Close()

		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", generatePayload())
		res := testutils.HTTPAuthDo(t, req, user)

		assertErrorBody(t, res, http.StatusForbidden, app.ErrQuotaExceeded.Message)
		assert.Equal(t, env.generator.Calls(), 0, "generator call count mismatch")
	})

	t.Run("songs from yesterday do not count", func(t *testing.T) {
		env := newTestEnv(t)
		user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
		for i := 0; i < app.DailySongQuota; i++ {
			testutils.SetupSongData(env.app.DB, user, fmt.Sprintf("song %d", i), env.clock.Now().Add(-24*time.Hour))
		}
		server := MustNewServer(t, &env.app)
		defer server.Close()

		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", generatePayload())
		res := testutils.HTTPAuthDo(t, req, user)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")
	})

	t.Run("generation failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.generator.Err = errors.New("upstream unavailable")
		user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
		server := MustNewServer(t, &env.app)
		defer server.Close()

		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/generate", generatePayload())
		res := testutils.HTTPAuthDo(t, req, user)

		assertErrorBody(t, res, http.StatusInternalServerError, app.ErrGenerationFailed.Message)

		var songCount int64
		testutils.MustExec(t, env.app.DB.Model(&database.Song{}).Count(&songCount), "counting songs")
		assert.Equal(t, songCount, int64(0), "song count mismatch")
	})
}

func TestCreateSong(t *testing.T) {
	env := newTestEnv(t)
	user := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	for i := 0; i < app.DailySongQuota; i++ {
		testutils.SetupSongData(env.app.DB, user, fmt.Sprintf("song %d", i), env.clock.Now())
	}
	server := MustNewServer(t, &env.app)
	defer server.Close()

	payload := generatePayload()
	payload["lyrics"] = "handwritten words"
	req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/create", payload)
	res := testutils.HTTPAuthDo(t, req, user)

	assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

	var body presenters.Song
	testutils.MustDecodeJSON(t, res, &body)
	assert.Equal(t, body.Lyrics, "handwritten words", "lyrics mismatch")
	assert.Equal(t, body.Prompt.IsExpanded(), false, "prompt mismatch")
	assert.Equal(t, body.Prompt.ID, "", "prompt id mismatch")
	assert.Equal(t, env.generator.Calls(), 0, "generator call count mismatch")
}

func TestListSongs(t *testing.T) {
	env := newTestEnv(t)
	alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(env.app.DB, "bob@example.com", "pass1234")
	now := env.clock.Now()
	s1 := testutils.SetupSongData(env.app.DB, alice, "first", now.Add(-3*time.Hour))
	s2 := testutils.SetupSongData(env.app.DB, bob, "second", now.Add(-2*time.Hour))
	s3 := testutils.SetupSongData(env.app.DB, alice, "third", now.Add(-1*time.Hour))
	server := MustNewServer(t, &env.app)
	defer server.Close()

	t.Run("first page", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/songs?page=1&limit=2", "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var body presenters.Page[presenters.Song]
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equal(t, len(body.Data), 2, "data length mismatch")
		assert.Equal(t, body.Data[0].ID, s3.ID, "first song mismatch")
		assert.Equal(t, body.Data[1].ID, s2.ID, "second song mismatch")
		assert.Equal(t, body.Data[0].CreatedBy.Value.Email, "alice@example.com", "owner mismatch")
		assert.Equal(t, body.Pagination, app.Pagination{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, "pagination mismatch")
	})

	t.Run("second page", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/songs?page=2&limit=2", "")
		res := testutils.HTTPDo(t, req)

		var body presenters.Page[presenters.Song]
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equal(t, len(body.Data), 1, "data length mismatch")
		assert.Equal(t, body.Data[0].ID, s1.ID, "song mismatch")
	})

	t.Run("my songs", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/songs/my", "")
		res := testutils.HTTPAuthDo(t, req, bob)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var body presenters.Page[presenters.Song]
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equal(t, len(body.Data), 1, "data length mismatch")
		assert.Equal(t, body.Data[0].ID, s2.ID, "song mismatch")
		assert.Equal(t, body.Pagination, app.Pagination{Total: 1, Page: 1, Limit: 10, TotalPages: 1}, "pagination mismatch")
	})

	t.Run("my songs anonymous", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/songs/my", "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestPopularSongs(t *testing.T) {
	env := newTestEnv(t)
	alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	now := env.clock.Now()
	s1 := testutils.SetupSongData(env.app.DB, alice, "quiet", now.Add(-2*time.Hour))
	s2 := testutils.SetupSongData(env.app.DB, alice, "hit", now.Add(-1*time.Hour))
	testutils.MustExec(t, env.app.DB.Model(&database.Song{}).Where("id = ?", s2.ID).Update("like_count", 5), "liking song")
	server := MustNewServer(t, &env.app)
	defer server.Close()

	req := testutils.MakeReq(server.URL, "GET", "/api/songs/popular", "")
	res := testutils.HTTPDo(t, req)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var body []presenters.PopularSong
	testutils.MustDecodeJSON(t, res, &body)
	assert.Equalf(t, len(body), 2, "length mismatch")
	assert.Equal(t, body[0].ID, s2.ID, "first song mismatch")
	assert.Equal(t, body[0].LikeCount, 5, "like count mismatch")
	assert.Equal(t, body[1].ID, s1.ID, "second song mismatch")
	assert.Equal(t, body[0].CreatedBy.Username, "alice", "owner mismatch")
}

func TestShowSong(t *testing.T) {
	env := newTestEnv(t)
	alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	song := testutils.SetupSongData(env.app.DB, alice, "hello", env.clock.Now())
	server := MustNewServer(t, &env.app)
	defer server.Close()

	t.Run("found", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/songs/%s", song.ID), "")
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var body presenters.Song
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equal(t, body.ID, song.ID, "id mismatch")
		assert.Equal(t, body.Lyrics, "la la la", "lyrics mismatch")
	})

	t.Run("not found", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/songs/does-not-exist", "")
		res := testutils.HTTPDo(t, req)

		assertErrorBody(t, res, http.StatusNotFound, app.ErrSongNotFound.Message)
	})
}

func TestDeleteSong(t *testing.T) {
	testCases := []struct {
		name       string
		actor      string
		statusCode int
		remaining  int64
	}{
		{"owner", "alice@example.com", http.StatusOK, 0},
		{"other user", "bob@example.com", http.StatusForbidden, 1},
		{"admin", "admin@example.com", http.StatusOK, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
			bob := testutils.SetupUserData(env.app.DB, "bob@example.com", "pass1234")
			admin := testutils.SetupAdminData(env.app.DB, "admin@example.com", "pass1234")
			song := testutils.SetupSongData(env.app.DB, alice, "hello", env.clock.Now())
			server := MustNewServer(t, &env.app)
			defer server.Close()

			actors := map[string]database.User{
				alice.Email: alice,
				bob.Email:   bob,
				admin.Email: admin,
			}

			req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/songs/%s", song.ID), "")
			res := testutils.HTTPAuthDo(t, req, actors[tc.actor])

			assert.StatusCodeEquals(t, res, tc.statusCode, "status code mismatch")

			var count int64
			testutils.MustExec(t, env.app.DB.Model(&database.Song{}).Count(&count), "counting songs")
			assert.Equal(t, count, tc.remaining, "song count mismatch")
		})
	}
}
