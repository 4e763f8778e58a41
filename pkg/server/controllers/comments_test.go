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
)

func setupCommentData(t *testing.T, env testEnv, user database.User, song database.Song, text string, createdAt time.Time) database.Comment {
	comment := database.Comment{
		Model:  database.Model{CreatedAt: createdAt},
		Text:   text,
		UserID: user.ID,
		SongID: song.ID,
	}
	testutils.MustExec(t, env.app.DB.Omit("User", "Song").Create(&comment), "preparing comment")

	return comment
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(env.app.DB, "bob@example.com", "pass1234")
	song := testutils.SetupSongData(env.app.DB, alice, "hello", env.clock.Now())
	server := MustNewServer(t, &env.app)
	defer server.Close()

	t.Run("success", func(t *testing.T) {
		req := testutils.MakeJSONReq(t, server.URL, "POST", fmt.Sprintf("/api/songs/%s/comments", song.ID), map[string]string{
			"text": "  lovely chorus  ",
		})
		res := testutils.HTTPAuthDo(t, req, bob)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var body presenters.Comment
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equal(t, body.Text, "lovely chorus", "text mismatch")
		assert.Equal(t, body.CreatedBy.ID, bob.ID, "author mismatch")
		assert.Equal(t, body.CreatedBy.Value.Username, "bob", "author username mismatch")
		assert.Equal(t, body.Song.ID, song.ID, "song mismatch")
	})

	t.Run("empty text", func(t *testing.T) {
		req := testutils.MakeJSONReq(t, server.URL, "POST", fmt.Sprintf("/api/songs/%s/comments", song.ID), map[string]string{
			"text": "   ",
		})
		res := testutils.HTTPAuthDo(t, req, bob)

		assertErrorBody(t, res, http.StatusBadRequest, app.ErrCommentTextRequired.Message)
	})

	t.Run("missing song", func(t *testing.T) {
		req := testutils.MakeJSONReq(t, server.URL, "POST", "/api/songs/does-not-exist/comments", map[string]string{
			"text": "hello",
		})
		res := testutils.HTTPAuthDo(t, req, bob)

		assertErrorBody(t, res, http.StatusNotFound, app.ErrSongNotFound.Message)
	})
}

func TestListComments(t *testing.T) {
	env := newTestEnv(t)
	alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(env.app.DB, "bob@example.com", "pass1234")
	song1 := testutils.SetupSongData(env.app.DB, alice, "first", env.clock.Now())
	song2 := testutils.SetupSongData(env.app.DB, alice, "second", env.clock.Now())
	now := env.clock.Now()
	c1 := setupCommentData(t, env, bob, song1, "older", now.Add(-2*time.Minute))
	c2 := setupCommentData(t, env, alice, song1, "newer", now.Add(-1*time.Minute))
	c3 := setupCommentData(t, env, bob, song2, "elsewhere", now)
	server := MustNewServer(t, &env.app)
	defer server.Close()

	t.Run("song comments", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/api/songs/%s/comments", song1.ID), "")
		res := testutils.HTTPAuthDo(t, req, alice)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var body presenters.Page[presenters.Comment]
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equalf(t, len(body.Data), 2, "data length mismatch")
		assert.Equal(t, body.Data[0].ID, c2.ID, "first comment mismatch")
		assert.Equal(t, body.Data[1].ID, c1.ID, "second comment mismatch")
		assert.Equal(t, body.Data[1].CreatedBy.Value.Email, "bob@example.com", "author mismatch")
		assert.Equal(t, body.Pagination.Total, int64(2), "total mismatch")
	})

	t.Run("my comments", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/api/comments/me?limit=1", "")
		res := testutils.HTTPAuthDo(t, req, bob)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var body presenters.Page[presenters.Comment]
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equalf(t, len(body.Data), 1, "data length mismatch")
		assert.Equal(t, body.Data[0].ID, c3.ID, "comment mismatch")
		assert.Equal(t, body.Data[0].Song.IsExpanded(), true, "song should be expanded")
		assert.Equal(t, body.Data[0].Song.Value.Title, "second", "song title mismatch")
		assert.Equal(t, body.Pagination, app.Pagination{Total: 2, Page: 1, Limit: 1, TotalPages: 2}, "pagination mismatch")
	})
}

func TestDeleteComment(t *testing.T) {
	testCases := []struct {
		name       string
		actor      string
		path       func(song database.Song, comment database.Comment) string
		statusCode int
		remaining  int64
	}{
		{
			name:  "author",
			actor: "bob@example.com",
			path: func(song database.Song, comment database.Comment) string {
				return fmt.Sprintf("/api/comments/%s", comment.ID)
			},
			statusCode: http.StatusOK,
			remaining:  0,
		},
		{
			name:  "author via song",
			actor: "bob@example.com",
			path: func(song database.Song, comment database.Comment) string {
				return fmt.Sprintf("/api/songs/%s/comments/%s", song.ID, comment.ID)
			},
			statusCode: http.StatusOK,
			remaining:  0,
		},
		{
			name:  "song owner who is not the author",
			actor: "alice@example.com",
			path: func(song database.Song, comment database.Comment) string {
				return fmt.Sprintf("/api/comments/%s", comment.ID)
			},
			statusCode: http.StatusForbidden,
			remaining:  1,
		},
		{
			name:  "admin",
			actor: "admin@example.com",
			path: func(song database.Song, comment database.Comment) string {
				return fmt.Sprintf("/api/comments/%s", comment.ID)
			},
			statusCode: http.StatusOK,
			remaining:  0,
		},
		{
			name:  "wrong song",
			actor: "bob@example.com",
			path: func(song database.Song, comment database.Comment) string {
				return fmt.Sprintf("/api/songs/does-not-exist/comments/%s", comment.ID)
			},
			statusCode: http.StatusNotFound,
			remaining:  1,
		},
		{
			name:  "missing comment",
			actor: "bob@example.com",
			path: func(song database.Song, comment database.Comment) string {
				return "/api/comments/does-not-exist"
			},
			statusCode: http.StatusNotFound,
			remaining:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			alice := testutils.SetupUserData(env.app.DB, "alice@example.com", "pass1234")
			bob := testutils.SetupUserData(env.app.DB, "bob@example.com", "pass1234")
			admin := testutils.SetupAdminData(env.app.DB, "admin@example.com", "pass1234")
			song := testutils.SetupSongData(env.app.DB, alice, "hello", env.clock.Now())
			comment := setupCommentData(t, env, bob, song, "nice", env.clock.Now())
			server := MustNewServer(t, &env.app)
			defer server.Close()

			actors := map[string]database.User{
				alice.Email: alice,
				bob.Email:   bob,
				admin.Email: admin,
			}

			req := testutils.MakeReq(server.URL, "DELETE", tc.path(song, comment), "")
			res := testutils.HTTPAuthDo(t, req, actors[tc.actor])

			assert.StatusCodeEquals(t, res, tc.statusCode, "status code mismatch")

			var count int64
			testutils.MustExec(t, env.app.DB.Model(&database.Comment{}).Count(&count), "counting comments")
			assert.Equal(t, count, tc.remaining, "comment count mismatch")
		})
	}
}
