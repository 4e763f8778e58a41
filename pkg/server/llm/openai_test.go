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

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/assert"
)

type fakeReply struct {
	status int
	body   string
}

func completionBody(content string) string {
	b, err := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
	if err != nil {
		panic(err)
	}

	return string(b)
}

const serverErrorBody = `{"error":{"message":"upstream exploded","type":"server_error"}}`

func newFakeServer(t *testing.T, replies []fakeReply, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		n := atomic.AddInt32(calls, 1)
		reply := replies[len(replies)-1]
		if int(n) <= len(replies) {
			reply = replies[n-1]
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		w.Write([]byte(reply.body))
	}))
}

func newTestClient(url string) *OpenAIClient {
	c := NewOpenAIClient(OpenAIParams{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: url,
		Timeout: 5 * time.Second,
	})
	c.Backoff = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

	return c
}

func TestGenerateLyrics(t *testing.T) {
	testCases := []struct {
		name          string
		replies       []fakeReply
		expected      string
		expectedErr   bool
		expectedCalls int32
	}{
		{
			name:          "success trims text",
			replies:       []fakeReply{{status: 200, body: completionBody("  [Verse 1]\nla la\n ")}},
			expected:      "[Verse 1]\nla la",
			expectedCalls: 1,
		},
		{
			name:          "empty completion falls back",
			replies:       []fakeReply{{status: 200, body: completionBody("   ")}},
			expected:      FallbackLyrics,
			expectedCalls: 1,
		},
		{
			name: "retries transient failure",
			replies: []fakeReply{
				{status: 500, body: serverErrorBody},
				{status: 429, body: `{"error":{"message":"slow down","type":"rate_limit"}}`},
				{status: 200, body: completionBody("chorus")},
			},
			expected:      "chorus",
			expectedCalls: 3,
		},
		{
			name:          "gives up after retries",
			replies:       []fakeReply{{status: 503, body: serverErrorBody}},
			expectedErr:   true,
			expectedCalls: 4,
		},
		{
			name:          "does not retry client error",
			replies:       []fakeReply{{status: 400, body: `{"error":{"message":"bad request","type":"invalid_request_error"}}`}},
			expectedErr:   true,
			expectedCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			server := newFakeServer(t, tc.replies, &calls)
			defer server.Close()

			got, err := newTestClient(server.URL).GenerateLyrics(context.Background(), "Write a song")

			if tc.expectedErr {
				assert.NotEqual(t, err, nil, "expected error")
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				assert.Equal(t, got, tc.expected, "lyrics mismatch")
			}
			assert.Equal(t, atomic.LoadInt32(&calls), tc.expectedCalls, "call count mismatch")
		})
	}
}

func TestGenerateLyrics_canceled(t *testing.T) {
	var calls int32
	server := newFakeServer(t, []fakeReply{{status: 500, body: serverErrorBody}}, &calls)
	defer server.Close()

	c := newTestClient(server.URL)
	c.Backoff = []time.Duration{time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GenerateLyrics(ctx, "Write a song")

	assert.Equal(t, err, context.DeadlineExceeded, "error mismatch")
	assert.Equal(t, atomic.LoadInt32(&calls), int32(1), "call count mismatch")
}

func TestStub(t *testing.T) {
	got, err := Stub{}.GenerateLyrics(context.Background(), "Write a pop song")
	if err != nil {
		t.Fatal(err)
	}

	assert.Contains(t, got, "Write a pop song", "stub should echo the prompt")
}
