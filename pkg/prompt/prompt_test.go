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

package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lyricsmith/lyricsmith/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	testCases := []struct {
		question   string
		optimistic bool
		expected   string
	}{
		{
			question:   "Promote user?",
			optimistic: false,
			expected:   "Promote user? (y/N)",
		},
		{
			question:   "Continue?",
			optimistic: true,
			expected:   "Continue? (Y/n)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.question, func(t *testing.T) {
			result := FormatQuestion(tc.question, tc.optimistic)
			assert.Equal(t, result, tc.expected, "formatted question mismatch")
		})
	}
}

func TestReadYesNo(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		optimistic bool
		expected   bool
	}{
		{name: "pessimistic with y", input: "y\n", optimistic: false, expected: true},
		{name: "pessimistic with yes", input: "Yes\n", optimistic: false, expected: true},
		{name: "pessimistic with n", input: "n\n", optimistic: false, expected: false},
		{name: "pessimistic with empty", input: "\n", optimistic: false, expected: false},
		{name: "optimistic with n", input: "n\n", optimistic: true, expected: false},
		{name: "optimistic with empty", input: "\n", optimistic: true, expected: true},
		{name: "optimistic with whitespace", input: "  \n", optimistic: true, expected: true},
		{name: "invalid input", input: "maybe\n", optimistic: false, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ReadYesNo(strings.NewReader(tc.input), tc.optimistic)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assert.Equal(t, result, tc.expected, "ReadYesNo result mismatch")
		})
	}
}

func TestReadYesNo_Error(t *testing.T) {
	_, err := ReadYesNo(strings.NewReader(""), false)
	if err == nil {
		t.Fatal("expected error when reading from empty reader")
	}
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer

	ok, err := Confirm(strings.NewReader("y\n"), &out, "Delete?", false)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, ok, true, "confirmation mismatch")
	assert.Equal(t, out.String(), "Delete? (y/N) ", "question output mismatch")
}
