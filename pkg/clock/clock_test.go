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

package clock

import (
	"testing"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/assert"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)

	testCases := []struct {
		input    time.Time
		expected time.Time
	}{
		{
			input:    time.Date(2024, time.March, 3, 15, 4, 5, 6, time.UTC),
			expected: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			input:    time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			input:    time.Date(2024, time.March, 3, 23, 59, 59, 0, loc),
			expected: time.Date(2024, time.March, 3, 0, 0, 0, 0, loc),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.input.String(), func(t *testing.T) {
			got := StartOfDay(tc.input)
			assert.Equal(t, got.Equal(tc.expected), true, "start of day mismatch")
		})
	}
}

func TestMockAdvance(t *testing.T) {
	c := NewMock()
	start := c.Now()

	c.Advance(90 * time.Minute)

	assert.Equal(t, c.Now().Sub(start), 90*time.Minute, "advanced duration mismatch")
}
