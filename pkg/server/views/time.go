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

package views

import (
	"fmt"
	"time"
)

type timeDiff struct {
	text  string
	tense string
}

func pluralize(singular string, count int) string {
	var noun string
	if count == 1 {
		noun = singular
	} else {
		noun = singular + "s"
	}

	return noun
}

func abs(num int64) int64 {
	if num < 0 {
		return -num
	}

	return num
}

var (
	DAY  = 24 * time.Hour.Milliseconds()
	WEEK = 7 * DAY
)

func getTimeDiffText(interval int64, noun string) string {
	return fmt.Sprintf("%d %s", interval, pluralize(noun, int(interval)))
}

func relativeTimeDiff(t1, t2 time.Time) timeDiff {
	diff := t1.Sub(t2)
	ts := abs(diff.Milliseconds())

	var tense string
	if diff > 0 {
		tense = "past"
	} else {
		tense = "future"
	}

	units := []struct {
		size int64
		noun string
	}{
		{DAY, "day"},
		{time.Hour.Milliseconds(), "hour"},
		{time.Minute.Milliseconds(), "minute"},
	}

	for _, u := range units {
		if interval := ts / u.size; interval >= 1 {
			return timeDiff{
				text:  getTimeDiffText(interval, u.noun),
				tense: tense,
			}
		}
	}

	return timeDiff{
		text: "less than a minute",
	}
}

// timeUntil describes how long remains until the given time, for instance
// "in 15 minutes". Times in the past read as "expired".
func timeUntil(now time.Time, val interface{}) string {
	var t time.Time
	switch v := val.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return ""
		}
		t = *v
	default:
		return ""
	}

	d := relativeTimeDiff(now, t)
	if d.tense == "past" {
		return "expired"
	}

	return fmt.Sprintf("in %s", d.text)
}
