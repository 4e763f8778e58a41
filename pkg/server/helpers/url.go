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

package helpers

import (
	"net/url"
	"strings"
)

// GetPath returns the path with the given query parameters encoded
func GetPath(path string, q *url.Values) string {
	if q == nil || len(*q) == 0 {
		return path
	}

	return path + "?" + q.Encode()
}

// NormalizeOrigin trims whitespace and trailing slashes from an origin
// so that it can be compared against the Origin request header.
func NormalizeOrigin(origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/")
}

// ParseOrigins splits a comma separated list of origins and normalizes each.
// Empty entries are dropped.
func ParseOrigins(raw string) []string {
	ret := []string{}

	for _, part := range strings.Split(raw, ",") {
		o := NormalizeOrigin(part)
		if o == "" {
			continue
		}

		ret = append(ret, o)
	}

	return ret
}
