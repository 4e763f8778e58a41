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

package presenters

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// FormatTS rounds up the given timestamp to the millisecond
// so as to make the times in the responses consistent
func FormatTS(ts time.Time) time.Time {
	return ts.UTC().Round(time.Millisecond)
}

// Ref is a reference to another record. It is presented either as the
// raw id or as the expanded record.
type Ref[T any] struct {
	ID    string
	Value *T
}

// IDRef returns a reference presented as the raw id
func IDRef[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Expanded returns a reference presented as the expanded record
func Expanded[T any](v T) Ref[T] {
	return Ref[T]{Value: &v}
}

// IsExpanded reports whether the reference carries the record
func (r Ref[T]) IsExpanded() bool {
	return r.Value != nil
}

// MarshalJSON encodes the expanded record, the id, or null when the
// reference is empty
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}

	return json.Marshal(r.ID)
}

// UnmarshalJSON decodes either form of the reference
func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		*r = Ref[T]{}
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return errors.Wrap(err, "decoding reference id")
		}
		*r = IDRef[T](id)
	default:
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return errors.Wrap(err, "decoding expanded reference")
		}
		*r = Expanded(v)
	}

	return nil
}
