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

// Package llm talks to the external text generation service that writes
// song lyrics
package llm

import (
	"context"
	"strings"
)

// FallbackLyrics is returned when the service answers without any text
const FallbackLyrics = "Lyrics could not be generated."

// Generator generates lyrics for a rendered prompt
type Generator interface {
	GenerateLyrics(ctx context.Context, prompt string) (string, error)
}

// normalize trims the completion and substitutes the fallback for an
// empty answer
func normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackLyrics
	}

	return text
}

// Stub is a Generator that does not call any service. It is used in
// development when no API key is configured.
type Stub struct{}

// GenerateLyrics is an implementation of Generator.GenerateLyrics
func (Stub) GenerateLyrics(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return normalize("[Verse 1]\n(placeholder lyrics)\n\n[Chorus]\n(placeholder chorus)\n\n-- generated offline for:\n" + prompt), nil
}
