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

package app

import (
	"strconv"
	"strings"
)

// ComposePrompt renders the generation request into the instruction sent to
// the lyrics service. Every field is embedded verbatim and the output
// depends on nothing but the arguments.
func ComposePrompt(p GenerateSongParams) string {
	var b strings.Builder

	b.WriteString("Write a " + p.Genre + " song in " + p.Language + ".\n")
	b.WriteString("Title: " + p.Title + "\n")
	b.WriteString("Topic: " + p.Topic + "\n")
	b.WriteString("Mood: " + p.Mood + "\n")
	b.WriteString("Era: " + p.Era + "\n")
	b.WriteString("Structure: " + p.Verses + "\n")
	b.WriteString("Creativity level: " + strconv.Itoa(p.Creativity) + "/10.\n")
	b.WriteString("Include verses and a chorus.")

	return b.String()
}
