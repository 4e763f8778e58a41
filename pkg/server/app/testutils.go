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
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/config"
	"github.com/lyricsmith/lyricsmith/pkg/server/testutils"
)

// NewTest returns an app for a testing environment
func NewTest() App {
	return App{
		Clock:        clock.NewMock(),
		EmailBackend: &testutils.MockEmailbackendImplementation{},
		Generator:    &testutils.MockGenerator{},
		Config: config.Config{
			AppEnv:            "TEST",
			Port:              "4000",
			JWTSecret:         testutils.JWTSecret,
			JWTExpiresIn:      time.Hour * 24 * 7,
			LLMTimeout:        time.Second * 5,
			FrontendURLs:      []string{"http://www.example.com"},
			AdminURL:          "http://admin.example.com",
			APIURL:            "http://api.example.com",
			ResetTokenExpires: time.Minute * 15,
		},
	}
}
