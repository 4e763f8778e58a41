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

// Package context stores request scoped values set by the middleware
package context

import (
	"context"

	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
)

const (
	userKey      privateKey = "user"
	principalKey privateKey = "principal"
)

type privateKey string

// WithUser creates a new context with the given user and the principal
// derived from it
func WithUser(ctx context.Context, user *database.User) context.Context {
	p := permissions.FromUser(*user)

	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, principalKey, &p)
}

// User retrieves a user from the given context. It returns a pointer to
// a user. If the context does not contain a user, it returns nil.
func User(ctx context.Context) *database.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*database.User); ok {
			return user
		}
	}

	return nil
}

// Principal retrieves the principal from the given context, or nil
func Principal(ctx context.Context) *permissions.Principal {
	if temp := ctx.Value(principalKey); temp != nil {
		if p, ok := temp.(*permissions.Principal); ok {
			return p
		}
	}

	return nil
}
