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

// Package token generates single use tokens and signs the access tokens
// handed out to authenticated clients
package token

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lyricsmith/lyricsmith/pkg/server/permissions"
	"github.com/pkg/errors"
)

var (
	// ErrInvalid is returned when an access token cannot be verified
	ErrInvalid = errors.New("invalid access token")
)

// Random returns n random bytes encoded as hex
func Random(n int) (string, error) {
	b := make([]byte, n)

	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return hex.EncodeToString(b), nil
}

// Claims are the claims carried by an access token
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues an access token for the principal valid for ttl from now
func Sign(secret string, p permissions.Principal, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "signing access token")
	}

	return signed, nil
}

// Parse verifies the access token and returns the principal it was issued
// for. Any verification failure, including expiry, yields ErrInvalid.
func Parse(secret, raw string, now time.Time) (permissions.Principal, error) {
	var claims Claims

	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !tok.Valid || claims.Subject == "" {
		return permissions.Principal{}, ErrInvalid
	}

	return permissions.Principal{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
