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

package database

import (
	"testing"
	"time"

	"github.com/lyricsmith/lyricsmith/pkg/assert"
	"github.com/lyricsmith/lyricsmith/pkg/clock"
)

func TestClearExpiredResetTokens(t *testing.T) {
	db := openMemoryDB(t, "clear-expired-reset-tokens")
	c := clock.NewMock()
	now := c.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	expired := User{Email: "expired@example.com", ResetPasswordToken: ToNullString("a"), ResetPasswordExpires: &past}
	active := User{Email: "active@example.com", ResetPasswordToken: ToNullString("b"), ResetPasswordExpires: &future}
	none := User{Email: "none@example.com"}
	for _, u := range []*User{&expired, &active, &none} {
		if err := db.Create(u).Error; err != nil {
			t.Fatal(err)
		}
	}

	n, err := ClearExpiredResetTokens(db, c)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n, int64(1), "affected count mismatch")

	var gotExpired, gotActive User
	if err := db.Where("id = ?", expired.ID).First(&gotExpired).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Where("id = ?", active.ID).First(&gotActive).Error; err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, gotExpired.ResetPasswordToken.Valid, false, "expired token should be cleared")
	assert.Equal(t, gotExpired.ResetPasswordExpires == nil, true, "expired expiry should be cleared")
	assert.Equal(t, gotActive.ResetPasswordToken.String, "b", "active token should be kept")
}

func TestStartMaintenance(t *testing.T) {
	db := openMemoryDB(t, "start-maintenance")

	scheduler, err := StartMaintenance(db, clock.NewMock())
	if err != nil {
		t.Fatal(err)
	}
	defer scheduler.Stop()

	assert.Equal(t, len(scheduler.Entries()), 1, "entry count mismatch")
}
