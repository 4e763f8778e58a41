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
	"sync"

	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DailySongQuota is the number of songs a user may generate per calendar day
const DailySongQuota = 3

// CountSongsToday counts the songs owned by the user created since local
// midnight
func (a *App) CountSongsToday(conn *gorm.DB, userID string) (int64, error) {
	since := clock.StartOfDay(a.Clock.Now())

	var count int64
	if err := conn.Model(&database.Song{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting songs created today")
	}

	return count, nil
}

// CheckDailyQuota returns ErrQuotaExceeded if the user already generated
// DailySongQuota songs today
func (a *App) CheckDailyQuota(conn *gorm.DB, userID string) error {
	count, err := a.CountSongsToday(conn, userID)
	if err != nil {
		return err
	}

	if count >= DailySongQuota {
		return ErrQuotaExceeded
	}

	return nil
}

// keyedMutex serializes work per key. Entries are removed once no caller
// holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

// Lock locks the mutex for the key and returns the function unlocking it
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.locks)
}

// generationLocks serializes song generation per user within the process
var generationLocks = newKeyedMutex()
