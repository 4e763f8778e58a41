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
	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

// ClearExpiredResetTokens nulls out password reset tokens whose expiry has
// passed. It returns the number of affected users.
func ClearExpiredResetTokens(db *gorm.DB, c clock.Clock) (int64, error) {
	res := db.Model(&User{}).
		Where("reset_password_expires IS NOT NULL AND reset_password_expires < ?", c.Now()).
		Updates(map[string]interface{}{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "clearing expired reset tokens")
	}

	return res.RowsAffected, nil
}

// StartMaintenance schedules the periodic cleanup jobs and starts the
// scheduler. The caller is responsible for stopping it.
func StartMaintenance(db *gorm.DB, c clock.Clock) (*cron.Cron, error) {
	scheduler := cron.New()

	if err := scheduler.AddFunc("@hourly", func() {
		n, err := ClearExpiredResetTokens(db, c)
		if err != nil {
			log.ErrorWrap(err, "running reset token cleanup")
			return
		}

		log.WithFields(log.Fields{
			"cleared": n,
		}).Debug("Reset token cleanup finished.")
	}); err != nil {
		return nil, errors.Wrap(err, "scheduling reset token cleanup")
	}

	scheduler.Start()

	return scheduler, nil
}
