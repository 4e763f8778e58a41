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
	"gorm.io/gorm"
)

const (
	// DefaultPage is the page used when none is given
	DefaultPage = 1
	// DefaultLimit is the page size used when none is given
	DefaultLimit = 10
	// MaxLimit is the largest page size served
	MaxLimit = 100
)

// PageParams selects a page of a listing
type PageParams struct {
	Page  int
	Limit int
}

// Normalize replaces missing or out of range values with the defaults
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

// Pagination describes the page returned by a listing
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination builds the envelope for a page out of total records.
// TotalPages is at least 1.
func NewPagination(p PageParams, total int64) Pagination {
	p = p.Normalize()

	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return Pagination{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}

func pageScope(p PageParams) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()

	return func(conn *gorm.DB) *gorm.DB {
		return conn.Offset(p.Limit * (p.Page - 1)).Limit(p.Limit)
	}
}
