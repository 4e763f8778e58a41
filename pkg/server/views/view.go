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

// Package views renders the HTML pages served to browsers following
// links from emails
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/lyricsmith/lyricsmith/pkg/clock"
	"github.com/lyricsmith/lyricsmith/pkg/server/assets"
	"github.com/lyricsmith/lyricsmith/pkg/server/log"
	"github.com/pkg/errors"
)

const (
	// TemplateExt is the template extension
	TemplateExt string = ".gohtml"
)

const (
	siteTitle = "Lyricsmith"
)

//go:embed templates
var templateFiles embed.FS

const (
	// AlertLvlError is the level of an error alert
	AlertLvlError = "danger"
	// AlertLvlSuccess is the level of a success alert
	AlertLvlSuccess = "success"
)

// Alert is a message displayed above the page content
type Alert struct {
	Level   string
	Message string
}

// Data is the data passed to a view
type Data struct {
	Alert *Alert
	Yield map[string]interface{}
}

// PutAlert sets the alert of the view
func (d *Data) PutAlert(level, message string) {
	d.Alert = &Alert{Level: level, Message: message}
}

// Config is a view config
type Config struct {
	Title  string
	Layout string
	Clock  clock.Clock
}

func (c Config) getLayout() string {
	if c.Layout == "" {
		return "base"
	}

	return c.Layout
}

func (c Config) getClock() clock.Clock {
	if c.Clock != nil {
		return c.Clock
	}

	return clock.New()
}

// Engine parses views from the embedded templates
type Engine struct {
	fs          embed.FS
	http500Page []byte
}

// NewDefaultEngine returns an engine for the embedded templates
func NewDefaultEngine() *Engine {
	return &Engine{
		fs:          templateFiles,
		http500Page: assets.MustGetHTTP500ErrorPage(),
	}
}

// NewView parses the layout and the given files into a view. It panics if
// the templates cannot be parsed.
func (e *Engine) NewView(c Config, files ...string) *View {
	clk := c.getClock()

	paths := []string{fmt.Sprintf("templates/%s%s", c.getLayout(), TemplateExt)}
	for _, f := range files {
		paths = append(paths, fmt.Sprintf("templates/%s%s", f, TemplateExt))
	}

	funcs := template.FuncMap{
		"title": func() string {
			if c.Title == "" {
				return siteTitle
			}

			return fmt.Sprintf("%s | %s", c.Title, siteTitle)
		},
		"timeUntil": func(t interface{}) string {
			return timeUntil(clk.Now(), t)
		},
		// replaced per request in Render
		"csrfField": func() template.HTML {
			return ""
		},
	}

	t, err := template.New("").Funcs(funcs).ParseFS(e.fs, paths...)
	if err != nil {
		panic(errors.Wrapf(err, "parsing templates %v", paths))
	}

	return &View{
		Template:    t,
		Layout:      c.getLayout(),
		http500Page: e.http500Page,
	}
}

// View holds the information about a view
type View struct {
	Template    *template.Template
	Layout      string
	http500Page []byte
}

func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, nil, http.StatusOK)
}

// Render is used to render the view with the predefined layout
func (v *View) Render(w http.ResponseWriter, r *http.Request, data *Data, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var vd Data
	if data != nil {
		vd = *data
	}
	if vd.Yield == nil {
		vd.Yield = map[string]interface{}{}
	}
	vd.Yield["CurrentPath"] = r.URL.Path

	tpl, err := v.Template.Clone()
	if err != nil {
		v.renderError(w, r, errors.Wrap(err, "cloning template"))
		return
	}

	csrfField := csrf.TemplateField(r)
	tpl = tpl.Funcs(template.FuncMap{
		"csrfField": func() template.HTML {
			return csrfField
		},
	})

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, v.Layout, vd); err != nil {
		v.renderError(w, r, err)
		return
	}

	w.WriteHeader(statusCode)
	io.Copy(w, &buf)
}

func (v *View) renderError(w http.ResponseWriter, r *http.Request, err error) {
	log.ErrorWrap(err, fmt.Sprintf("executing template for URI '%s'", r.RequestURI))
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(v.http500Page)
}
