/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

// serveText answers with a fixed plain-text body.
func serveText(cfg *Config, errs chan<- error, name, cacheControl, body string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("Cache-Control", cacheControl)
		securityHeaders(cfg, w)

		written, err := io.WriteString(w, body)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: %s (%s) to %s in %s",
			name,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// serveStatic serves the browser client from cfg.staticDir. It is installed
// as the router's NotFound handler, so it sees every unmatched path.
func serveStatic(cfg *Config, errs chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)

			return
		}

		root, err := filepath.Abs(cfg.staticDir)
		if err != nil {
			errs <- err

			serveError(cfg, w, http.StatusInternalServerError, "An error has occurred. Please try again.")

			return
		}

		rel := strings.TrimPrefix(r.URL.Path, cfg.prefix)
		if rel == "" || strings.HasSuffix(rel, "/") {
			rel += "index.html"
		}

		path := filepath.Join(root, filepath.FromSlash(rel))
		if !within(root, path) {
			logf(cfg, "SERVE: Refused %s to %s", r.URL.Path, realIP(r))

			serveError(cfg, w, http.StatusForbidden, "Forbidden.")

			return
		}

		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			if realRoot, err := filepath.EvalSymlinks(root); err == nil && !within(realRoot, resolved) {
				logf(cfg, "SERVE: Refused %s to %s", r.URL.Path, realIP(r))

				serveError(cfg, w, http.StatusForbidden, "Forbidden.")

				return
			}
		}

		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			path = filepath.Join(path, "index.html")
			info, err = os.Stat(path)
		}
		if err != nil {
			serveError(cfg, w, http.StatusNotFound, "Page not found.")

			return
		}

		f, err := os.Open(path)
		if err != nil {
			serveError(cfg, w, http.StatusNotFound, "Page not found.")

			return
		}
		defer f.Close()

		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		http.ServeContent(w, r, info.Name(), info.ModTime(), f)

		logf(cfg, "SERVE: %s (%s) to %s in %s",
			r.URL.Path,
			humanReadableSize(info.Size()),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	})
}

// within reports whether path is root or lies beneath it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func serveError(cfg *Config, w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	_, _ = io.WriteString(w, newPage(http.StatusText(status), body))
}

const robots = `User-agent: Amazonbot
Disallow: /

User-agent: Applebot-Extended
Disallow: /

User-agent: Bytespider
Disallow: /

User-agent: CCBot
Disallow: /

User-agent: ClaudeBot
Disallow: /

User-agent: Google-Extended
Disallow: /

User-agent: GPTBot
Disallow: /

User-agent: meta-externalagent
Disallow: /
`
