/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"net/url"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/happyhour/session"
)

const qrSize = 320

// joinURL is the address players scan to land on the client with the room
// id prefilled.
func joinURL(cfg *Config, r *http.Request, room string) string {
	scheme := cfg.scheme()
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     cfg.prefix + "/",
		RawQuery: url.Values{"room": {room}}.Encode(),
	}

	return u.String()
}

// serveQRCode renders a PNG QR code linking to an existing room.
func serveQRCode(cfg *Config, rooms *session.Registry, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		room := p.ByName("room")
		if _, ok := rooms.Get(room); !ok {
			serveError(cfg, w, http.StatusNotFound, "Room not found.")

			return
		}

		png, err := qrcode.Encode(joinURL(cfg, r, room), qrcode.Medium, qrSize)
		if err != nil {
			errs <- err

			serveError(cfg, w, http.StatusInternalServerError, "QR generation failed.")

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: QR code for room %s (%s) to %s in %s",
			room,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
