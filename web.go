package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/happyhour/games/catalog"
	"github.com/Seednode/happyhour/relay"
	"github.com/Seednode/happyhour/session"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

// The browser client draws on a canvas and talks to /ws; the QR endpoint
// serves PNGs that it shows inline.
const contentSecurityPolicy = "default-src 'self'; connect-src 'self' ws: wss:; img-src 'self' data: blob:"

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	h := w.Header()

	h.Set("Content-Security-Policy", contentSecurityPolicy)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Resource-Policy", "same-site")
	h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("X-Content-Type-Options", "nosniff")

	if cfg.scheme() == "https" {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}

// realIP prefers an address set by a trusted proxy, falling back to the
// connection's remote address.
func realIP(r *http.Request) string {
	host, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	for _, header := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := r.Header.Get(header); ip != "" {
			if net.ParseIP(ip) != nil {
				host = ip
			}

			break
		}
	}

	if port == "" {
		return host
	}

	return net.JoinHostPort(host, port)
}

// newRouter wires the room registry and websocket relay to the HTTP routes.
// Anything not matched falls through to the static client.
func newRouter(cfg *Config, errs chan<- error) *httprouter.Router {
	hook := func(format string, args ...any) {
		logf(cfg, format, args...)
	}

	rooms := session.NewRegistry(catalog.Factory(cfg.scribblesRounds), hook)

	sockets := relay.NewServer(relay.NewDispatcher(rooms, hook), relay.Options{
		MaxMessageSize: cfg.maxMessageSize,
		SendBuffer:     cfg.sendBuffer,
	})

	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		logf(cfg, "ERROR: Recovered from panic serving %s: %v", r.URL.Path, i)

		serveError(cfg, w, http.StatusInternalServerError, "An error has occurred. Please try again.")
	}

	mux.Handler(http.MethodGet, cfg.prefix+"/ws", sockets)
	mux.GET(cfg.prefix+"/rooms/:room/qr", serveQRCode(cfg, rooms, errs))

	mux.GET(cfg.prefix+"/healthz", serveText(cfg, errs, "Health check", "no-store", "Ok\n"))
	mux.GET(cfg.prefix+"/version", serveText(cfg, errs, "Version page", "no-store", "happyhour v"+releaseVersion+"\n"))
	mux.GET(cfg.prefix+"/robots.txt", serveText(cfg, errs, "Robots", "public, max-age=3600", robots))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	mux.NotFound = serveStatic(cfg, errs)

	return mux
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	if tz := os.Getenv("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return err
		}
		time.Local = loc
	}

	logf(cfg, "START: happyhour v%s", releaseVersion)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	errs := make(chan error, 64)

	go drainErrors(cfg, errs)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	listening := make(chan error, 1)

	go func() {
		logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		if cfg.scheme() == "https" {
			listening <- srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			listening <- srv.ListenAndServe()
		}
	}()

	select {
	case err := <-listening:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	logf(cfg, "STOP: Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
