package httpmiddleware

import (
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
)

// Gzip compresses response bodies for clients that accept gzip.
func Gzip(level int) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")
			if r.Method == http.MethodHead || !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			gw := &gzipWriter{ResponseWriter: w, level: level}
			defer func() {
				if err := gw.close(); err != nil {
					zctx.From(r.Context()).Warn("Close gzip writer", zap.Error(err))
				}
			}()
			next.ServeHTTP(gw, r)
		})
	}
}

func acceptsGzip(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		enc, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(enc, "gzip") {
			return true
		}
	}
	return false
}

type gzipWriter struct {
	http.ResponseWriter
	level int

	wroteHeader bool
	compress    bool
	gz          *pgzip.Writer
	err         error
}

func (g *gzipWriter) WriteHeader(code int) {
	if g.wroteHeader {
		return
	}
	g.wroteHeader = true

	if bodyAllowed(code) && g.Header().Get("Content-Encoding") == "" {
		g.compress = true
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Del("Content-Length")
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	if !g.wroteHeader {
		if g.Header().Get("Content-Type") == "" {
			g.Header().Set("Content-Type", http.DetectContentType(p))
		}
		g.WriteHeader(http.StatusOK)
	}
	if !g.compress {
		return g.ResponseWriter.Write(p)
	}
	if err := g.init(); err != nil {
		return 0, err
	}
	return g.gz.Write(p)
}

func (g *gzipWriter) init() error {
	if g.gz != nil || g.err != nil {
		return g.err
	}
	g.gz, g.err = pgzip.NewWriterLevel(g.ResponseWriter, g.level)
	return g.err
}

// close flushes the gzip stream. A compressed response without body still
// gets a valid empty stream.
func (g *gzipWriter) close() error {
	if !g.compress {
		return nil
	}
	if err := g.init(); err != nil {
		return err
	}
	return g.gz.Close()
}

func bodyAllowed(code int) bool {
	switch {
	case code >= 100 && code < 200:
		return false
	case code == http.StatusNoContent, code == http.StatusNotModified:
		return false
	default:
		return true
	}
}
