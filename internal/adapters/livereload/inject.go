package livereload

import (
	"bytes"
	_ "embed"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

//go:embed client.js
var clientScript []byte

// ScriptTag is injected into every HTML page.
const ScriptTag = `<script src="` + ClientPath + `" async></script>`

func serveClient(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientScript)
}

// Inject inserts the client script tag before the closing body tag, or
// appends it when the page has none.
func Inject(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(page, ScriptTag...)
	}
	out := make([]byte, 0, len(page)+len(ScriptTag))
	out = append(out, page[:idx]...)
	out = append(out, ScriptTag...)
	return append(out, page[idx:]...)
}

func isHTML(h http.Header) bool {
	return strings.HasPrefix(h.Get("Content-Type"), "text/html")
}

func newProxy(host string) (*httputil.ReverseProxy, error) {
	raw := host
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	target, err := url.Parse(raw)
	if err != nil || target.Host == "" {
		return nil, zerr.With(domain.ErrInvalidProxyTarget, "host", host)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			// Uncompressed responses keep HTML injectable.
			r.Out.Header.Del("Accept-Encoding")
		},
		ModifyResponse: func(resp *http.Response) error {
			if !isHTML(resp.Header) {
				return nil
			}
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return err
			}
			body = Inject(body)
			resp.Body = io.NopCloser(bytes.NewReader(body))
			resp.ContentLength = int64(len(body))
			resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
			return nil
		},
	}, nil
}

// injectScript buffers HTML responses of next and injects the client script.
func injectScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := &bufferedWriter{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(bw, r)

		body := bw.body.Bytes()
		if isHTML(bw.header) && r.Method != http.MethodHead {
			body = Inject(body)
			bw.header.Set("Content-Length", strconv.Itoa(len(body)))
		}

		for k, v := range bw.header {
			w.Header()[k] = v
		}
		w.WriteHeader(bw.status)
		_, _ = w.Write(body)
	})
}

type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header {
	return b.header
}

func (b *bufferedWriter) WriteHeader(status int) {
	b.status = status
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	return b.body.Write(p)
}
