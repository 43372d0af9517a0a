// Package server serves the live monitor: an overlay page and the WebSocket
// feed behind it.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/soar/padchord/internal/hub"
	"github.com/soar/padchord/internal/log"
)

// PageName is the overlay page looked up in the page filesystem.
const PageName = "index.html"

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	page        []byte
	addr        string
	httpServer  *http.Server
}

// New loads and minifies the overlay page from pages.
func New(h *hub.Hub, b *hub.Broadcaster, pages fs.FS, addr string) (*Server, error) {
	page, err := loadPage(pages)
	if err != nil {
		return nil, err
	}
	s := &Server{
		hub:         h,
		broadcaster: b,
		page:        page,
		addr:        addr,
	}
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	return s, nil
}

func loadPage(pages fs.FS) ([]byte, error) {
	src, err := fs.ReadFile(pages, PageName)
	if err != nil {
		return nil, fmt.Errorf("server: read page: %w", err)
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)

	out, err := m.Bytes("text/html", src)
	if err != nil {
		return nil, fmt.Errorf("server: minify page: %w", err)
	}
	log.Debug("monitor page minified", "from", len(src), "to", len(out))
	return out, nil
}

// Handler returns the monitor routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster))
	mux.HandleFunc("/", handlePage(s.page))
	return mux
}

// ListenAndServe binds the monitor address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves the monitor on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	log.Info("monitor listening", "url", "http://"+ln.Addr().String())
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down monitor")
	return s.httpServer.Shutdown(ctx)
}
