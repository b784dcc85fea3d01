package stream

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

//go:embed index.html
var indexPage []byte

const shutdownTimeout = 5 * time.Second

// Server serves the viewer page on / and the frame stream on /ws.
type Server struct {
	Addr   string
	Hub    *Hub
	Logger *log.Logger
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.Hub.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexPage)
	})
	return mux
}

// Run listens on Addr and runs loop alongside the HTTP server. When ctx is
// done or either side fails, the server shuts down gracefully and the
// first error is returned. A cancelled ctx is not an error.
func (s *Server) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, loop)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener, loop func(ctx context.Context) error) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("streaming", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.Hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if loop != nil {
		g.Go(func() error {
			return loop(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
