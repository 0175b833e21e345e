// Package server implements the posts REST API served by postsd.
package server

import (
	"net/http"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/repository"
	"github.com/rs/zerolog"
)

var serverLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	serverLogger = l
}

// maxBodyBytes bounds request bodies. Valid posts are far smaller.
const maxBodyBytes = 1 << 20

type Server struct {
	repo repository.PostRepository
	gzip bool
}

type Option func(*Server)

// WithGzip toggles gzip compression of responses for clients that accept it.
func WithGzip(enabled bool) Option {
	return func(s *Server) {
		s.gzip = enabled
	}
}

func New(repo repository.PostRepository, opts ...Option) *Server {
	s := &Server{
		repo: repo,
		gzip: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API routes wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.PostsPath, s.servePosts)
	mux.HandleFunc(config.PostPath, s.servePost)

	var h http.Handler = mux
	if s.gzip {
		h = withGzip(h)
	}
	h = noCache(secureHeaders(h))
	h = withLogging(h)
	return withRequestID(h)
}
