// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const BaseURL = "/ext"

var (
	_ Server = (*server)(nil)

	ErrDuplicateRoute = errors.New("duplicate route")
)

// Server maintains the HTTP router
type Server interface {
	// AddRoute registers [handler] at [BaseURL]/[endpoint].
	AddRoute(handler http.Handler, endpoint string) error
	// AddService serves [service] over JSON-RPC at [BaseURL]/[endpoint]
	// under the method namespace [name].
	AddService(service any, name string, endpoint string) error
	// Handler returns the root handler, with CORS and compression applied.
	Handler() http.Handler
	// Dispatch starts the API server
	Dispatch() error
	// Shutdown this server
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
}

type server struct {
	log             logging.Logger
	shutdownTimeout time.Duration

	lock   sync.Mutex
	routes map[string]struct{}
	router *mux.Router

	handler  http.Handler
	srv      *http.Server
	listener net.Listener
}

// New returns an instance of a Server. [listener] may be nil if the server
// is only used through [Server.Handler].
func New(
	log logging.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	shutdownTimeout time.Duration,
) Server {
	router := mux.NewRouter()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(router)
	handler := gziphandler.GzipHandler(corsHandler)

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
	)
	return &server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		routes:          map[string]struct{}{},
		router:          router,
		handler:         handler,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}
}

func (s *server) AddRoute(handler http.Handler, endpoint string) error {
	url := fmt.Sprintf("%s/%s", BaseURL, endpoint)

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.routes[url]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, url)
	}
	s.routes[url] = struct{}{}
	s.router.Handle(url, handler)
	s.log.Info("adding route",
		zap.String("url", url),
	)
	return nil
}

func (s *server) AddService(service any, name string, endpoint string) error {
	handler, err := NewHandler(service, name)
	if err != nil {
		return err
	}
	return s.AddRoute(handler, endpoint)
}

func (s *server) Handler() http.Handler {
	return s.handler
}

func (s *server) Dispatch() error {
	err := s.srv.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}
