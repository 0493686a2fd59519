// Package rpc exposes the chat operations as JSON-RPC over TCP.
package rpc

import (
	"context"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrewp2/andrew-chat/internal/service"
)

// ServiceName is the name methods are registered under, e.g. "Chat.Echo".
const ServiceName = "Chat"

// Server exposes the chat service over JSON-RPC.
type Server struct {
	listener  net.Listener
	rpcServer *rpc.Server
	done      chan struct{}
	logger    zerolog.Logger

	mu sync.Mutex
}

// NewServer creates a new RPC server bound to the chat service.
func NewServer(svc *service.Service) (*Server, error) {
	rpcServer := rpc.NewServer()
	handler := &Handler{service: svc}
	if err := rpcServer.RegisterName(ServiceName, handler); err != nil {
		return nil, errors.Wrap(err, "register rpc handler")
	}

	return &Server{
		rpcServer: rpcServer,
		done:      make(chan struct{}),
		logger:    log.With().Str("component", "rpc").Logger(),
	}, nil
}

// Start begins accepting RPC connections on the given address.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown closes it.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(s.done)
				return nil
			}
			s.logger.Warn().Err(err).Msg("RPC accept error")
			continue
		}

		go s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

// Shutdown stops accepting new RPC connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}

	if err := ln.Close(); err != nil {
		return err
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
