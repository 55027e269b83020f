package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"memekiosk/internal/api"
	"memekiosk/internal/daemon"
	"memekiosk/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger}
	if err := rpcServer.RegisterName("Kiosk", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	*resp = api.DaemonStatus{
		Running:            status.Running,
		PID:                status.PID,
		LockFilePath:       status.LockFilePath,
		MemeCount:          status.MemeCount,
		BlockedMemes:       status.BlockedMemes,
		DisplayedMemes:     status.DisplayedMemes,
		CommercialsEnabled: status.CommercialsEnabled,
		CommercialCount:    status.CommercialCount,
	}
	if status.LastMeme != nil {
		view := api.FromItem(*status.LastMeme)
		resp.LastMeme = &view
	}
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Recent(req RecentRequest, resp *RecentResponse) error {
	count := req.Count
	if count <= 0 {
		count = 10
	}
	resp.Memes = api.FromItems(s.daemon.RecentMemes(count))
	return nil
}

func (s *service) LastMeme(_ LastMemeRequest, resp *LastMemeResponse) error {
	last, ok := s.daemon.LastMeme()
	if !ok {
		return nil
	}
	resp.Found = true
	resp.Meme = api.FromItem(last)
	return nil
}

func (s *service) Block(req BlockRequest, resp *BlockResponse) error {
	if err := s.daemon.BlockMeme(req.Name); err != nil {
		resp.Blocked = false
		resp.Message = err.Error()
		return nil
	}
	resp.Blocked = true
	resp.Message = fmt.Sprintf("blocked %s", req.Name)
	s.log().Info("meme blocked via IPC", logging.String("name", req.Name))
	return nil
}

func (s *service) AskCommercial(_ AskCommercialRequest, resp *AskCommercialResponse) error {
	s.daemon.RequestCommercial()
	resp.Requested = true
	return nil
}

func (s *service) KillCommercial(_ KillCommercialRequest, resp *KillCommercialResponse) error {
	s.daemon.KillCommercial()
	resp.Killed = true
	return nil
}

func (s *service) Registry(_ RegistryRequest, resp *RegistryResponse) error {
	memes, commercials := s.daemon.Registry()
	resp.Memes = api.FromItems(memes)
	resp.Commercials = api.FromItems(commercials)
	return nil
}
