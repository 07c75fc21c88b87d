package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	serverReadTimeout  = 60 * time.Second
	serverWriteTimeout = 60 * time.Second
	inheritedEnvKey    = "LISTENER_INHERITED"
	inheritedFd        = 3
)

// graceServer supports zero-downtime restart: SIGUSR2 forks a child that
// inherits the listening socket, SIGTERM drains in-flight requests.
type graceServer struct {
	*http.Server

	listener     net.Listener
	shutdownChan chan struct{}
}

// GraceServer serves handler on addr until SIGTERM, restarting on SIGUSR2.
func GraceServer(addr string, handler http.Handler) error {
	srv := &graceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
		shutdownChan: make(chan struct{}),
	}

	ln, err := srv.listen(addr)
	if err != nil {
		return err
	}
	srv.listener = ln

	go srv.handleSignals()
	err = srv.Serve(ln)
	// Serve returns as soon as the listener closes; wait for drain.
	<-srv.shutdownChan
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (srv *graceServer) listen(addr string) (net.Listener, error) {
	if os.Getenv(inheritedEnvKey) != "" {
		file := os.NewFile(inheritedFd, "")
		ln, err := net.FileListener(file)
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *graceServer) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range sigChan {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("SIGTERM received, shutting down")
			srv.drain()
			return
		case syscall.SIGUSR2:
			Sugar.Info("SIGUSR2 received, restarting")
			pid, err := srv.forkChild()
			if err != nil {
				Sugar.Errorf("restart failed, keep serving: %v", err)
				continue
			}
			Sugar.Infof("child started, pid=%d", pid)
			srv.drain()
			return
		}
	}
}

func (srv *graceServer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("shutdown: %v", err)
	}
	close(srv.shutdownChan)
}

func (srv *graceServer) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}

	env := append(os.Environ(), inheritedEnvKey+"=1")
	attr := &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
