package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// killAfter bounds how long Close waits for the relay to exit.
const killAfter = 2 * time.Second

// Process runs a relay command and talks to it over its stdin and stdout.
// Its stderr is logged line by line.
type Process struct {
	*Stream
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger *slog.Logger

	waitOnce sync.Once
	waitErr  error
}

// StartProcess launches command through the shell.
func StartProcess(ctx context.Context, command string, logger *slog.Logger) (*Process, error) {
	if command == "" {
		return nil, errors.New("process transport: empty command")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("process transport: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process transport: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("process transport: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %q: %w", command, err)
	}
	logger = logger.With("transport", "process", "pid", cmd.Process.Pid)

	go func() {
		errLines := make(chan string)
		go func() {
			_ = readLines(stderr, errLines, nil)
			close(errLines)
		}()
		for line := range errLines {
			logger.Warn("relay stderr", "line", line)
		}
	}()

	p := &Process{
		Stream: NewStream(stdout, stdin, nil, logger),
		cmd:    cmd,
		stdin:  stdin,
		logger: logger,
	}
	logger.Info("relay started", "command", command)
	return p, nil
}

// Close closes the relay's stdin and waits for it to exit, killing it after
// killAfter. Undrained lines are discarded.
func (p *Process) Close() error {
	_ = p.Stream.Close()
	_ = p.stdin.Close()
	return p.wait()
}

func (p *Process) wait() error {
	p.waitOnce.Do(func() {
		exited := make(chan struct{})
		go func() {
			defer close(exited)
			err := p.cmd.Wait()
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				p.logger.Info("relay exited", "code", exitErr.ExitCode())
				err = nil
			}
			p.waitErr = err
		}()
		select {
		case <-exited:
		case <-time.After(killAfter):
			p.logger.Warn("relay did not exit, killing")
			_ = p.cmd.Process.Kill()
			<-exited
		}
	})
	return p.waitErr
}
