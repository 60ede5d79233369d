package subprocess

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chatpipe/chatpipe-go/internal/errors"
)

const (
	// readBufSize is the per-read chunk size for process output.
	readBufSize = 4096

	// maxStderrBufferSize caps the captured stderr so a chatty process
	// cannot grow memory without bound.
	maxStderrBufferSize = 1 * 1024 * 1024 // 1MB

	// waitDelay bounds how long Wait blocks on pipe teardown after the
	// context is cancelled, so process exit never stalls host shutdown.
	waitDelay = 5 * time.Second
)

// StatusFinished is the terminal status of a cleanly exited process. Any
// other status string denotes failure.
const StatusFinished = "finished\n"

// Hooks receive the streaming output and the terminal status of a process.
// OnOutput is invoked once per arriving chunk, in arrival order; OnExit is
// invoked exactly once, after the final output chunk.
type Hooks struct {
	OnOutput func(p *Process, chunk []byte)
	OnExit   func(p *Process, status string)
}

// Process is one running external chat CLI invocation bound to a private
// output buffer.
type Process struct {
	log    *slog.Logger
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu     sync.Mutex
	raw    bytes.Buffer // accumulates raw bytes before sanitization
	errBuf strings.Builder
	killed bool
}

// Start spawns the external tool with the given arguments and extra
// environment variables. The process is created with its pipes attached but
// no reader running; call Stream to begin output delivery. This two-step
// start lets the caller register bookkeeping for the process before the
// first output hook can fire.
func Start(ctx context.Context, log *slog.Logger, path string, args []string, env map[string]string) (*Process, error) {
	log = log.With("component", "subprocess")

	//nolint:gosec // G204: launching the configured chat CLI is the point
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = buildEnvironment(env)
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &errors.LaunchError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &errors.LaunchError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &errors.LaunchError{Err: fmt.Errorf("start process: %w", err)}
	}

	log.Info("Chat CLI subprocess started", "pid", cmd.Process.Pid, "args", args)

	return &Process{
		log:    log,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// Stream starts the reader goroutine delivering output and termination
// events through the hooks. It returns immediately.
func (p *Process) Stream(hooks Hooks) {
	go p.run(hooks)
}

// run reads stdout and stderr until both close, waits for the process to
// exit, and reports the terminal status.
func (p *Process) run(hooks Hooks) {
	var g errgroup.Group

	g.Go(func() error {
		buf := make([]byte, readBufSize)

		for {
			n, err := p.stdout.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])

				p.mu.Lock()
				p.raw.Write(chunk)
				p.mu.Unlock()

				if hooks.OnOutput != nil {
					hooks.OnOutput(p, chunk)
				}
			}

			if err != nil {
				if stderrors.Is(err, io.EOF) {
					return nil
				}

				return err
			}
		}
	})

	g.Go(func() error {
		scanner := bufio.NewScanner(p.stderr)
		for scanner.Scan() {
			p.mu.Lock()

			if p.errBuf.Len() < maxStderrBufferSize {
				if p.errBuf.Len() > 0 {
					p.errBuf.WriteString("\n")
				}

				p.errBuf.WriteString(scanner.Text())
			}

			p.mu.Unlock()
		}

		// Scanner errors are expected when the process is killed mid-write.
		if err := scanner.Err(); err != nil {
			p.log.Debug("Stderr scanner error", "error", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		p.log.Debug("Output reader error", "error", err)
	}

	status := statusString(p.cmd.Wait())

	p.mu.Lock()
	killed := p.killed
	p.mu.Unlock()

	switch {
	case status == StatusFinished:
		p.log.Info("Chat CLI process finished", "pid", p.cmd.Process.Pid)
	case killed:
		p.log.Debug("Chat CLI process terminated by request", "pid", p.cmd.Process.Pid, "status", strings.TrimSpace(status))
	default:
		p.log.Warn("Chat CLI process failed", "pid", p.cmd.Process.Pid, "status", strings.TrimSpace(status))
	}

	if hooks.OnExit != nil {
		hooks.OnExit(p, status)
	}
}

// Kill forcefully terminates the process with SIGKILL. Safe to call on an
// already-terminated process.
func (p *Process) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()

	if p.cmd.Process == nil {
		return nil
	}

	p.log.Debug("Killing chat CLI process", "pid", p.cmd.Process.Pid)

	if err := p.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill process (pid %d): %w", p.cmd.Process.Pid, err)
	}

	return nil
}

// Pid returns the OS process id.
func (p *Process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}

	return p.cmd.Process.Pid
}

// Output returns a copy of the raw output accumulated so far.
func (p *Process) Output() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, p.raw.Len())
	copy(out, p.raw.Bytes())

	return out
}

// Stderr returns the captured standard error output.
func (p *Process) Stderr() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.errBuf.String()
}

// Release drops the private output buffer. The process record is unusable
// for diagnostics afterwards.
func (p *Process) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.raw.Reset()
}

// statusString renders the terminal status of a waited process the way a
// process sentinel reports it: "finished\n" for a clean exit, the signal
// name for a signalled process, or the abnormal exit code.
func statusString(err error) string {
	if err == nil {
		return StatusFinished
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return ws.Signal().String() + "\n"
		}

		return fmt.Sprintf("exited abnormally with code %d\n", exitErr.ExitCode())
	}

	return err.Error() + "\n"
}

// buildEnvironment extends the current environment with extra variables.
func buildEnvironment(extra map[string]string) []string {
	env := os.Environ()

	for key, value := range extra {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}

	return env
}
