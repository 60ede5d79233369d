package chatpipe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/chatpipe/chatpipe-go/internal/sanitize"
	"github.com/chatpipe/chatpipe-go/internal/serialize"
	"github.com/chatpipe/chatpipe-go/internal/subprocess"
)

// fallbackBufferName names the shared buffer responses redirect to when
// their target turns out to be read-only.
const fallbackBufferName = "*chat fallback*"

// Pipeline bridges conversation requests to the external chat CLI. It owns
// the table of in-flight exchanges and serializes all output and
// termination handling, so handlers never run in parallel.
type Pipeline struct {
	log       *slog.Logger
	cfg       *config
	frontend  Frontend
	sessionID string

	mu       sync.Mutex
	requests map[*subprocess.Process]*Exchange
	fallback Buffer // created on demand, reused across requests
}

// New creates a pipeline rendering through the given frontend.
func New(frontend Frontend, opts ...Option) *Pipeline {
	cfg := applyOptions(opts)

	log := cfg.logger
	if log == nil {
		log = NopLogger()
	}

	return &Pipeline{
		log:       log.With("component", "pipeline"),
		cfg:       cfg,
		frontend:  frontend,
		sessionID: uuid.NewString(),
		requests:  make(map[*subprocess.Process]*Exchange),
	}
}

// Submit serializes the request's conversation, spawns one external process
// for it, and returns immediately with the request token. All results are
// delivered asynchronously through buffer mutation and the request's
// callbacks; the returned error covers only serialization and launch
// failures.
func (p *Pipeline) Submit(ctx context.Context, req Request) (string, error) {
	if p.frontend == nil {
		return "", ErrNilFrontend
	}

	if req.Buffer == nil {
		return "", ErrNilBuffer
	}

	token := ulid.Make().String()
	log := p.log.With("token", token)

	bundle := serialize.Parse(req.Prompt)
	if bundle.Pending == "" {
		// A history without a user turn still launches; the question file
		// is written empty rather than the request being rejected.
		log.Warn("No pending user turn in prompt")
	}

	templatePath := p.cfg.templatePath
	if templatePath == "" {
		var err error

		templatePath, err = serialize.TemplatePath()
		if err != nil {
			return "", fmt.Errorf("materialize prompt template: %w", err)
		}
	}

	args, cleanup, err := bundle.Args(p.sessionID, templatePath)
	if err != nil {
		return "", err
	}

	toolPath, err := subprocess.Discover(log, p.cfg.toolPath, p.cfg.toolName)
	if err != nil {
		cleanup()

		return "", err
	}

	ex := &Exchange{
		token:     token,
		state:     StateLaunched,
		buffer:    req.Buffer,
		position:  req.Position,
		inPlace:   req.InPlace,
		transform: p.cfg.transforms[req.Buffer.Mode()],
		handler:   req.OnChunk,
		onDone:    req.OnDone,
	}
	if ex.handler == nil {
		ex.handler = p.renderChunk
	}

	proc, err := subprocess.Start(ctx, log, toolPath, args, p.cfg.env)
	if err != nil {
		cleanup()

		return "", err
	}

	ex.proc = proc

	// Register before streaming starts so no output callback can observe
	// a missing record.
	p.mu.Lock()
	p.requests[proc] = ex
	p.mu.Unlock()

	log.Info("Request launched", "pid", proc.Pid(), "context_pairs", bundle.PairCount())

	proc.Stream(subprocess.Hooks{
		OnOutput: p.handleOutput,
		OnExit: func(pr *subprocess.Process, status string) {
			p.handleExit(pr, status, cleanup)
		},
	})

	return token, nil
}

// Abort kills the external process of an in-flight request. The kill
// surfaces through the normal completion path as a failure; there is no
// resumption. Returns false when no request with the token is in flight.
func (p *Pipeline) Abort(token string) bool {
	p.mu.Lock()

	var proc *subprocess.Process

	for pr, ex := range p.requests {
		if ex.token == token {
			proc = pr

			break
		}
	}

	p.mu.Unlock()

	if proc == nil {
		return false
	}

	if err := proc.Kill(); err != nil {
		p.log.Warn("Abort failed", "token", token, "error", err)

		return false
	}

	return true
}

// InFlight reports the number of live requests.
func (p *Pipeline) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.requests)
}

// handleOutput is invoked once per arriving chunk, in arrival order per
// process. It performs the read-only side-channel check, sanitizes the
// chunk, and dispatches it to the exchange's handler.
func (p *Pipeline) handleOutput(proc *subprocess.Process, chunk []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ex, ok := p.requests[proc]
	if !ok {
		return
	}

	if ex.state == StateLaunched {
		ex.state = StateStreaming
	}

	p.redirectIfReadOnlyLocked(ex)

	text := sanitize.Clean(string(chunk), p.cfg.policy)
	ex.handler(text, ex)
}

// redirectIfReadOnlyLocked moves all future rendering for the exchange to
// the shared fallback buffer when the target rejects insertion, with a
// one-time user-visible notice.
func (p *Pipeline) redirectIfReadOnlyLocked(ex *Exchange) {
	if ex.redirected {
		return
	}

	pos := ex.position
	if ex.marker != nil {
		pos = ex.marker.Pos()
	}

	if !ex.buffer.ReadOnly() && !ex.buffer.PosReadOnly(pos) {
		return
	}

	orig := ex.buffer.Name()

	ex.buffer = p.fallbackLocked()
	ex.position = ex.buffer.Size()
	ex.marker = nil
	ex.inPlace = false
	ex.redirected = true

	p.log.Info("Redirecting response to fallback buffer", "token", ex.token, "from", orig)
	p.frontend.Notify("Buffer %s is read-only; response redirected to %s", orig, ex.buffer.Name())
}

// fallbackLocked returns the shared fallback buffer, creating it on first
// use.
func (p *Pipeline) fallbackLocked() Buffer {
	if p.fallback == nil {
		p.fallback = p.frontend.CreateBuffer(fallbackBufferName)
	}

	return p.fallback
}
