package chatpipe

import (
	"strings"

	"github.com/chatpipe/chatpipe-go/internal/errors"
	"github.com/chatpipe/chatpipe-go/internal/subprocess"
)

// handleExit runs exactly once per process, after its final output chunk.
// It removes the exchange record, classifies the outcome, finalizes the
// rendered region, and releases the process resources. Failures are
// terminal: they are surfaced, never retried.
func (p *Pipeline) handleExit(proc *subprocess.Process, status string, cleanup func()) {
	defer cleanup()

	p.mu.Lock()

	ex, ok := p.requests[proc]
	delete(p.requests, proc)

	if !ok {
		p.mu.Unlock()
		proc.Release()

		return
	}

	if p.cfg.debug {
		p.snapshotLocked(ex, proc)
	}

	success := status == subprocess.StatusFinished
	log := p.log.With("token", ex.token)

	if success {
		ex.state = StateCompleted

		p.closeResponseLocked(ex)
		ex.buffer.SetStatus(StatusReady, "")
		log.Info("Request completed")
	} else {
		ex.state = StateFailed

		ex.buffer.SetStatus(StatusError, status)
		log.Warn("Request failed", "status", strings.TrimSpace(status))
	}

	buf := ex.buffer
	token := ex.token
	onDone := ex.onDone

	p.mu.Unlock()

	var resErr error

	if !success {
		resErr = &errors.ProcessError{Status: status, Stderr: proc.Stderr()}
		p.frontend.Notify("Chat request failed: %s", strings.TrimSpace(status))
	}

	for _, hook := range p.cfg.afterResponse {
		hook(buf)
	}

	proc.Release()

	if onDone != nil {
		onDone(Result{Token: token, Success: success, Status: status, Err: resErr})
	}
}

// closeResponseLocked finalizes a successful response: the inserted region
// is momentarily highlighted, the closing delimiter is appended, and an
// interactive buffer gets a blank line plus a fresh prompt marker for the
// next turn, any other buffer a single trailing newline.
func (p *Pipeline) closeResponseLocked(ex *Exchange) {
	if ex.marker == nil {
		// No output ever arrived, nothing to finalize.
		return
	}

	end := ex.marker.Pos()
	ex.buffer.Highlight(ex.bodyStart, end)

	tail := closeDelimiter
	if ex.buffer.Interactive() {
		tail += "\n" + ex.buffer.PromptMarker()
	} else {
		tail += "\n"
	}

	if err := ex.buffer.Insert(end, tail); err != nil {
		p.log.Warn("Response closing failed", "token", ex.token, "error", err)

		return
	}

	ex.marker.SetPos(end + len(tail))
}

// snapshotLocked copies the process's raw output into a diagnostic buffer
// before cleanup. Best effort: a failed snapshot never blocks cleanup.
func (p *Pipeline) snapshotLocked(ex *Exchange, proc *subprocess.Process) {
	diag := p.frontend.CreateBuffer("*chat debug " + ex.token + "*")
	if diag == nil {
		return
	}

	if err := diag.Insert(diag.Size(), string(proc.Output())); err != nil {
		p.log.Debug("Debug snapshot failed", "token", ex.token, "error", err)
	}
}
