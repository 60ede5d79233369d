package chatpipe

// Marker tracks a position in a buffer. The pipeline moves its tracking
// marker explicitly after each insertion; host-owned markers follow the
// host's own adjustment rules.
type Marker interface {
	Pos() int
	SetPos(pos int)
}

// Buffer is the document handle the pipeline renders into. It is consumed
// as an opaque external service; the host editing surface provides the
// implementation.
type Buffer interface {
	// Name identifies the buffer to the user.
	Name() string

	// Mode names the buffer's active markup mode, or "" for plain text.
	// The pipeline resolves a registered transform for the mode once at
	// submit time.
	Mode() string

	// ReadOnly reports whether the whole buffer rejects modification.
	ReadOnly() bool

	// PosReadOnly reports whether the given position rejects insertion.
	PosReadOnly(pos int) bool

	// Size is the current buffer length.
	Size() int

	// Insert places text at the given position.
	Insert(at int, text string) error

	// NewMarker creates a marker at the given position.
	NewMarker(pos int) Marker

	// Highlight momentarily marks the region as a visual confirmation.
	Highlight(start, end int)

	// SetStatus updates the buffer's status indicator. The detail string
	// carries the raw process status when st is StatusError.
	SetStatus(st Status, detail string)

	// Interactive reports whether the buffer is in an interactive
	// conversation mode that expects a fresh prompt after each response.
	Interactive() bool

	// PromptMarker is the prompt text inserted for the next turn when the
	// buffer is interactive.
	PromptMarker() string
}

// Frontend is the host surface the pipeline reports through. It creates the
// fallback and diagnostic buffers on demand and shows transient notices.
type Frontend interface {
	CreateBuffer(name string) Buffer
	Notify(format string, args ...any)
}
