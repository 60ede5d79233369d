package chatpipe

import (
	"log/slog"

	"github.com/chatpipe/chatpipe-go/internal/sanitize"
)

// defaultToolName is the binary searched for when no explicit path is set.
const defaultToolName = "chatcli"

// config holds the resolved pipeline configuration.
type config struct {
	logger        *slog.Logger
	toolPath      string
	toolName      string
	templatePath  string
	env           map[string]string
	debug         bool
	policy        sanitize.Policy
	transforms    map[string]TransformFunc
	afterResponse []func(buf Buffer)
}

// Option configures a Pipeline using the functional options pattern.
type Option func(*config)

// applyOptions applies functional options over the defaults.
func applyOptions(opts []Option) *config {
	cfg := &config{
		toolName:   defaultToolName,
		policy:     sanitize.Default(),
		transforms: make(map[string]TransformFunc),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithToolPath sets the explicit path to the chat CLI binary.
// If not set, the tool will be searched in PATH and common install dirs.
func WithToolPath(path string) Option {
	return func(c *config) {
		c.toolPath = path
	}
}

// WithToolName sets the binary name searched for when no explicit path is
// configured. Defaults to "chatcli".
func WithToolName(name string) Option {
	return func(c *config) {
		c.toolName = name
	}
}

// WithTemplatePath overrides the prompt template passed as the -p argument.
// If not set, the template shipped with the module is used.
func WithTemplatePath(path string) Option {
	return func(c *config) {
		c.templatePath = path
	}
}

// WithEnv provides additional environment variables for the tool process.
func WithEnv(env map[string]string) Option {
	return func(c *config) {
		c.env = env
	}
}

// WithDebug snapshots each process's raw output into a diagnostic buffer
// before cleanup. Best effort; snapshot failures never block cleanup.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
	}
}

// WithSubstitution extends the sanitization policy with a single-character
// substitution. An empty replacement deletes the character. The default
// policy deletes carriage returns.
func WithSubstitution(r rune, replacement string) Option {
	return func(c *config) {
		if c.policy == nil {
			c.policy = sanitize.Default()
		}

		c.policy[r] = replacement
	}
}

// WithTransform registers a markup transform for buffers whose Mode matches
// mode. The transform is resolved once at submit time and applied per chunk
// before insertion.
func WithTransform(mode string, fn TransformFunc) Option {
	return func(c *config) {
		c.transforms[mode] = fn
	}
}

// WithAfterResponse registers a hook run on the target buffer after every
// response, successful or not.
func WithAfterResponse(hook func(buf Buffer)) Option {
	return func(c *config) {
		c.afterResponse = append(c.afterResponse, hook)
	}
}
