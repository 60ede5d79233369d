package serialize

import (
	"encoding/json"
	"fmt"
	"os"
)

// header is the first line of the context file, identifying the format
// version and the session the context belongs to.
type header struct {
	History   string `json:"history"`
	SessionID string `json:"session_id"`
}

// formatVersion is the context file format version the external CLI accepts.
const formatVersion = "1.0"

// Args materializes the bundle as CLI arguments, writing the context and
// pending-question files to the system temp directory.
//
// The argument list is "-c <context>" (omitted when there are no prior
// turns), "-f <pending>" and "-p <template>". The returned cleanup removes
// the temp files and must be called once the process has exited.
func (b *Bundle) Args(sessionID, templatePath string) (args []string, cleanup func(), err error) {
	var paths []string

	cleanup = func() {
		for _, p := range paths {
			_ = os.Remove(p)
		}
	}

	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	if b.Context != "" {
		head, merr := json.Marshal(header{History: formatVersion, SessionID: sessionID})
		if merr != nil {
			return nil, nil, fmt.Errorf("marshal context header: %w", merr)
		}

		ctxPath, werr := writeTemp("chatpipe-context-*.json", string(head)+"\n"+b.Context)
		if werr != nil {
			return nil, nil, fmt.Errorf("write context file: %w", werr)
		}

		paths = append(paths, ctxPath)
		args = append(args, "-c", ctxPath)
	}

	// The pending file is written even when Pending is empty so the CLI
	// always receives a question file.
	pendingPath, werr := writeTemp("chatpipe-question-*.txt", b.Pending)
	if werr != nil {
		return nil, nil, fmt.Errorf("write pending file: %w", werr)
	}

	paths = append(paths, pendingPath)
	args = append(args, "-f", pendingPath, "-p", templatePath)

	return args, cleanup, nil
}

// writeTemp writes content to a fresh temp file and returns its path.
func writeTemp(pattern, content string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())

		return "", err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())

		return "", err
	}

	return f.Name(), nil
}
