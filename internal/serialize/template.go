package serialize

import (
	_ "embed"
	"os"
	"path/filepath"
	"sync"
)

//go:embed template.txt
var defaultTemplate string

var (
	templateOnce sync.Once
	templatePath string
	templateErr  error
)

// TemplatePath returns the path of the default prompt template shipped with
// the module, materializing it under the temp directory on first use. The
// file is reused for the lifetime of the process.
func TemplatePath() (string, error) {
	templateOnce.Do(func() {
		path := filepath.Join(os.TempDir(), "chatpipe-template.txt")

		if err := os.WriteFile(path, []byte(defaultTemplate), 0o600); err != nil {
			templateErr = err

			return
		}

		templatePath = path
	})

	return templatePath, templateErr
}
