package mdview

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
)

// BrowserViewer writes a document to a temporary file and opens it in
// the system browser. The file is left behind so the browser can keep
// reading it after we return.
type BrowserViewer struct{}

func (BrowserViewer) View(document string) error {
	file, err := os.CreateTemp("", "tidytuesday-readme-*.html")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	_, writeErr := file.WriteString(document)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", file.Name(), writeErr)
	}
	if closeErr != nil {
		return closeErr
	}
	return browser.OpenFile(file.Name())
}
