package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/smahat/docuchat/internal/config"
)

// extractPDF pulls plain text out of every page. Pages that fail to
// parse are skipped with a warning so one corrupt page does not sink
// the document.
func extractPDF(path string) ([]rawPage, error) {
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("Failed to open pdf", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	logger.Debug("Extracting pdf", "path", path, "pages", numPages)

	var pages []rawPage
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := extractPageGuarded(page)
		if err != nil {
			logger.Warn("Skipping unparseable pdf page", "page", i, "error", err)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractTextLike handles .docx, .odt, .rtf and plaintext files. The
// cat library gives no page boundaries, so the whole document lands on
// a single page and the chunker does the splitting.
func extractTextLike(path string) ([]rawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Failed to extract document text", "path", path, "error", err)
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}

	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

// extractPageGuarded runs GetPlainText behind a timeout; the pdf
// library can spin indefinitely on malformed content streams.
func extractPageGuarded(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractionTimeout):
		return "", errors.New("page extraction timed out")
	}
}
