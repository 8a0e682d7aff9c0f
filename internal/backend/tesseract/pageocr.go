package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// PageOCR recognizes the text of a single page image. Tests substitute a stub.
type PageOCR interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// gosseractOCR runs Tesseract through its C API. A fresh client per page
// keeps calls independent, so concurrent extractions never share state.
type gosseractOCR struct {
	language    string
	tessdataDir string
}

func (g *gosseractOCR) Recognize(ctx context.Context, imagePath string) (string, error) {
	// gosseract calls are not interruptible; honor the deadline between pages.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if g.language != "" {
		if err := client.SetLanguage(g.language); err != nil {
			return "", fmt.Errorf("setting language %q: %w", g.language, err)
		}
	}
	if g.tessdataDir != "" {
		if err := client.SetTessdataPrefix(g.tessdataDir); err != nil {
			return "", fmt.Errorf("setting tessdata dir: %w", err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract recognize: %w", err)
	}
	return text, nil
}
