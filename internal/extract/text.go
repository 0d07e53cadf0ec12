// Package extract turns uploaded document bytes into indexable plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/helmsley-ai/docent/internal/domain"
)

// Text handles plain-text and markdown documents. Binary uploads are
// rejected rather than indexed as garbage.
type Text struct{}

// NewText creates the plain-text extractor.
func NewText() *Text {
	return &Text{}
}

var _ domain.TextExtractor = (*Text)(nil)

// ExtractText implements domain.TextExtractor.
func (*Text) ExtractText(name string, data []byte) (string, error) {
	if bytes.ContainsRune(data, 0) {
		return "", fmt.Errorf("%s: binary content: %w", name, domain.ErrUnreadableDocument)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: invalid UTF-8: %w", name, domain.ErrUnreadableDocument)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s: %w", name, domain.ErrEmptyDocument)
	}
	return text, nil
}
