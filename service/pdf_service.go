package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/types"
)

// PDFService validates uploaded PDF bytes and extracts their text. Limits
// are enforced in order: the page count is checked before any text is
// extracted, so an oversized document is rejected cheaply.
type PDFService struct {
	maxPages int
	maxWords int
	logger   *zap.Logger
}

func NewPDFService(config types.DocumentServiceConfig, logger *zap.Logger) *PDFService {
	return &PDFService{
		maxPages: config.MaxPages,
		maxWords: config.MaxWords,
		logger:   logger,
	}
}

// Validate parses data as a PDF and applies the page and word limits.
// On success the returned document carries the full text, concatenated in
// page order. Limit violations return a validation error whose message is
// shown to the user verbatim; malformed bytes return a parse error.
func (s *PDFService) Validate(data []byte) (*types.ValidatedDocument, error) {
	reader, err := openPDF(data)
	if err != nil {
		return nil, types.WrapError(types.ErrParse, fmt.Sprintf("Error reading PDF: %v", err), err)
	}

	pageCount := reader.NumPage()
	if pageCount > s.maxPages {
		return nil, types.NewError(types.ErrValidation,
			fmt.Sprintf("PDF has %d pages. Maximum allowed is %d.", pageCount, s.maxPages))
	}

	var sb strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := extractPage(page)
		if err != nil {
			s.logger.Warn("failed to extract text from page", zap.Int("page", i), zap.Error(err))
			continue
		}
		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	fullText := sb.String()

	wordCount := len(strings.Fields(fullText))
	if wordCount > s.maxWords {
		return nil, types.NewError(types.ErrValidation,
			fmt.Sprintf("PDF has %d words. Maximum allowed is %s.", wordCount, formatLimit(s.maxWords)))
	}

	s.logger.Info("validated PDF", zap.Int("pages", pageCount), zap.Int("words", wordCount))
	return &types.ValidatedDocument{
		Text:      fullText,
		PageCount: pageCount,
		WordCount: wordCount,
		Message:   "PDF is valid.",
	}, nil
}

// extractPage extracts one page's text, converting panics into errors; the
// parser panics on pages with unusual content streams or missing resources.
func extractPage(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// openPDF converts the parser's panics into errors; the underlying library
// panics on some malformed cross-reference tables.
func openPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	return reader, err
}

// formatLimit renders the word limit with a thousands separator, matching
// the user-facing message format.
func formatLimit(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
