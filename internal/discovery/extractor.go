package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"testsearch/internal/domain"
	"testsearch/internal/parser"
)

// Extractor reads, parses and visits test files.
// It owns a parser and must not be shared between goroutines.
type Extractor struct {
	parser parser.Parser
	logger *slog.Logger
}

// NewExtractor creates a new Extractor around the given parser
func NewExtractor(p parser.Parser, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{parser: p, logger: logger}
}

// NewPythonExtractor creates an Extractor with a private Python parser
func NewPythonExtractor(logger *slog.Logger) *Extractor {
	return NewExtractor(parser.NewPythonParser(), logger)
}

// Extract finds all test records in the file at path
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.TestRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	return e.ExtractSource(ctx, path, content)
}

// ExtractSource finds all test records in already loaded source bytes.
// path is only used to label the records.
func (e *Extractor) ExtractSource(ctx context.Context, path string, content []byte) ([]domain.TestRecord, error) {
	tree, err := e.parser.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	records, err := Visit(path, content, tree.RootNode(), e.logger)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted tests", "file", path, "count", len(records))
	return records, nil
}

// Close releases the parser
func (e *Extractor) Close() {
	e.parser.Close()
}
