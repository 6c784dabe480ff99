package execution

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ServeWorker answers extraction requests read from r until r is exhausted.
// This is the body of a process-pool worker.
func ServeWorker(ctx context.Context, r io.Reader, w io.Writer, extractor Extractor) error {
	dec := json.NewDecoder(bufio.NewReader(r))
	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decoding request: %w", err)
		}

		records, err := extractor.Extract(ctx, req.Path)
		if err := enc.Encode(NewResponse(records, err)); err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("flushing response: %w", err)
		}
	}
}
