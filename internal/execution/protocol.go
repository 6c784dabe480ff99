package execution

import (
	"errors"

	"testsearch/internal/domain"
)

// Request is one task sent to a worker process, encoded as a JSON line
type Request struct {
	Path string `json:"path"`
}

// Response carries the records of one file back from a worker process
type Response struct {
	Records   []domain.TestRecord               `json:"records"`
	Error     string                            `json:"error,omitempty"`
	Construct *domain.UnsupportedConstructError `json:"construct,omitempty"`
}

// NewResponse encodes an extraction outcome
func NewResponse(records []domain.TestRecord, err error) Response {
	if err == nil {
		if records == nil {
			records = []domain.TestRecord{}
		}
		return Response{Records: records}
	}

	var construct *domain.UnsupportedConstructError
	if errors.As(err, &construct) {
		return Response{Error: err.Error(), Construct: construct}
	}
	return Response{Error: err.Error()}
}

// Result decodes the outcome, restoring unsupported-construct errors so
// they still match domain.ErrUnsupportedConstruct
func (r Response) Result() ([]domain.TestRecord, error) {
	if r.Construct != nil {
		return nil, r.Construct
	}
	if r.Error != "" {
		return nil, errors.New(r.Error)
	}
	return r.Records, nil
}
