package letterfreq

import (
	"errors"
	"fmt"
	"net/url"
)

// DefaultTemplate names the RFC text documents served by rfc-editor.org.
const DefaultTemplate = "https://www.rfc-editor.org/rfc/rfc%d.txt"

// Default batch bounds, inclusive.
const (
	DefaultFirst = 1000
	DefaultLast  = 1049
)

// MaxBatchSize bounds the number of documents in one batch.
const MaxBatchSize = 1 << 16

// DocumentID names a fetchable document, usually a URL.
type DocumentID string

// Batch is the ordered, fixed set of documents counted in one run.
type Batch []DocumentID

var (
	ErrTemplateVerbs = errors.New("template must contain exactly one integer verb")
	ErrRange         = errors.New("invalid document range")
	ErrDocumentURL   = errors.New("document id is not an absolute URL")
)

// StartupError reports a batch that cannot be built. It is fatal: no task
// is launched when one is returned.
type StartupError struct {
	Template string
	Err      error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup: template %q: %v", e.Template, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// NewBatch expands template over the inclusive range first..last.
func NewBatch(template string, first, last int) (Batch, error) {
	if err := checkTemplate(template); err != nil {
		return nil, &StartupError{Template: template, Err: err}
	}
	if first > last {
		return nil, &StartupError{Template: template, Err: fmt.Errorf("%w: %d > %d", ErrRange, first, last)}
	}
	// first <= last, so the unsigned difference is exact even when
	// last-first overflows int.
	span := uint64(last) - uint64(first)
	if span >= MaxBatchSize {
		return nil, &StartupError{Template: template, Err: fmt.Errorf("%w: %d..%d exceeds %d documents", ErrRange, first, last, MaxBatchSize)}
	}
	batch := make(Batch, 0, span+1)
	for i := first; ; i++ {
		id := fmt.Sprintf(template, i)
		u, err := url.Parse(id)
		if err != nil {
			return nil, &StartupError{Template: template, Err: fmt.Errorf("%w: %v", ErrDocumentURL, err)}
		}
		if u.Scheme == "" || (u.Host == "" && u.Path == "") {
			return nil, &StartupError{Template: template, Err: fmt.Errorf("%w: %q", ErrDocumentURL, id)}
		}
		batch = append(batch, DocumentID(id))
		if i == last {
			break
		}
	}
	return batch, nil
}

// checkTemplate accepts exactly one %d verb with optional flags and width.
// Literal %% is allowed anywhere.
func checkTemplate(template string) error {
	verbs := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		i++
		for i < len(template) && isFlagOrWidth(template[i]) {
			i++
		}
		if i >= len(template) {
			return fmt.Errorf("%w: dangling %%", ErrTemplateVerbs)
		}
		switch template[i] {
		case '%':
		case 'd':
			verbs++
		default:
			return fmt.Errorf("%w: unsupported verb %%%c", ErrTemplateVerbs, template[i])
		}
	}
	if verbs != 1 {
		return fmt.Errorf("%w: found %d", ErrTemplateVerbs, verbs)
	}
	return nil
}

func isFlagOrWidth(b byte) bool {
	switch b {
	case '-', '+', '#', ' ', '0':
		return true
	}
	return b >= '1' && b <= '9'
}
