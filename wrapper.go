package plsqlnorm

import (
	"bytes"
	"io"
	"os"

	"github.com/vegvisir-data/plsqlnorm/internal/wrap"
)

// Wrapper decodes Oracle-wrapped PL/SQL source (C6, spec §6).
type Wrapper struct{}

// NewWrapper returns a ready-to-use Wrapper. It carries no state of its
// own; every call owns its own buffers.
func NewWrapper() *Wrapper {
	return &Wrapper{}
}

// Unwrap decodes every wrapped object in input and returns the restored
// source.
func (wp *Wrapper) Unwrap(input []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := wrap.Unwrap(bytes.NewReader(input), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// UnwrapStream decodes from r and writes the restored source to w.
func (wp *Wrapper) UnwrapStream(r io.Reader, w io.Writer) error {
	return wrap.Unwrap(r, w)
}

// UnwrapPath reads path, decodes it, and either returns the result or
// writes it to writeTo when non-empty.
func (wp *Wrapper) UnwrapPath(path string, writeTo string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ResourceError{Message: "opening " + path, Err: err}
	}
	defer f.Close()

	var out bytes.Buffer
	if err := wrap.Unwrap(f, &out); err != nil {
		return nil, err
	}

	if writeTo != "" {
		if err := os.WriteFile(writeTo, out.Bytes(), 0o644); err != nil {
			return nil, ResourceError{Message: "writing " + writeTo, Err: err}
		}
		return nil, nil
	}
	return out.Bytes(), nil
}
