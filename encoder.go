package checkgroup

import (
	"errors"

	"github.com/pthm/checkgroup/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Encodable is implemented by types that can encode themselves efficiently.
type Encodable = encoding.Encodable

// Decodable is implemented by types that can decode themselves efficiently.
type Decodable = encoding.Decodable

// NewEncoder creates a new encoder with the given encryption key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// WrapDecodeError maps encoding package errors onto the checkgroup sentinels
// so callers only need to know one set of errors.
func WrapDecodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	}
	return err
}
