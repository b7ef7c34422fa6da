package checkgroup

import "errors"

// Sentinel errors returned at the package boundaries (config loading, props
// decoding, HTTP dispatch). The group controller itself never fails: invalid
// input is normalized and invalid form state is reported through validity.
var (
	ErrNotFound         = errors.New("checkgroup: resource not found")
	ErrDecryptFailed    = errors.New("checkgroup: parameter decryption failed")
	ErrSignatureInvalid = errors.New("checkgroup: signature verification failed")
	ErrInvalidFormat    = errors.New("checkgroup: invalid parameter format")
	ErrInvalidConfig    = errors.New("checkgroup: invalid configuration")
	ErrUnknownAction    = errors.New("checkgroup: unknown action")
	ErrChildIndex       = errors.New("checkgroup: child index out of range")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnknownAction)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsBadRequest checks if err was caused by malformed client input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrChildIndex) || IsDecryptionError(err)
}
