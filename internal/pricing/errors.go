package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBand = errors.New("invalid band bounds")
	ErrBandOverlap = errors.New("band overlaps an existing active band")
)

// NotFoundError reports a referenced product or channel that does not exist.
type NotFoundError struct {
	Entity  string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func ProductNotFound() error {
	return &NotFoundError{Entity: "product", Message: "Produto não encontrado"}
}

func ChannelNotFound() error {
	return &NotFoundError{Entity: "channel", Message: "Canal não encontrado"}
}

// ValidationError rejects a calculation input before the pipeline runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err carries a ValidationError or a band error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidBand) || errors.Is(err, ErrBandOverlap)
}
