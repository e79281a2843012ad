package disk

import "errors"

var (
	// ErrInvalidGeometry reports degenerate device parameters. It is only
	// returned while a device is being constructed.
	ErrInvalidGeometry = errors.New("disk: invalid geometry")

	// ErrOutOfRange reports a block or track index beyond the device bounds.
	ErrOutOfRange = errors.New("disk: out of range")

	// ErrInvalidArgument reports a malformed argument, such as a cache that
	// is too small or an empty request.
	ErrInvalidArgument = errors.New("disk: invalid argument")
)
