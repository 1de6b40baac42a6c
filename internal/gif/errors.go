package gif

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat reports a bad signature, a bad root code size or a
	// stream without any image block.
	ErrInvalidFormat = errors.New("gif: invalid format")

	// ErrEndOfStream reports that the input ended before a structure was complete.
	ErrEndOfStream = errors.New("gif: unexpected end of stream")

	// ErrTruncatedImage reports that pixel data stopped before the declared
	// raster was filled. The partially decoded image is still returned.
	ErrTruncatedImage = errors.New("gif: truncated image data")

	// ErrCorruptStream reports an LZW code the dictionary cannot resolve.
	ErrCorruptStream = errors.New("gif: corrupt LZW stream")

	// ErrCorruptColorTable reports a pixel index outside the active colour table.
	ErrCorruptColorTable = errors.New("gif: color index out of range")

	// ErrInvalidDimensions reports an image block with zero width or height.
	ErrInvalidDimensions = errors.New("gif: invalid image dimensions")

	// ErrOutOfMemory reports an image block larger than the configured pixel budget.
	ErrOutOfMemory = errors.New("gif: image exceeds pixel budget")
)

// DecodeError annotates a decoding failure with the step that failed and,
// for image blocks, the zero-based frame number.
type DecodeError struct {
	Op    string
	Frame int // -1 when not frame specific
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("%s (frame %d): %v", e.Op, e.Frame, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Op: op, Frame: -1, Err: err}
}

func wrapFrameError(op string, frame int, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Op: op, Frame: frame, Err: err}
}
