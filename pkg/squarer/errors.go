package squarer

import "errors"

var (
	// ErrCropTooWide is returned when the side margins consume the whole image width.
	ErrCropTooWide = errors.New("margins leave no width to crop")
	// ErrTallerThanWide is returned under the reject policy when the crop cannot be padded to a square.
	ErrTallerThanWide = errors.New("cropped image is taller than it is wide")
	// ErrDecode wraps failures reading an image.
	ErrDecode = errors.New("decoding image")
	// ErrEncode wraps failures writing an image.
	ErrEncode = errors.New("encoding image")
	// ErrLocked is returned when another run holds the batch root.
	ErrLocked = errors.New("batch root is locked by another run")
)
