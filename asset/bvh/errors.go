package bvh

import "errors"

var (
	ErrEmptyBuffer        = errors.New("bvh: empty buffer")
	ErrSizeNotMultipleOf4 = errors.New("bvh: buffer size is not a multiple of 4 bytes")
	ErrTruncated          = errors.New("bvh: buffer is shorter than its header declares")
	ErrUnsupportedFormat  = errors.New("bvh: unsupported file format")
	ErrMissingZipEntry    = errors.New("bvh: zip archive does not contain " + zipEntry)
)
