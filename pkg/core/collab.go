package core

import "context"

// Image is a decoded raster: dimensions plus a packed RGBA pixel buffer.
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// PixelCodec decodes a containerized raster image to raw pixels and encodes
// pixels back into container bytes. Implementations are supplied by callers;
// metastrip itself never touches pixel data.
type PixelCodec interface {
	Decode(input []byte) (Image, error)
	Encode(img Image) ([]byte, error)
}

// Quantizer reduces an image to a palette plus an index buffer.
type Quantizer interface {
	Quantize(img Image, quality, speed int) (palette []byte, indexes []byte, err error)
}

// Recompressor shrinks the compressed streams inside a containerized image
// without changing its pixels.
type Recompressor interface {
	Recompress(input []byte) ([]byte, error)
}

// Transcoder runs an external conversion for formats this module does not
// parse, typically video. Strip requests metadata removal during transcode.
type Transcoder interface {
	Transcode(ctx context.Context, input []byte, opts TranscodeOptions) ([]byte, error)
}

// TranscodeOptions carries the quality, speed and strip parameters handed to
// a Transcoder.
type TranscodeOptions struct {
	Quality int
	Speed   int
	Strip   bool
}
