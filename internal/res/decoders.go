package res

// Decoders for every artifact format Decode accepts. BMP, TIFF and WebP are
// transcoded to PNG after decoding.
import (
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)
