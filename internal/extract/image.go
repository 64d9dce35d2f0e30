package extract

// ImageExtractor stands in for OCR, which tidyspace does not ship.
// Registering it keeps image MIME types from falling through to other backends.
type ImageExtractor struct{}

func (ImageExtractor) Name() string { return "image" }

func (ImageExtractor) Extract(string, int) (string, error) {
	return "", ErrUnsupported
}
