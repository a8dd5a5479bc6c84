//go:build !ocr

package ocr

// Stub implementation used when the "ocr" build tag is not set. All
// operations return ErrUnavailable, and callers degrade gracefully by
// emitting empty-text placeholder blocks for scanned pages

// Client is a stub OCR client that returns ErrUnavailable for all operations
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New() (*Client, error) {
	return nil, ErrUnavailable
}

// NewWithConfig returns an error indicating OCR support is not enabled
func NewWithConfig(config Config) (*Client, error) {
	return nil, ErrUnavailable
}

// Close is a no-op for the stub client. It is safe to call on a nil client
func (c *Client) Close() error {
	return nil
}

// Recognize returns an error indicating OCR support is not enabled
func (c *Client) Recognize(imageData []byte) (string, error) {
	return "", ErrUnavailable
}

// SetLanguage returns an error indicating OCR support is not enabled
func (c *Client) SetLanguage(lang string) error {
	return ErrUnavailable
}
