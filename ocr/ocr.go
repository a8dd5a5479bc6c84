//go:build ocr

package ocr

// Tesseract-backed Recognizer via gosseract. Requires Tesseract to be
// installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr

import (
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations. It implements Recognizer.
// The client should be closed when no longer needed to release resources
type Client struct {
	client *gosseract.Client
	config Config
}

// New creates a new OCR client with default configuration
func New() (*Client, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new OCR client with the specified configuration
func NewWithConfig(config Config) (*Client, error) {
	client := gosseract.NewClient()
	if config.Language != "" {
		if err := client.SetLanguage(config.Language); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to set OCR language %q: %w", config.Language, err)
		}
	}
	return &Client{client: client, config: config}, nil
}

// Close releases OCR resources
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
// When a timeout is configured and recognition exceeds it, ErrTimeout is
// returned; the recognition goroutine is abandoned in that case since
// Tesseract offers no cancellation
func (c *Client) Recognize(imageData []byte) (string, error) {
	if c.config.Timeout <= 0 {
		return c.recognize(imageData)
	}

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := c.recognize(imageData)
		done <- outcome{text, err}
	}()

	timer := time.NewTimer(c.config.Timeout)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.text, o.err
	case <-timer.C:
		return "", ErrTimeout
	}
}

func (c *Client) recognize(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the language(s) for OCR recognition. Multiple languages
// can be specified as a "+" separated string (e.g., "eng+fra")
func (c *Client) SetLanguage(lang string) error {
	c.config.Language = lang
	return c.client.SetLanguage(lang)
}
