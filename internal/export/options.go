// Package export converts rendered HTML documents into PDF using headless Chrome.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Paper sizes supported by the exporter.
const (
	PaperA4     = "A4"
	PaperLetter = "Letter"
)

// Defaults for Options.
const (
	DefaultTimeout       = 60 * time.Second
	DefaultLoadTimeout   = 10 * time.Second
	DefaultMaxConcurrent = 4
	DefaultMarginInches  = 0.4
)

// Options configures a ChromeExporter.
type Options struct {
	// ChromePath overrides the Chrome binary lookup when set.
	ChromePath string
	// Timeout bounds a whole export, including waiting for a free slot.
	Timeout time.Duration
	// LoadTimeout bounds the wait for the document and its images to settle.
	LoadTimeout time.Duration
	// PaperSize is PaperA4 or PaperLetter.
	PaperSize string
	// MaxConcurrent caps the number of Chrome instances running at once.
	MaxConcurrent int64
}

// DefaultOptions returns A4 output with the default timeouts.
func DefaultOptions() Options {
	return Options{
		Timeout:       DefaultTimeout,
		LoadTimeout:   DefaultLoadTimeout,
		PaperSize:     PaperA4,
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// withDefaults fills zero values from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.LoadTimeout <= 0 {
		o.LoadTimeout = d.LoadTimeout
	}
	if o.PaperSize == "" {
		o.PaperSize = d.PaperSize
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = d.MaxConcurrent
	}
	return o
}

// Validate checks the paper size and that the load wait fits inside the overall timeout.
func (o Options) Validate() error {
	o = o.withDefaults()
	if _, _, err := PaperDimensions(o.PaperSize); err != nil {
		return err
	}
	if o.LoadTimeout >= o.Timeout {
		return fmt.Errorf("export load timeout %s must be shorter than export timeout %s", o.LoadTimeout, o.Timeout)
	}
	return nil
}

// PaperDimensions returns the paper width and height in inches.
func PaperDimensions(size string) (float64, float64, error) {
	switch strings.ToLower(size) {
	case "a4":
		// 210mm x 297mm
		return 8.27, 11.69, nil
	case "letter":
		return 8.5, 11, nil
	}
	return 0, 0, fmt.Errorf("unsupported paper size %q", size)
}
