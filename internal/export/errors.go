package export

import "fmt"

// ExportError represents any failure to produce a PDF. Stage names the step
// that failed: acquire, launch, load or print.
type ExportError struct {
	Stage string
	Cause error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed: %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("export failed: %s", e.Stage)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
