package filter

import "fmt"

const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Diagnostic is a recovered failure noticed during a pass. Enrichment is best
// effort, so diagnostics never abort generation.
type Diagnostic struct {
	Severity string
	Subject  string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %v", d.Severity, d.Subject, d.Err)
}

// UnresolvedReferenceError reports a parameter whose schema reference has no
// matching component schema.
type UnresolvedReferenceError struct {
	Ref string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("filter: schema reference %q does not resolve", e.Ref)
}
