package diag

// Severity defines the importance of a diagnostic. The set is closed:
// renderers map it through a lookup table to an icon and a style, so no
// dynamic dispatch is needed anywhere.
type Severity uint8

const (
	// SevAdvice is for informational diagnostics.
	SevAdvice Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevAdvice:
		return "advice"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps a textual severity (as found in manifests and decoded
// payloads) back to its value. Unknown text maps to SevError, the safe side.
func ParseSeverity(s string) Severity {
	switch s {
	case "advice", "info":
		return SevAdvice
	case "warning":
		return SevWarning
	default:
		return SevError
	}
}
