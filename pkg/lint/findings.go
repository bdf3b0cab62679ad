package lint

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is a single lint result, tied to the rule that produced it
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func Errorf(rule string, format string, args ...interface{}) Finding {
	return Finding{Rule: rule, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func Warnf(rule string, format string, args ...interface{}) Finding {
	return Finding{Rule: rule, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// HasErrors tells if any finding is severe enough to fail a lint run
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
