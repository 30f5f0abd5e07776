package sanitize

import (
	"fmt"
	"sort"
)

// Detection records a matched rule in one variable's value.
type Detection struct {
	Variable string
	RuleName string
	Severity float64
	Category string
}

// BlockedError reports that variable content tripped a dangerous-content
// rule. The request never reaches the provider.
type BlockedError struct {
	Detections []Detection
}

func (e *BlockedError) Error() string {
	if len(e.Detections) == 0 {
		return "content blocked by sanitizer"
	}
	d := e.Detections[0]
	return fmt.Sprintf("content blocked: variable %q matched rule %s (%s)", d.Variable, d.RuleName, d.Category)
}

// Scanner checks template variable values against a rule set.
type Scanner struct {
	rules   []Rule
	enabled bool
}

func NewScanner(enabled bool) *Scanner {
	return &Scanner{rules: DefaultRules(), enabled: enabled}
}

func (s *Scanner) Enabled() bool { return s.enabled }

// Scan checks a single value and returns all detections, tagged with the
// variable name.
func (s *Scanner) Scan(variable, value string) []Detection {
	var detections []Detection
	for _, r := range s.rules {
		if r.Regex.MatchString(value) {
			detections = append(detections, Detection{
				Variable: variable,
				RuleName: r.Name,
				Severity: r.Severity,
				Category: r.Category,
			})
		}
	}
	return detections
}

// ScanVariables checks every value in the merged variable map. It returns a
// BlockedError carrying all detections when anything matched, nil otherwise.
// A disabled scanner passes everything. Variables are visited in sorted name
// order so the reported first offender is deterministic.
func (s *Scanner) ScanVariables(variables map[string]string) error {
	if !s.enabled {
		return nil
	}
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []Detection
	for _, name := range names {
		all = append(all, s.Scan(name, variables[name])...)
	}
	if len(all) > 0 {
		return &BlockedError{Detections: all}
	}
	return nil
}
