package sanitize

import "regexp"

// Rule defines one dangerous-content pattern checked against template
// variable values before they reach the provider.
type Rule struct {
	Name     string
	Regex    *regexp.Regexp
	Severity float64 // 0.0 to 1.0
	Category string  // "sql_injection", "markup_injection", "script_injection"
}

// DefaultRules returns the built-in dangerous-content rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "sql_drop_table",
			Regex:    regexp.MustCompile(`(?i)\bdrop\s+table\b`),
			Severity: 0.95,
			Category: "sql_injection",
		},
		{
			Name:     "sql_delete_from",
			Regex:    regexp.MustCompile(`(?i)\bdelete\s+from\b`),
			Severity: 0.95,
			Category: "sql_injection",
		},
		{
			Name:     "sql_truncate",
			Regex:    regexp.MustCompile(`(?i)\btruncate\s+table\b`),
			Severity: 0.95,
			Category: "sql_injection",
		},
		{
			Name:     "sql_union_select",
			Regex:    regexp.MustCompile(`(?i)\bunion\s+select\b`),
			Severity: 0.9,
			Category: "sql_injection",
		},
		{
			Name:     "script_tag",
			Regex:    regexp.MustCompile(`(?i)<\s*script[^>]*>`),
			Severity: 0.9,
			Category: "markup_injection",
		},
		{
			Name:     "javascript_uri",
			Regex:    regexp.MustCompile(`(?i)javascript\s*:`),
			Severity: 0.85,
			Category: "script_injection",
		},
		{
			Name:     "event_handler",
			Regex:    regexp.MustCompile(`(?i)\bon\w+\s*=`),
			Severity: 0.8,
			Category: "markup_injection",
		},
	}
}
