package template

import (
	"regexp"
	"sort"
	"strings"

	"github.com/af-corp/scribe/internal/types"
)

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// Template is a named prompt pattern. SystemInstructions carries the full
// prompt text with ${var} placeholders. Templates are immutable once
// registered; re-registering under the same name replaces the prior entry.
type Template struct {
	Name               string            `yaml:"name" json:"name"`
	Description        string            `yaml:"description" json:"description"`
	Category           string            `yaml:"category" json:"category"`
	SystemInstructions string            `yaml:"system_instructions" json:"system_instructions"`
	RequiredVariables  []string          `yaml:"required_variables" json:"required_variables"`
	OptionalVariables  map[string]string `yaml:"optional_variables" json:"optional_variables"`

	// Recommended sampling parameters, applied when the caller does not
	// override them. Zero means no recommendation.
	MaxTokensRecommendation   int     `yaml:"max_tokens" json:"max_tokens,omitempty"`
	TemperatureRecommendation float64 `yaml:"temperature" json:"temperature,omitempty"`
}

// Info returns the listing metadata for the template. Optional variable
// names are sorted for a stable surface.
func (t Template) Info() types.TemplateInfo {
	optional := make([]string, 0, len(t.OptionalVariables))
	for name := range t.OptionalVariables {
		optional = append(optional, name)
	}
	sort.Strings(optional)

	required := make([]string, len(t.RequiredVariables))
	copy(required, t.RequiredVariables)

	return types.TemplateInfo{
		Name:              t.Name,
		Description:       t.Description,
		Category:          t.Category,
		RequiredVariables: required,
		OptionalVariables: optional,
	}
}

// MergeVariables combines the template's optional defaults with the caller's
// variables. Caller values win.
func (t Template) MergeVariables(variables map[string]string) map[string]string {
	merged := make(map[string]string, len(t.OptionalVariables)+len(variables))
	for name, def := range t.OptionalVariables {
		merged[name] = def
	}
	for name, value := range variables {
		merged[name] = value
	}
	return merged
}

// Render validates required variables and substitutes every ${var} occurrence
// in SystemInstructions. A placeholder with no matching key is left verbatim:
// the pass-through is deliberate, so fixed boilerplate like "${BRAND}" can
// survive rendering untouched.
func (t Template) Render(variables map[string]string) (string, map[string]string, error) {
	var missing []string
	for _, name := range t.RequiredVariables {
		value, ok := variables[name]
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", nil, types.Validationf(
			"template %q missing required variables: %s", t.Name, strings.Join(missing, ", "))
	}

	merged := t.MergeVariables(variables)

	rendered := placeholderPattern.ReplaceAllStringFunc(t.SystemInstructions, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := merged[name]; ok {
			return value
		}
		return match
	})

	return rendered, merged, nil
}
