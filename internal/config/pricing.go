package config

import (
	"github.com/af-corp/scribe/internal/pricing"
	"github.com/af-corp/scribe/internal/template"
)

// PricingConfig is the shape of pricing.yaml: per-model USD rates per 1000
// tokens.
type PricingConfig struct {
	Pricing map[string]pricing.Rate `yaml:"pricing"`
}

// TemplatesConfig is the shape of templates.yaml: extra templates loaded on
// top of the built-ins.
type TemplatesConfig struct {
	Templates []template.Template `yaml:"templates"`
}
