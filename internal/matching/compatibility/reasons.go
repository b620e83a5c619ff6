package compatibility

import "adoption-workers/internal/models"

// Reason templates, shown to adopters as-is.
const (
	ReasonSize        = "Su tamaño se ajusta a lo que buscas"
	ReasonEnergy      = "Su nivel de energía coincide con tu preferencia"
	ReasonCoexistence = "Puede convivir con los integrantes de tu hogar"
	ReasonPersonality = "Su personalidad encaja con tu experiencia y ritmo de vida"
	ReasonLifestyle   = "Se adapta a tu espacio, tiempo y cuidados disponibles"
	ReasonGeneral     = "Buena compatibilidad general"
)

type reasonRule struct {
	threshold float64
	factor    func(models.CompatibilityFactors) float64
	text      string
}

var reasonRules = []reasonRule{
	{0.3, func(f models.CompatibilityFactors) float64 { return f.Size }, ReasonSize},
	{0.3, func(f models.CompatibilityFactors) float64 { return f.Energy }, ReasonEnergy},
	{0.3, func(f models.CompatibilityFactors) float64 { return f.Coexistence }, ReasonCoexistence},
	{0.4, func(f models.CompatibilityFactors) float64 { return f.Personality }, ReasonPersonality},
	{0.4, func(f models.CompatibilityFactors) float64 { return f.Lifestyle }, ReasonLifestyle},
}

// Reasons lists one sentence per well-aligned dimension. It never returns an
// empty list.
func Reasons(f models.CompatibilityFactors) []string {
	var out []string
	for _, rule := range reasonRules {
		if rule.factor(f) < rule.threshold {
			out = append(out, rule.text)
		}
	}
	if len(out) == 0 {
		out = append(out, ReasonGeneral)
	}
	return out
}
