package riskprofile

import "strings"

// Class is the capability tag assigned to a product type string.
type Class int

const (
	Unclassified Class = iota
	FixedIncome
	HighRisk
)

func (c Class) String() string {
	switch c {
	case FixedIncome:
		return "FixedIncome"
	case HighRisk:
		return "HighRisk"
	default:
		return "Unclassified"
	}
}

// Keyword sets for the heuristic type classification. Substring matches,
// case-insensitive; Portuguese and English spellings are both covered.
var (
	highRiskKeywords = []string{
		"ações", "acao", "acoes", "equit",
		"multimercado", "multimarket",
		"cript", "crypt",
		"derivativ",
		"fund", // "fund" also matches "fundo"
	}

	fixedIncomeKeywords = []string{
		"cdb", "lci", "lca",
		"tesouro", "treasury",
		"renda fixa", "fixed income",
	}
)

// Classify tags a product type string as FixedIncome, HighRisk, or
// Unclassified by keyword match. HighRisk wins when both sets match
// (e.g. "Fundo de Renda Fixa" is a fund and therefore high risk).
// This is deliberately heuristic, not a managed taxonomy.
func Classify(productType string) Class {
	t := strings.ToLower(strings.TrimSpace(productType))
	if t == "" {
		return Unclassified
	}

	for _, kw := range highRiskKeywords {
		if strings.Contains(t, kw) {
			return HighRisk
		}
	}

	for _, kw := range fixedIncomeKeywords {
		if strings.Contains(t, kw) {
			return FixedIncome
		}
	}

	return Unclassified
}
