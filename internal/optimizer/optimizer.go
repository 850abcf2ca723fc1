// Package optimizer suggests security, cost, performance and reliability
// improvements by inspecting a built template.
package optimizer

import (
	"fmt"
	"sort"

	ecsstack "github.com/lex00/ecs-stack-go"
)

// Categories accepted by Options.Category.
const (
	CategoryAll         = "all"
	CategorySecurity    = "security"
	CategoryCost        = "cost"
	CategoryPerformance = "performance"
	CategoryReliability = "reliability"
)

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions. Empty means all.
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []ecsstack.OptimizeSuggestion
	Summary     ecsstack.OptimizeSummary
}

// Rule checks one resource type. Check returns nil when the resource is fine.
type Rule struct {
	ID       string
	Category string
	Check    func(name string, def ecsstack.ResourceDef) *ecsstack.OptimizeSuggestion
}

// TemplateRule checks the template as a whole.
type TemplateRule struct {
	ID       string
	Category string
	Check    func(tmpl *ecsstack.Template) []ecsstack.OptimizeSuggestion
}

// Optimize applies every rule to the template.
func Optimize(tmpl *ecsstack.Template, opts Options) (*Result, error) {
	category := opts.Category
	if category == "" {
		category = CategoryAll
	}
	switch category {
	case CategoryAll, CategorySecurity, CategoryCost, CategoryPerformance, CategoryReliability:
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}

	result := &Result{}

	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := tmpl.Resources[name]
		for _, rule := range resourceRules[def.Type] {
			if category != CategoryAll && rule.Category != category {
				continue
			}
			if s := rule.Check(name, def); s != nil {
				s.Rule = rule.ID
				s.Category = rule.Category
				result.Suggestions = append(result.Suggestions, *s)
			}
		}
	}

	for _, rule := range templateRules {
		if category != CategoryAll && rule.Category != category {
			continue
		}
		for _, s := range rule.Check(tmpl) {
			s.Rule = rule.ID
			s.Category = rule.Category
			result.Suggestions = append(result.Suggestions, s)
		}
	}

	result.Summary = calculateSummary(result.Suggestions)
	return result, nil
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []ecsstack.OptimizeSuggestion) ecsstack.OptimizeSummary {
	summary := ecsstack.OptimizeSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case CategorySecurity:
			summary.Security++
		case CategoryCost:
			summary.Cost++
		case CategoryPerformance:
			summary.Performance++
		case CategoryReliability:
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}
