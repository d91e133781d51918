// Package fragments provides template path constants for organized template management
package fragments

import "strings"

// Template path constants, relative to ui/templates
const (
	// Pages
	OverviewPage      = "overview.html"
	BodyPartTrendPage = "body_part_trend.html"
	CompositionPage   = "composition.html"
	SymmetryPage      = "symmetry.html"

	// Layout templates
	Header = "layout/header.html"
	Footer = "layout/footer.html"

	// Fragment templates
	ChartGrid  = "fragments/chart_grid.html"
	TextBlocks = "fragments/text_blocks.html"
)

// GetAllTemplatePaths returns all template paths for registration
func GetAllTemplatePaths() []string {
	return []string{
		// Layout
		Header,
		Footer,

		// Fragments
		ChartGrid,
		TextBlocks,

		// Pages
		OverviewPage,
		BodyPartTrendPage,
		CompositionPage,
		SymmetryPage,
	}
}

// GetTemplateCategory returns the category for a given template path
func GetTemplateCategory(templatePath string) string {
	switch {
	case strings.HasPrefix(templatePath, "layout/"):
		return "layout"
	case strings.HasPrefix(templatePath, "fragments/"):
		return "fragments"
	case strings.HasSuffix(templatePath, ".html"):
		return "page"
	default:
		return "unknown"
	}
}
