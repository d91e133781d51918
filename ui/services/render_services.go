package services

import (
	"html/template"
	"strings"

	"dexadash/internal"
	"dexadash/internal/view"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type RenderService struct {
	templates *template.Template
	logger    *internal.Logger
}

func NewRenderService(templates *template.Template, logger *internal.Logger) *RenderService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RenderService{
		templates: templates,
		logger:    logger.With("Render"),
	}
}

// Markdown converts summary text to HTML. Raw HTML in the input is
// escaped since block lines embed source values such as patient names.
func (s *RenderService) Markdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// RenderTextBlocks renders summary cards as an HTML fragment
func (s *RenderService) RenderTextBlocks(blocks []view.TextBlock) string {
	data := struct {
		Blocks []view.TextBlock
	}{
		Blocks: blocks,
	}

	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, "fragments/text_blocks.html", data); err != nil {
		s.logger.Error("failed to render text blocks template: %v", err)
		return `<div class="card error">Error rendering summary</div>`
	}

	return buf.String()
}
