package services

import (
	"html/template"
	"testing"

	"dexadash/internal"
	"dexadash/internal/view"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	s := NewRenderService(template.New(""), nil)

	out := string(s.Markdown(view.TextBlock{Title: "Records", Lines: []string{"**Left Arm**: 1.0:2"}}.Markdown()))
	assert.Contains(t, out, "Records</h4>")
	assert.Contains(t, out, "<li><strong>Left Arm</strong>: 1.0:2</li>")
}

func TestMarkdownSkipsRawHTML(t *testing.T) {
	s := NewRenderService(template.New(""), nil)

	out := string(s.Markdown("<script>alert(1)</script>\n\n- ok\n"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<li>ok</li>")
}

func TestRenderTextBlocks(t *testing.T) {
	s := NewRenderService(nil, nil)
	tmpl := template.Must(template.New("fragments/text_blocks.html").Funcs(template.FuncMap{
		"markdown": func(md string) template.HTML { return s.Markdown(md) },
	}).Parse(`{{range .Blocks}}<section>{{markdown .Markdown}}</section>{{end}}`))
	s.templates = tmpl

	out := s.RenderTextBlocks([]view.TextBlock{{Title: "A", Lines: []string{"x"}}, {Title: "B"}})
	assert.Contains(t, out, "A</h4>")
	assert.Contains(t, out, "B</h4>")
	assert.Contains(t, out, "<li>x</li>")
}

func TestRenderTextBlocksMissingTemplate(t *testing.T) {
	s := NewRenderService(template.New("other"), internal.NewLogger(internal.LogLevelError))

	assert.Contains(t, s.RenderTextBlocks(nil), "Error rendering summary")
}
