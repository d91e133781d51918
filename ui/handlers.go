package ui

import (
	"net/http"
	"net/url"

	"dexadash/domain/scan"
	"dexadash/internal/errors"
	"dexadash/internal/selection"
	"dexadash/internal/view"
	"dexadash/ui/middleware"
	"dexadash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

// pageData is the common template payload of every page
type pageData struct {
	Title       string
	Path        string
	Patients    []string
	Patient     string
	Placeholder string
	Blocks      []view.TextBlock
	Charts      []view.Chart
	View        interface{}
}

func (s *Server) newPage(c *gin.Context, title string) pageData {
	return pageData{
		Title:    title,
		Path:     c.Request.URL.Path,
		Patients: s.assembler.Patients(),
		Patient:  s.assembler.ResolvePatient(c.Query("patient")),
	}
}

// handleOverview serves the landing page
func (s *Server) handleOverview(c *gin.Context) {
	page := s.newPage(c, "DEXA Analysis Overview")
	v := s.assembler.Overview(page.Patient)
	page.View = v
	page.Placeholder = v.Placeholder
	page.Blocks = v.Cards
	if v.Placeholder == "" {
		page.Charts = []view.Chart{v.MainChart, v.VisceralChart, v.CompositionChart}
	}
	s.renderTemplate(c, fragments.OverviewPage, page)
}

// handleBodyPartTrend serves per-part trends for the session's selection
func (s *Server) handleBodyPartTrend(c *gin.Context) {
	page := s.newPage(c, "Body Part Trends")
	selected := s.sessions.Selected(middleware.SessionID(c))
	v := s.assembler.BodyParts(page.Patient, selected)
	page.View = v
	page.Placeholder = v.Placeholder
	if v.Placeholder == "" {
		page.Blocks = []view.TextBlock{v.LatestBlock}
		page.Charts = append(page.Charts, v.Charts...)
		if v.RatioChart != nil {
			page.Charts = append(page.Charts, *v.RatioChart)
		}
	}
	s.renderTemplate(c, fragments.BodyPartTrendPage, page)
}

// handleBodyPartToggle is the form fallback for the toggle buttons
func (s *Server) handleBodyPartToggle(c *gin.Context) {
	part, err := scan.ParseBodyPart(c.PostForm("part"))
	if err != nil {
		err = errors.WithCode(errors.CodeInvalidInput, err)
		c.String(errors.HTTPStatus(err), err.Error())
		return
	}
	s.sessions.Apply(middleware.SessionID(c), selection.ToggleEvent{Kind: selection.KindBodyPartButton, Index: part})

	target := "/body-part-trend"
	if patient := c.PostForm("patient"); patient != "" {
		target += "?patient=" + url.QueryEscape(patient)
	}
	c.Redirect(http.StatusSeeOther, target)
}

// handleComposition serves one chart per composition index
func (s *Server) handleComposition(c *gin.Context) {
	page := s.newPage(c, "Composition Indices Analysis")
	v := s.assembler.Composition(page.Patient)
	page.View = v
	page.Placeholder = v.Placeholder
	page.Charts = v.Charts
	s.renderTemplate(c, fragments.CompositionPage, page)
}

// handleSymmetry serves the symmetry charts, table and summary
func (s *Server) handleSymmetry(c *gin.Context) {
	page := s.newPage(c, "Symmetry Analysis")
	v := s.assembler.Symmetry(page.Patient)
	page.View = v
	page.Placeholder = v.Placeholder
	page.Charts = v.Charts
	if v.Placeholder == "" {
		page.Blocks = []view.TextBlock{v.SummaryBlock}
	}
	s.renderTemplate(c, fragments.SymmetryPage, page)
}
