package ui

import (
	"io"
	"net/http"

	"dexadash/internal"
	"dexadash/internal/errors"
	"dexadash/internal/selection"
	"dexadash/internal/view"
	"dexadash/ui/middleware"
	"dexadash/ui/services"

	"github.com/gin-gonic/gin"
)

// maxEventBytes bounds a toggle event payload
const maxEventBytes = 4 << 10

// DataHandler serves the session-aware JSON API of the dashboard
type DataHandler struct {
	assembler     *view.Assembler
	sessions      *selection.Store
	renderService *services.RenderService
	logger        *internal.Logger
}

func NewDataHandler(assembler *view.Assembler, sessions *selection.Store, renderService *services.RenderService, logger *internal.Logger) *DataHandler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataHandler{
		assembler:     assembler,
		sessions:      sessions,
		renderService: renderService,
		logger:        logger.With("API"),
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func (h *DataHandler) HandleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"patients": len(h.assembler.Patients()),
		})
	}
}

func (h *DataHandler) HandlePatients() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"patients": h.assembler.Patients(),
			"default":  h.assembler.DefaultPatient(),
		})
	}
}

// HandleView returns one page's view model. HTMX requests receive the
// page's summary cards as an HTML fragment instead.
func (h *DataHandler) HandleView() gin.HandlerFunc {
	return func(c *gin.Context) {
		patient := h.assembler.ResolvePatient(c.Query("patient"))

		var payload interface{}
		var blocks []view.TextBlock
		switch c.Param("name") {
		case "overview":
			v := h.assembler.Overview(patient)
			payload, blocks = v, v.Cards
		case "body-parts":
			v := h.assembler.BodyParts(patient, h.sessions.Selected(middleware.SessionID(c)))
			payload, blocks = v, []view.TextBlock{v.LatestBlock}
		case "composition":
			payload = h.assembler.Composition(patient)
		case "symmetry":
			v := h.assembler.Symmetry(patient)
			payload, blocks = v, []view.TextBlock{v.SummaryBlock}
		default:
			abortWithError(c, errors.NotFound("view "+c.Param("name")))
			return
		}

		if c.GetHeader("HX-Request") == "true" {
			c.Header("Content-Type", "text/html")
			c.String(http.StatusOK, h.renderService.RenderTextBlocks(blocks))
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

func (h *DataHandler) HandleSelection() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"selected": h.sessions.Selected(middleware.SessionID(c))})
	}
}

// HandleToggle applies a {"kind":"body-part-button","index":"<part>"} event
func (h *DataHandler) HandleToggle() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBytes))
		if err != nil {
			abortWithError(c, errors.InvalidInput("unreadable request body: "+err.Error()))
			return
		}

		ev, err := selection.ParseToggleEvent(body)
		if err != nil {
			h.logger.Warn("rejected toggle event: %v", err)
			abortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"selected": h.sessions.Apply(middleware.SessionID(c), ev)})
	}
}

func (h *DataHandler) HandleReset() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"selected": h.sessions.Reset(middleware.SessionID(c))})
	}
}
