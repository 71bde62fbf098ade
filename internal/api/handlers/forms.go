package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"maraisroos.co.za/formgate/internal/api/middleware"
	"maraisroos.co.za/formgate/internal/domain"
)

// The form endpoints always answer HTTP 200 with the verdict shape
// {success, message}: the verdict is the UI contract, and HTTP status would
// leak gatekeeper internals to automated callers.

type contactFormRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`

	// Website is the honeypot field: hidden in the real form, empty for
	// humans.
	Website string `form:"website" json:"website"`

	// FormRenderedAt is the client-reported render time in unix
	// milliseconds, trusted only as a lower bound.
	FormRenderedAt int64 `form:"form_rendered_at" json:"form_rendered_at"`
}

type portfolioFormRequest struct {
	Email          string `form:"email" json:"email"`
	Source         string `form:"source" json:"source"`
	Website        string `form:"website" json:"website"`
	FormRenderedAt int64  `form:"form_rendered_at" json:"form_rendered_at"`
}

// SubmitContactForm handles POST /api/v1/forms/contact.
func (s *Server) SubmitContactForm(c *gin.Context) {
	var req contactFormRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, domain.Rejected(domain.ReasonInvalidMessage,
			"Invalid form submission. Please try again."))
		return
	}

	cand := domain.NewCandidate(domain.FormContact,
		map[string]string{
			"name":    req.Name,
			"email":   req.Email,
			"message": req.Message,
		},
		middleware.GetClientIP(c),
		c.Request.UserAgent(),
		req.Website,
		renderedAt(req.FormRenderedAt),
		time.Now().UTC(),
	)

	c.JSON(http.StatusOK, s.gate.EvaluateContact(c.Request.Context(), cand))
}

// SubmitPortfolioRequest handles POST /api/v1/forms/portfolio-request.
func (s *Server) SubmitPortfolioRequest(c *gin.Context) {
	var req portfolioFormRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, domain.Rejected(domain.ReasonInvalidEmail,
			"Invalid form submission. Please try again."))
		return
	}

	cand := domain.NewCandidate(domain.FormPortfolio,
		map[string]string{
			"email":  req.Email,
			"source": req.Source,
		},
		middleware.GetClientIP(c),
		c.Request.UserAgent(),
		req.Website,
		renderedAt(req.FormRenderedAt),
		time.Now().UTC(),
	)

	c.JSON(http.StatusOK, s.gate.EvaluatePortfolio(c.Request.Context(), cand))
}

// renderedAt converts the client's unix-millisecond render timestamp; zero
// or negative means absent, which disables the timing check.
func renderedAt(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
