package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"maraisroos.co.za/formgate/internal/audit"
	"maraisroos.co.za/formgate/internal/domain"
	apperrors "maraisroos.co.za/formgate/internal/pkg/errors"
)

// The review API serves the operator's triage flow: list what the
// gatekeeper decided, then move records through the status vocabularies.

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListSubmissions handles GET /api/v1/admin/submissions.
// Query params: form (contact|portfolio, default contact), status, limit.
func (s *Server) ListSubmissions(c *gin.Context) {
	filter := audit.ListFilter{Status: c.Query("status")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "limit must be an integer"))
			return
		}
		filter.Limit = limit
	}

	switch form := c.DefaultQuery("form", string(domain.FormContact)); domain.FormKind(form) {
	case domain.FormContact:
		recs, err := s.store.ListContacts(c.Request.Context(), filter)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"submissions": contactViews(recs)})

	case domain.FormPortfolio:
		recs, err := s.store.ListPortfolioRequests(c.Request.Context(), filter)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"submissions": portfolioViews(recs)})

	default:
		_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "form must be contact or portfolio"))
	}
}

// UpdateSubmissionStatus handles PATCH /api/v1/admin/submissions/:id.
func (s *Server) UpdateSubmissionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "id must be a UUID"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "status is required"))
		return
	}

	switch form := c.DefaultQuery("form", string(domain.FormContact)); domain.FormKind(form) {
	case domain.FormContact:
		err = s.store.UpdateContactStatus(c.Request.Context(), id, domain.ContactStatus(req.Status))
	case domain.FormPortfolio:
		err = s.store.UpdatePortfolioStatus(c.Request.Context(), id, domain.PortfolioStatus(req.Status))
	default:
		_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidRequest, "form must be contact or portfolio"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// View types keep the wire shape stable independent of the domain structs.
// The hashed identity is exposed for correlation; no raw IP exists anywhere.

type contactView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	IPHash    string    `json:"ip_hash"`
	UserAgent string    `json:"user_agent"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt string    `json:"created_at"`
}

type portfolioView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	IPHash      string    `json:"ip_hash"`
	UserAgent   string    `json:"user_agent"`
	Notes       string    `json:"notes,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	RequestedAt string    `json:"requested_at"`
}

func contactViews(recs []*domain.ContactRecord) []contactView {
	views := make([]contactView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, contactView{
			ID:        rec.ID,
			Name:      rec.Name,
			Email:     rec.Email,
			Message:   rec.Message,
			Status:    string(rec.Status),
			IPHash:    rec.IPHash,
			UserAgent: rec.UserAgent,
			Reason:    string(rec.Reason),
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return views
}

func portfolioViews(recs []*domain.PortfolioRecord) []portfolioView {
	views := make([]portfolioView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, portfolioView{
			ID:          rec.ID,
			Email:       rec.Email,
			Status:      string(rec.Status),
			Source:      rec.Source,
			IPHash:      rec.IPHash,
			UserAgent:   rec.UserAgent,
			Notes:       rec.Notes,
			Reason:      string(rec.Reason),
			RequestedAt: rec.RequestedAt.UTC().Format(time.RFC3339),
		})
	}
	return views
}
