package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simaogato/investments-backend/internal/domain"
	"github.com/simaogato/investments-backend/internal/logger"
	"github.com/simaogato/investments-backend/internal/usecase/investment"
)

// Handler serves the investments REST API
type Handler struct {
	investors   InvestorService
	investments InvestmentService
	dashboard   DashboardService
	log         *logger.Logger
}

// RegisterInvestor handles POST /api/investors
func (h *Handler) RegisterInvestor(c *gin.Context) {
	var req registerInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	investor, err := h.investors.Register(c.Request.Context(), req.TaxID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("investor %s registered", investor.TaxID.Formatted()),
	})
}

// ListInvestors handles GET /api/investors
func (h *Handler) ListInvestors(c *gin.Context) {
	investors, err := h.investors.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]investorResponse, 0, len(investors))
	for _, inv := range investors {
		out = append(out, toInvestorResponse(inv))
	}
	c.JSON(http.StatusOK, out)
}

// GetInvestor handles GET /api/investors/:taxId
func (h *Handler) GetInvestor(c *gin.Context) {
	taxID, err := domain.LookupTaxID(c.Param("taxId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	investor, err := h.investors.Get(c.Request.Context(), taxID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toInvestorResponse(investor))
}

// DeleteInvestor handles DELETE /api/investors/:taxId
func (h *Handler) DeleteInvestor(c *gin.Context) {
	taxID, err := domain.LookupTaxID(c.Param("taxId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if err := h.investors.Delete(c.Request.Context(), taxID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("investor %s deleted", taxID.Formatted()),
	})
}

// ReplaceInvestments handles PUT /api/investors/investments and PUT /api/investments
func (h *Handler) ReplaceInvestments(c *gin.Context) {
	taxID, inputs, ok := h.bindInvestments(c)
	if !ok {
		return
	}

	investments, err := h.investments.ReplaceInvestments(c.Request.Context(), taxID, inputs)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%d investments saved for investor %s", len(investments), taxID.Formatted()),
	})
}

// AddInvestments handles POST /api/investments
func (h *Handler) AddInvestments(c *gin.Context) {
	taxID, inputs, ok := h.bindInvestments(c)
	if !ok {
		return
	}

	investments, err := h.investments.AddInvestments(c.Request.Context(), taxID, inputs)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("%d investments added for investor %s", len(investments), taxID.Formatted()),
	})
}

// ListInvestments handles GET /api/investments
func (h *Handler) ListInvestments(c *gin.Context) {
	investments, err := h.investments.ListInvestments(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toInvestmentResponses(investments))
}

// GetInvestment handles GET /api/investments/:id
func (h *Handler) GetInvestment(c *gin.Context) {
	id, err := investmentID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	inv, err := h.investments.GetInvestment(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toInvestmentResponse(inv))
}

// UpdateInvestment handles PUT /api/investments/:id
func (h *Handler) UpdateInvestment(c *gin.Context) {
	id, err := investmentID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	var req investmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	// Parse investment type and dates before touching storage
	input, err := req.toInput()
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if _, err := h.investments.UpdateInvestment(c.Request.Context(), id, input); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "investment updated"})
}

// DeleteInvestment handles DELETE /api/investments/:id
func (h *Handler) DeleteInvestment(c *gin.Context) {
	id, err := investmentID(c)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if err := h.investments.DeleteInvestment(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "investment deleted"})
}

// ListInvestmentsByTaxID handles GET /api/investments/investor/:taxId
func (h *Handler) ListInvestmentsByTaxID(c *gin.Context) {
	taxID, err := domain.LookupTaxID(c.Param("taxId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	investments, err := h.investments.ListByTaxID(c.Request.Context(), taxID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toInvestmentResponses(investments))
}

// ListBanks handles GET /api/banks/:taxId
// A tax ID nobody is registered under yields an empty list.
func (h *Handler) ListBanks(c *gin.Context) {
	out := []bankResponse{}

	taxID, err := domain.LookupTaxID(c.Param("taxId"))
	if err != nil {
		c.JSON(http.StatusOK, out)
		return
	}

	banks, err := h.dashboard.ListBanks(c.Request.Context(), taxID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	for _, b := range banks {
		out = append(out, bankResponse{Name: b.Name, Code: b.Code})
	}
	c.JSON(http.StatusOK, out)
}

// ListInvestmentTypes handles GET /api/investment-types/:taxId
func (h *Handler) ListInvestmentTypes(c *gin.Context) {
	out := []string{}

	taxID, err := domain.LookupTaxID(c.Param("taxId"))
	if err != nil {
		c.JSON(http.StatusOK, out)
		return
	}

	types, err := h.dashboard.ListInvestmentTypes(c.Request.Context(), taxID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	for _, t := range types {
		out = append(out, string(t))
	}
	c.JSON(http.StatusOK, out)
}

// ListAllInvestmentTypes handles GET /api/investment-types
func (h *Handler) ListAllInvestmentTypes(c *gin.Context) {
	types := domain.InvestmentTypes()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	c.JSON(http.StatusOK, out)
}

// GetPortfolioSummary handles GET /api/portfolio/:taxId/summary
func (h *Handler) GetPortfolioSummary(c *gin.Context) {
	taxID, err := domain.LookupTaxID(c.Param("taxId"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	summary, err := h.dashboard.GetPortfolioSummary(c.Request.Context(), taxID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

// bindInvestments decodes a {tax_id, investments} body and converts every record.
// On failure the response has already been written.
func (h *Handler) bindInvestments(c *gin.Context) (domain.TaxID, []investment.InvestmentInput, bool) {
	var req investmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return domain.TaxID{}, nil, false
	}
	if req.TaxID.IsZero() {
		writeError(c, h.log, fmt.Errorf("%w: tax_id is required", domain.ErrInvalidTaxID))
		return domain.TaxID{}, nil, false
	}

	inputs, err := req.toInputs()
	if err != nil {
		writeError(c, h.log, err)
		return domain.TaxID{}, nil, false
	}
	return req.TaxID, inputs, true
}

// investmentID parses the :id parameter. A malformed ID cannot name a stored
// investment, so it is reported as not found.
func investmentID(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("investment %q: %w", raw, domain.ErrNotFound)
	}
	return id, nil
}
