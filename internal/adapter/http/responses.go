package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/simaogato/investments-backend/internal/domain"
	"github.com/simaogato/investments-backend/internal/logger"
	"github.com/simaogato/investments-backend/internal/usecase/dashboard"
)

// Error codes carried in the error envelope
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// APIError is the body of every failed request
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps APIError under the "error" key
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// MessageResponse confirms a successful mutation
type MessageResponse struct {
	Message string `json:"message"`
}

type investorResponse struct {
	ID          string               `json:"id"`
	TaxID       string               `json:"tax_id"`
	Investments []investmentResponse `json:"investments"`
}

type investmentResponse struct {
	ID               string               `json:"id"`
	InvestorID       string               `json:"investor_id"`
	BankName         string               `json:"bank_name"`
	BankCode         *int                 `json:"bank_code"`
	InvestmentType   string               `json:"investment_type"`
	Name             string               `json:"name"`
	InitialAmount    decimal.Decimal      `json:"initial_amount"`
	InitialUnitPrice decimal.NullDecimal  `json:"initial_unit_price"`
	YieldRate        decimal.Decimal      `json:"yield_rate"`
	InitialUnitCount *int                 `json:"initial_unit_count"`
	DailyYields      []dailyYieldResponse `json:"daily_yields"`
}

type dailyYieldResponse struct {
	Date              string          `json:"date"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DailyRate         decimal.Decimal `json:"daily_rate"`
	AccumulatedAmount decimal.Decimal `json:"accumulated_amount"`
}

type bankResponse struct {
	Name string `json:"name"`
	Code *int   `json:"code"`
}

type typeBreakdownResponse struct {
	InvestmentType string          `json:"investment_type"`
	Count          int             `json:"count"`
	Invested       decimal.Decimal `json:"invested"`
	Current        decimal.Decimal `json:"current"`
}

type portfolioSummaryResponse struct {
	TaxID       string                  `json:"tax_id"`
	Investments int                     `json:"investments"`
	Invested    decimal.Decimal         `json:"invested"`
	Current     decimal.Decimal         `json:"current"`
	Profit      decimal.Decimal         `json:"profit"`
	ByType      []typeBreakdownResponse `json:"by_type"`
}

func toInvestorResponse(inv *domain.Investor) investorResponse {
	out := investorResponse{
		ID:          inv.ID.String(),
		TaxID:       inv.TaxID.String(),
		Investments: make([]investmentResponse, 0, len(inv.Investments)),
	}
	for i := range inv.Investments {
		out.Investments = append(out.Investments, toInvestmentResponse(&inv.Investments[i]))
	}
	return out
}

func toInvestmentResponse(inv *domain.Investment) investmentResponse {
	out := investmentResponse{
		ID:               inv.ID.String(),
		InvestorID:       inv.InvestorID.String(),
		BankName:         inv.BankName,
		BankCode:         inv.BankCode,
		InvestmentType:   string(inv.Type),
		Name:             inv.Name,
		InitialAmount:    inv.InitialAmount,
		InitialUnitPrice: inv.InitialUnitPrice,
		YieldRate:        inv.YieldRate,
		InitialUnitCount: inv.InitialUnitCount,
		DailyYields:      make([]dailyYieldResponse, 0, len(inv.DailyYields)),
	}
	for _, y := range inv.DailyYields {
		out.DailyYields = append(out.DailyYields, dailyYieldResponse{
			Date:              domain.FormatYieldDate(y.Date),
			UnitPrice:         y.UnitPrice,
			DailyRate:         y.DailyRate,
			AccumulatedAmount: y.AccumulatedAmount,
		})
	}
	return out
}

func toInvestmentResponses(investments []*domain.Investment) []investmentResponse {
	out := make([]investmentResponse, 0, len(investments))
	for _, inv := range investments {
		out = append(out, toInvestmentResponse(inv))
	}
	return out
}

func toSummaryResponse(s *dashboard.PortfolioSummary) portfolioSummaryResponse {
	out := portfolioSummaryResponse{
		TaxID:       s.TaxID.String(),
		Investments: s.Investments,
		Invested:    s.Invested,
		Current:     s.Current,
		Profit:      s.Profit,
		ByType:      make([]typeBreakdownResponse, 0, len(s.ByType)),
	}
	for _, b := range s.ByType {
		out.ByType = append(out.ByType, typeBreakdownResponse{
			InvestmentType: string(b.Type),
			Count:          b.Count,
			Invested:       b.Invested,
			Current:        b.Current,
		})
	}
	return out
}

// respondError writes the error envelope and aborts the chain
func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}

// writeError maps a use case error onto a response.
// Unclassified errors are logged and reported with a generic message.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		respondError(c, http.StatusConflict, CodeConflict, err.Error())
	default:
		log.Error("request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"error", err,
		)
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

// writeBindError reports a body that could not be decoded or failed its binding tags
func writeBindError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, CodeValidation, bindErrorMessage(err))
}

func bindErrorMessage(err error) string {
	var (
		verrs     validator.ValidationErrors
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return strings.Join(msgs, "; ")
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON body at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %s must be %s", typeErr.Field, typeErr.Type)
	case errors.Is(err, domain.ErrValidation):
		return err.Error()
	default:
		return "invalid request body: " + err.Error()
	}
}

// describeFieldError renders a failed tag using the JSON path of the field,
// e.g. "investments[0].bank_name must have at least 2 characters".
func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
