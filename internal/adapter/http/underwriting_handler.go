package http

import (
	"errors"
	"net/http"

	"microloan-backend/internal/domain/loan"
	"microloan-backend/internal/domain/repayment"
	"microloan-backend/internal/domain/user"
	"microloan-backend/internal/usecase/underwriting"
	"microloan-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UnderwritingHandler struct{ uc *underwriting.Usecase }

func NewUnderwritingHandler(uc *underwriting.Usecase) *UnderwritingHandler {
	return &UnderwritingHandler{uc: uc}
}

type applyReq struct {
	UserID                    string  `json:"user_id"                     validate:"required"`
	LoanAmount                float64 `json:"loan_amount"                 validate:"required,gt=0"`
	TransactionFrequency      float64 `json:"transaction_frequency"       validate:"gte=0"`
	AvgTransactionAmount      float64 `json:"avg_transaction_amount"      validate:"gte=0"`
	UtilityPaymentConsistency float64 `json:"utility_payment_consistency" validate:"gte=0,lte=1"`
	AirtimeTopupFrequency     float64 `json:"airtime_topup_frequency"     validate:"gte=0"`
}

type repayReq struct {
	UserID      string  `json:"user_id"      validate:"required"`
	LoanID      string  `json:"loan_id"      validate:"required"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Amount      float64 `json:"amount"       validate:"required,gt=0"`
}

func (h *UnderwritingHandler) Apply(c echo.Context) error {
	var req applyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Apply(c.Request().Context(), underwriting.ApplyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UnderwritingHandler) Progress(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing user_id path param"})
	}
	dto, err := h.uc.Progress(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UnderwritingHandler) Repay(c echo.Context) error {
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Repay(c.Request().Context(), underwriting.RepayInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// writeError maps domain errors to HTTP codes; anything unrecognized is a 500.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, underwriting.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
	case errors.Is(err, loan.ErrNotFound), errors.Is(err, repayment.ErrAmountMismatch):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid loan or amount"})
	default:
		logger.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
