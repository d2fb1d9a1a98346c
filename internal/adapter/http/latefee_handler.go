package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/member"
	latefeeuc "natillera-backend/internal/usecase/latefee"
)

type LateFeeHandler struct{ uc *latefeeuc.Usecase }

func NewLateFeeHandler(uc *latefeeuc.Usecase) *LateFeeHandler { return &LateFeeHandler{uc: uc} }

func (h *LateFeeHandler) Outstanding(c echo.Context) error {
	key := member.Key(c.QueryParam("member_key"))
	if key != "" && !reHex32.MatchString(string(key)) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "member_key must be 32-char lowercase hex"})
	}
	out, err := h.uc.Outstanding(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type assessReq struct {
	MemberKey         string `json:"member_key" validate:"required,hex32"`
	InstallmentNumber int    `json:"installment_number" validate:"required,gt=0"`
	DueDate           string `json:"due_date" validate:"required"`
	PaymentDate       string `json:"payment_date" validate:"required"`
}

func (h *LateFeeHandler) Assess(c echo.Context) error {
	var req assessReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "due_date must be YYYY-MM-DD"})
	}
	paid, err := parseDate(req.PaymentDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payment_date must be YYYY-MM-DD"})
	}

	rec, created, err := h.uc.Assess(c.Request().Context(), latefeeuc.AssessInput{
		MemberKey:         member.Key(req.MemberKey),
		InstallmentNumber: req.InstallmentNumber,
		DueDate:           due,
		PaymentDate:       paid,
	})
	if err != nil {
		return writeError(c, err)
	}
	if !created {
		// on-time or cross-period payment: nothing to sanction
		return c.JSON(http.StatusOK, map[string]any{"sanctioned": false})
	}
	return c.JSON(http.StatusCreated, rec)
}

type allocatePaymentReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Date   string          `json:"date"`
}

func (h *LateFeeHandler) AllocatePayment(c echo.Context) error {
	var req allocatePaymentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
	}
	out, err := h.uc.AllocatePayment(c.Request().Context(), c.Param("record_id"), req.Amount, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LateFeeHandler) ReversePayment(c echo.Context) error {
	out, err := h.uc.ReversePayment(c.Request().Context(), c.Param("entry_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
