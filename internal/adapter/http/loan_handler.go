package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/loan"
	"natillera-backend/internal/domain/member"
	loanuc "natillera-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loanuc.Usecase }

func NewLoanHandler(uc *loanuc.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	BorrowerName       string          `json:"borrower_name" validate:"required"`
	MemberKey          string          `json:"member_key" validate:"omitempty,hex32"`
	Principal          decimal.Decimal `json:"principal" validate:"required,gt=0"`
	MonthlyRatePercent decimal.Decimal `json:"monthly_rate_percent" validate:"gte=0"`
	StartDate          string          `json:"start_date"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "start_date must be YYYY-MM-DD"})
	}
	var key *member.Key
	if req.MemberKey != "" {
		k := member.Key(req.MemberKey)
		key = &k
	}
	l, err := h.uc.Create(c.Request().Context(), loanuc.CreateInput{
		BorrowerName:       req.BorrowerName,
		MemberKey:          key,
		Principal:          req.Principal,
		MonthlyRatePercent: req.MonthlyRatePercent,
		StartDate:          start,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

type applyMovementReq struct {
	MovementType string          `json:"movement_type" validate:"required,oneof=INTEREST_PAYMENT PRINCIPAL_PAYMENT NO_PAYMENT FULL_PAYMENT"`
	AmountPaid   decimal.Decimal `json:"amount_paid" validate:"gte=0"`
	Date         string          `json:"date"`
}

func (h *LoanHandler) ApplyMovement(c echo.Context) error {
	var req applyMovementReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
	}
	m, err := h.uc.AccrueAndApply(c.Request().Context(), loanuc.ApplyInput{
		LoanID:       c.Param("loan_id"),
		Date:         date,
		MovementType: loan.MovementType(req.MovementType),
		AmountPaid:   req.AmountPaid,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Extract returns the amortization history; ?as_of=YYYY-MM-DD appends the
// non-persisted projection row for an active loan.
func (h *LoanHandler) Extract(c echo.Context) error {
	var asOf *time.Time
	if raw := c.QueryParam("as_of"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
		}
		asOf = &t
	}
	rows, err := h.uc.Extract(c.Request().Context(), c.Param("loan_id"), asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
