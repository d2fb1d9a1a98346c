package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/ledger"
	ledgeruc "natillera-backend/internal/usecase/ledger"
)

type LedgerHandler struct{ uc *ledgeruc.Usecase }

func NewLedgerHandler(uc *ledgeruc.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

func (h *LedgerHandler) Balance(c echo.Context) error {
	b, err := h.uc.CurrentBalance(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"balance": b})
}

func (h *LedgerHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	out, err := h.uc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type appendMovementReq struct {
	Kind     string          `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	Category string          `json:"category"`
	Concept  string          `json:"concept" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Date     string          `json:"date"`
}

// Append records a manual categorized movement (activity income, investment
// gain, operating expense, bank tax...). Engine-driven movements never pass
// through here.
func (h *LedgerHandler) Append(c echo.Context) error {
	var req appendMovementReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
	}
	m, err := h.uc.Append(c.Request().Context(), ledgeruc.AppendParams{
		Kind:     ledger.Kind(req.Kind),
		Category: ledger.Category(req.Category),
		Concept:  req.Concept,
		Amount:   req.Amount,
		Date:     date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *LedgerHandler) Reverse(c echo.Context) error {
	m, err := h.uc.Reverse(c.Request().Context(), c.Param("movement_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}
