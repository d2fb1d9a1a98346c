package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/member"
	liquc "natillera-backend/internal/usecase/liquidation"
)

type LiquidationHandler struct{ uc *liquc.Usecase }

func NewLiquidationHandler(uc *liquc.Usecase) *LiquidationHandler {
	return &LiquidationHandler{uc: uc}
}

type settlementReq struct {
	MemberKeys            []string         `json:"member_keys" validate:"required,min=1,dive,hex32"`
	AdministrationPercent *decimal.Decimal `json:"administration_percent" validate:"omitempty,gte=0,lte=100"`
	Date                  string           `json:"date"`
}

func toKeys(raw []string) []member.Key {
	out := make([]member.Key, len(raw))
	for i, k := range raw {
		out[i] = member.Key(k)
	}
	return out
}

func (h *LiquidationHandler) Preview(c echo.Context) error {
	var req settlementReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	p, err := h.uc.ComputeSettlement(c.Request().Context(), toKeys(req.MemberKeys), req.AdministrationPercent)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LiquidationHandler) Commit(c echo.Context) error {
	var req settlementReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
	}
	b, err := h.uc.Commit(c.Request().Context(), toKeys(req.MemberKeys), req.AdministrationPercent, date)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *LiquidationHandler) Revert(c echo.Context) error {
	if err := h.uc.Revert(c.Request().Context(), c.Param("batch_id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "reverted"})
}
