package http

import (
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/config"
	"natillera-backend/internal/domain/latefee"
	"natillera-backend/internal/domain/uow"
	"natillera-backend/internal/testutil/latefeemock"
	"natillera-backend/internal/testutil/ledgermock"
	"natillera-backend/internal/testutil/uowmock"
	latefeeuc "natillera-backend/internal/usecase/latefee"
)

func newLateFeeHandler() *LateFeeHandler {
	records := &latefeemock.Repo{}
	payments := &latefeemock.PaymentRepo{}
	tx := &uowmock.UoW{Repos: uow.Repos{
		Movements:       &ledgermock.Repo{},
		LateFees:        records,
		LateFeePayments: payments,
	}}
	engine := config.Engine{
		DailyLateFeeRate: decimal.RequireFromString("3000"),
		MaxLateFeeDays:   15,
	}
	return NewLateFeeHandler(latefeeuc.NewUsecase(records, payments, tx, engine))
}

func assessBody(memberKey, due, paid string) map[string]any {
	return map[string]any{
		"member_key":         memberKey,
		"installment_number": 1,
		"due_date":           due,
		"payment_date":       paid,
	}
}

func TestAssess_LatePaymentIs201(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	body := assessBody(strings.Repeat("a", 32), "2025-01-15", "2025-01-20")
	c, rec := doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var got latefee.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.DaysLate != 5 || !got.TotalSanction.Equal(decimal.RequireFromString("15000")) {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestAssess_OnTimeIs200NotSanctioned(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	body := assessBody(strings.Repeat("a", 32), "2025-01-15", "2025-01-14")
	c, rec := doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got["sanctioned"] != false {
		t.Fatalf("payload = %v, want sanctioned=false", got)
	}
}

func TestAssess_BadMemberKeyIs400(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	body := assessBody("NOT-HEX", "2025-01-15", "2025-01-20")
	c, rec := doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAssess_BadDateIs400(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	body := assessBody(strings.Repeat("a", 32), "15/01/2025", "2025-01-20")
	c, rec := doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAssess_DuplicateIs409(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	body := assessBody(strings.Repeat("a", 32), "2025-01-15", "2025-01-20")
	c, rec := doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil || rec.Code != stdhttp.StatusCreated {
		t.Fatalf("first assess: err=%v code=%d", err, rec.Code)
	}

	c, rec = doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil {
		t.Fatalf("Assess error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAllocatePayment_FlowAndErrors(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	body := assessBody(strings.Repeat("a", 32), "2025-01-15", "2025-01-20")
	c, rec := doJSON(e, stdhttp.MethodPost, "/late-fees/assess", mustJSON(body))
	if err := h.Assess(c); err != nil || rec.Code != stdhttp.StatusCreated {
		t.Fatalf("assess: err=%v code=%d", err, rec.Code)
	}
	var record latefee.Record
	_ = json.Unmarshal(rec.Body.Bytes(), &record)

	pay := map[string]any{"amount": "10000", "date": "2025-01-21"}
	c, rec = doJSON(e, stdhttp.MethodPost, "/late-fees/x/payments", mustJSON(pay))
	c.SetParamNames("record_id")
	c.SetParamValues(record.RecordID)
	if err := h.AllocatePayment(c); err != nil {
		t.Fatalf("AllocatePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var res latefeeuc.AllocationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if res.Record.Status != latefee.StatusPartiallyPaid || !res.Record.Remaining.Equal(decimal.RequireFromString("5000")) {
		t.Fatalf("unexpected allocation: %+v", res.Record)
	}

	// unknown record → 404
	c, rec = doJSON(e, stdhttp.MethodPost, "/late-fees/x/payments", mustJSON(pay))
	c.SetParamNames("record_id")
	c.SetParamValues(strings.Repeat("e", 32))
	if err := h.AllocatePayment(c); err != nil {
		t.Fatalf("AllocatePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	// non-positive amount fails validation before the usecase
	c, rec = doJSON(e, stdhttp.MethodPost, "/late-fees/x/payments", mustJSON(map[string]any{"amount": "0"}))
	c.SetParamNames("record_id")
	c.SetParamValues(record.RecordID)
	if err := h.AllocatePayment(c); err != nil {
		t.Fatalf("AllocatePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	// reverse the allocation
	c, rec = doJSON(e, stdhttp.MethodPost, "/late-fees/payments/x/reverse", mustJSON(map[string]any{}))
	c.SetParamNames("entry_id")
	c.SetParamValues(res.Entry.EntryID)
	if err := h.ReversePayment(c); err != nil {
		t.Fatalf("ReversePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var rev latefeeuc.AllocationResult
	_ = json.Unmarshal(rec.Body.Bytes(), &rev)
	if rev.Record.Status != latefee.StatusPending {
		t.Fatalf("status after reversal = %s, want pending", rev.Record.Status)
	}
}

func TestOutstanding_BadKeyIs400(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	c, rec := doJSON(e, stdhttp.MethodGet, "/late-fees?member_key=oops", nil)
	if err := h.Outstanding(c); err != nil {
		t.Fatalf("Outstanding error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOutstanding_EmptyListIs200(t *testing.T) {
	e := newEchoWithValidator()
	h := newLateFeeHandler()

	c, rec := doJSON(e, stdhttp.MethodGet, "/late-fees", nil)
	if err := h.Outstanding(c); err != nil {
		t.Fatalf("Outstanding error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
