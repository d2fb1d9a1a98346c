package latefee

import (
	"time"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/member"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
)

type PaymentType string

const (
	PaymentPartial PaymentType = "PARTIAL"
	PaymentFull    PaymentType = "FULL"
)

// Record is the outstanding penalty for one (member, installment) pair. A
// record only exists once an installment was paid late inside its own due
// period; "no penalty" is the absence of a row, which repositories surface as
// (nil, false), never as a zero-value record.
type Record struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	RecordID          string          `gorm:"size:32;uniqueIndex:ux_late_fee_records_record_id;column:record_id" json:"record_id"`
	MemberKey         member.Key      `gorm:"size:32;index:idx_late_fee_records_member;uniqueIndex:ux_late_fee_records_member_installment,priority:1;column:member_key" json:"member_key"`
	InstallmentNumber int             `gorm:"uniqueIndex:ux_late_fee_records_member_installment,priority:2;column:installment_number" json:"installment_number"`
	DailyRate         decimal.Decimal `gorm:"type:decimal(18,2);column:daily_rate" json:"daily_rate"`
	DaysLate          int             `gorm:"column:days_late" json:"days_late"`
	TotalSanction     decimal.Decimal `gorm:"type:decimal(18,2);column:total_sanction" json:"total_sanction"`
	AmountPaid        decimal.Decimal `gorm:"type:decimal(18,2);default:0;column:amount_paid" json:"amount_paid"`
	Remaining         decimal.Decimal `gorm:"type:decimal(18,2);column:remaining" json:"remaining"`
	Status            Status          `gorm:"type:enum('pending','partially_paid','paid');default:'pending';column:status" json:"status"`
	LastPaymentDate   *time.Time      `gorm:"type:date;column:last_payment_date" json:"last_payment_date,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Record) TableName() string { return "late_fee_records" }

// PaymentEntry is the append-only history of allocations against a Record.
// Deleting one is a reversal: the record totals roll back and a compensating
// EXPENSE movement hits the ledger.
type PaymentEntry struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntryID     string          `gorm:"size:32;uniqueIndex:ux_late_fee_payments_entry_id;column:entry_id" json:"entry_id"`
	RecordID    string          `gorm:"size:32;index:idx_late_fee_payments_record;column:record_id" json:"record_id"`
	PaymentDate time.Time       `gorm:"type:date;column:payment_date" json:"payment_date"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);column:amount" json:"amount"`
	PaymentType PaymentType     `gorm:"type:enum('PARTIAL','FULL');column:payment_type" json:"payment_type"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentEntry) TableName() string { return "late_fee_payments" }
