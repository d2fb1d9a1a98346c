package liquidation

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch is one settlement event. The four derived totals (subtotal, tax,
// deductions, net) are persisted as computed at commit time so the batch is a
// faithful record even if rates change later. Deleting a batch is a full
// revert: the covered members go back to pending.
type Batch struct {
	ID      uint64 `gorm:"primaryKey;column:id" json:"-"`
	BatchID string `gorm:"size:32;uniqueIndex:ux_liquidation_batches_batch_id;column:batch_id" json:"batch_id"`
	// MemberKeys is the ordered list of covered member keys, JSON-encoded.
	MemberKeys               string          `gorm:"type:text;column:member_keys" json:"-"`
	DuesTotal                decimal.Decimal `gorm:"type:decimal(18,2);column:dues_total" json:"dues_total"`
	MembershipFeesTotal      decimal.Decimal `gorm:"type:decimal(18,2);column:membership_fees_total" json:"membership_fees_total"`
	ProfitShareTotal         decimal.Decimal `gorm:"type:decimal(18,2);column:profit_share_total" json:"profit_share_total"`
	AdministrationCommission decimal.Decimal `gorm:"type:decimal(18,2);column:administration_commission" json:"administration_commission"`
	Subtotal                 decimal.Decimal `gorm:"type:decimal(18,2);column:subtotal" json:"subtotal"`
	DisbursementTax          decimal.Decimal `gorm:"type:decimal(18,2);column:disbursement_tax" json:"disbursement_tax"`
	Deductions               decimal.Decimal `gorm:"type:decimal(18,2);column:deductions" json:"deductions"`
	NetPayable               decimal.Decimal `gorm:"type:decimal(18,2);column:net_payable" json:"net_payable"`
	BatchDate                time.Time       `gorm:"type:date;column:batch_date" json:"batch_date"`
	CreatedAt                time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Batch) TableName() string { return "liquidation_batches" }
