package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// Opposite returns the compensating kind for a reversal movement.
func (k Kind) Opposite() Kind {
	if k == KindIncome {
		return KindExpense
	}
	return KindIncome
}

// Category tags a movement with the income/expense stream it belongs to, so
// the liquidation aggregator can total streams without parsing concepts.
type Category string

const (
	CategoryDues             Category = "DUES"
	CategoryLateFee          Category = "LATE_FEE"
	CategoryLoanInterest     Category = "LOAN_INTEREST"
	CategoryLoanPrincipal    Category = "LOAN_PRINCIPAL"
	CategoryMembershipFee    Category = "MEMBERSHIP_FEE"
	CategoryActivity         Category = "ACTIVITY"
	CategoryInvestment       Category = "INVESTMENT"
	CategoryOperatingExpense Category = "OPERATING_EXPENSE"
	CategoryBankTax          Category = "BANK_TAX"
	CategoryLiquidation      Category = "LIQUIDATION"
	CategoryOther            Category = "OTHER"
)

var validCategories = map[Category]bool{
	CategoryDues: true, CategoryLateFee: true, CategoryLoanInterest: true,
	CategoryLoanPrincipal: true, CategoryMembershipFee: true,
	CategoryActivity: true, CategoryInvestment: true,
	CategoryOperatingExpense: true, CategoryBankTax: true,
	CategoryLiquidation: true, CategoryOther: true,
}

func ValidCategory(c Category) bool { return validCategories[c] }

// Movement is one row of the cash ledger. The numeric PK is the monotonic
// append sequence: the current balance of the fund is the resulting balance
// of the row with the highest id, never a sum over all rows. MovementDate is
// the user-supplied calendar date and carries no ordering authority.
type Movement struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	MovementID       string          `gorm:"size:32;uniqueIndex:ux_movements_movement_id;column:movement_id" json:"movement_id"`
	Kind             Kind            `gorm:"type:enum('INCOME','EXPENSE');column:kind" json:"kind"`
	Category         Category        `gorm:"type:enum('DUES','LATE_FEE','LOAN_INTEREST','LOAN_PRINCIPAL','MEMBERSHIP_FEE','ACTIVITY','INVESTMENT','OPERATING_EXPENSE','BANK_TAX','LIQUIDATION','OTHER');default:'OTHER';column:category" json:"category"`
	Concept          string          `gorm:"size:255;column:concept" json:"concept"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);column:amount" json:"amount"`
	PriorBalance     decimal.Decimal `gorm:"type:decimal(18,2);column:prior_balance" json:"prior_balance"`
	ResultingBalance decimal.Decimal `gorm:"type:decimal(18,2);column:resulting_balance" json:"resulting_balance"`
	MovementDate     time.Time       `gorm:"type:date;column:movement_date" json:"movement_date"`
	// ReferenceID links back to the originating record (late-fee payment
	// entry, loan movement, liquidation batch) or the reversed movement.
	ReferenceID *string   `gorm:"size:32;index:idx_movements_reference;column:reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Movement) TableName() string { return "movements" }
