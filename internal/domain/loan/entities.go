package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"natillera-backend/internal/domain/member"
)

type Status string

const (
	StatusActive Status = "active"
	StatusPaid   Status = "paid"
)

type MovementType string

const (
	TypeDisbursement     MovementType = "DISBURSEMENT"
	TypeInterestPayment  MovementType = "INTEREST_PAYMENT"
	TypePrincipalPayment MovementType = "PRINCIPAL_PAYMENT"
	TypeNoPayment        MovementType = "NO_PAYMENT"
	TypeFullPayment      MovementType = "FULL_PAYMENT"
)

// Loan is an internal credit accruing daily simple interest at a monthly
// rate. MemberKey is set when the borrower is a member of the group (their
// outstanding principal is deducted at liquidation); external borrowers
// carry only a name.
type Loan struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID             string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id;column:loan_id" json:"loan_id"`
	BorrowerName       string          `gorm:"size:120;column:borrower_name" json:"borrower_name"`
	MemberKey          *member.Key     `gorm:"size:32;index:idx_loans_member;column:member_key" json:"member_key,omitempty"`
	Principal          decimal.Decimal `gorm:"type:decimal(18,2);column:principal" json:"principal"`
	MonthlyRatePercent decimal.Decimal `gorm:"type:decimal(8,4);column:monthly_rate_percent" json:"monthly_rate_percent"`
	StartDate          time.Time       `gorm:"type:date;column:start_date" json:"start_date"`
	Status             Status          `gorm:"type:enum('active','paid');default:'active';column:status" json:"status"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Movement is one row of a loan's amortization history. Interest accrues on
// the previous row's outstanding principal over the whole days elapsed
// between the two rows. Projection rows (interest to "today" on an active
// loan) use this same shape but are never persisted.
type Movement struct {
	ID                   uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanMovementID       string          `gorm:"size:32;uniqueIndex:ux_loan_movements_movement_id;column:loan_movement_id" json:"loan_movement_id"`
	LoanID               string          `gorm:"size:32;index:idx_loan_movements_loan;column:loan_id" json:"loan_id"`
	MovementDate         time.Time       `gorm:"type:date;column:movement_date" json:"movement_date"`
	MovementType         MovementType    `gorm:"type:enum('DISBURSEMENT','INTEREST_PAYMENT','PRINCIPAL_PAYMENT','NO_PAYMENT','FULL_PAYMENT');column:movement_type" json:"movement_type"`
	AmountPaid           decimal.Decimal `gorm:"type:decimal(18,2);default:0;column:amount_paid" json:"amount_paid"`
	InterestAccrued      decimal.Decimal `gorm:"type:decimal(18,2);default:0;column:interest_accrued" json:"interest_accrued"`
	PrincipalPaid        decimal.Decimal `gorm:"type:decimal(18,2);default:0;column:principal_paid" json:"principal_paid"`
	OutstandingPrincipal decimal.Decimal `gorm:"type:decimal(18,2);column:outstanding_principal" json:"outstanding_principal"`
	// TotalOutstanding carries unpaid accrued interest forward on top of the
	// outstanding principal (NO_PAYMENT rows grow it).
	TotalOutstanding decimal.Decimal `gorm:"type:decimal(18,2);column:total_outstanding" json:"total_outstanding"`
	Projection       bool            `gorm:"-" json:"projection,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Movement) TableName() string { return "loan_movements" }
