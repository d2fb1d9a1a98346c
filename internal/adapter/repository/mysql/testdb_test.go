package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM, no DECIMAL) ---

type movementSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	MovementID       string    `gorm:"size:32;column:movement_id"`
	Kind             string    `gorm:"type:text;column:kind"` // ← no enum
	Category         string    `gorm:"type:text;column:category"`
	Concept          string    `gorm:"column:concept"`
	Amount           float64   `gorm:"column:amount"`
	PriorBalance     float64   `gorm:"column:prior_balance"`
	ResultingBalance float64   `gorm:"column:resulting_balance"`
	MovementDate     time.Time `gorm:"column:movement_date"`
	ReferenceID      *string   `gorm:"size:32;column:reference_id"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (movementSQLite) TableName() string { return "movements" }

type lateFeeRecordSQLite struct {
	ID                uint64     `gorm:"primaryKey;column:id"`
	RecordID          string     `gorm:"size:32;column:record_id"`
	MemberKey         string     `gorm:"size:32;column:member_key"`
	InstallmentNumber int        `gorm:"column:installment_number"`
	DailyRate         float64    `gorm:"column:daily_rate"`
	DaysLate          int        `gorm:"column:days_late"`
	TotalSanction     float64    `gorm:"column:total_sanction"`
	AmountPaid        float64    `gorm:"column:amount_paid"`
	Remaining         float64    `gorm:"column:remaining"`
	Status            string     `gorm:"type:text;column:status"`
	LastPaymentDate   *time.Time `gorm:"column:last_payment_date"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (lateFeeRecordSQLite) TableName() string { return "late_fee_records" }

type lateFeePaymentSQLite struct {
	ID          uint64    `gorm:"primaryKey;column:id"`
	EntryID     string    `gorm:"size:32;column:entry_id"`
	RecordID    string    `gorm:"size:32;column:record_id"`
	PaymentDate time.Time `gorm:"column:payment_date"`
	Amount      float64   `gorm:"column:amount"`
	PaymentType string    `gorm:"type:text;column:payment_type"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (lateFeePaymentSQLite) TableName() string { return "late_fee_payments" }

type loanSQLite struct {
	ID                 uint64    `gorm:"primaryKey;column:id"`
	LoanID             string    `gorm:"size:32;column:loan_id"`
	BorrowerName       string    `gorm:"column:borrower_name"`
	MemberKey          *string   `gorm:"size:32;column:member_key"`
	Principal          float64   `gorm:"column:principal"`
	MonthlyRatePercent float64   `gorm:"column:monthly_rate_percent"`
	StartDate          time.Time `gorm:"column:start_date"`
	Status             string    `gorm:"type:text;column:status"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type loanMovementSQLite struct {
	ID                   uint64    `gorm:"primaryKey;column:id"`
	LoanMovementID       string    `gorm:"size:32;column:loan_movement_id"`
	LoanID               string    `gorm:"size:32;column:loan_id"`
	MovementDate         time.Time `gorm:"column:movement_date"`
	MovementType         string    `gorm:"type:text;column:movement_type"`
	AmountPaid           float64   `gorm:"column:amount_paid"`
	InterestAccrued      float64   `gorm:"column:interest_accrued"`
	PrincipalPaid        float64   `gorm:"column:principal_paid"`
	OutstandingPrincipal float64   `gorm:"column:outstanding_principal"`
	TotalOutstanding     float64   `gorm:"column:total_outstanding"`
	CreatedAt            time.Time `gorm:"column:created_at"`
}

func (loanMovementSQLite) TableName() string { return "loan_movements" }

type liquidationBatchSQLite struct {
	ID                       uint64    `gorm:"primaryKey;column:id"`
	BatchID                  string    `gorm:"size:32;column:batch_id"`
	MemberKeys               string    `gorm:"type:text;column:member_keys"`
	DuesTotal                float64   `gorm:"column:dues_total"`
	MembershipFeesTotal      float64   `gorm:"column:membership_fees_total"`
	ProfitShareTotal         float64   `gorm:"column:profit_share_total"`
	AdministrationCommission float64   `gorm:"column:administration_commission"`
	Subtotal                 float64   `gorm:"column:subtotal"`
	DisbursementTax          float64   `gorm:"column:disbursement_tax"`
	Deductions               float64   `gorm:"column:deductions"`
	NetPayable               float64   `gorm:"column:net_payable"`
	BatchDate                time.Time `gorm:"column:batch_date"`
	CreatedAt                time.Time `gorm:"column:created_at"`
	UpdatedAt                time.Time `gorm:"column:updated_at"`
}

func (liquidationBatchSQLite) TableName() string { return "liquidation_batches" }

type memberSQLite struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	MemberKey        string    `gorm:"size:32;column:member_key"`
	Name             string    `gorm:"column:name"`
	PaidInstallments int       `gorm:"column:paid_installments"`
	HasUnpaidDues    bool      `gorm:"column:has_unpaid_dues"`
	Settlement       string    `gorm:"type:text;column:settlement"`
	BatchID          *string   `gorm:"size:32;column:batch_id"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (memberSQLite) TableName() string { return "members" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe
// schema, never the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&movementSQLite{},
		&lateFeeRecordSQLite{},
		&lateFeePaymentSQLite{},
		&loanSQLite{},
		&loanMovementSQLite{},
		&liquidationBatchSQLite{},
		&memberSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
