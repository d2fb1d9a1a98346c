package member

import (
	"time"
)

// Key is the member's external identifier (32-char lowercase hex). Late-fee
// records and loans relate to members through this natural key, never through
// the numeric PK.
type Key string

func (k Key) String() string { return string(k) }

type Settlement string

const (
	SettlementPending Settlement = "pending"
	SettlementSettled Settlement = "settled"
)

// Member is the boundary view the engines consume: dues standing and
// settlement status. Registration and profile CRUD live outside this service.
type Member struct {
	ID               uint64     `gorm:"primaryKey;column:id" json:"-"`
	MemberKey        Key        `gorm:"size:32;uniqueIndex:ux_members_member_key;column:member_key" json:"member_key"`
	Name             string     `gorm:"size:120;column:name" json:"name"`
	PaidInstallments int        `gorm:"column:paid_installments" json:"paid_installments"`
	HasUnpaidDues    bool       `gorm:"column:has_unpaid_dues" json:"has_unpaid_dues"`
	Settlement       Settlement `gorm:"type:enum('pending','settled');default:'pending';column:settlement" json:"settlement"`
	BatchID          *string    `gorm:"size:32;column:batch_id" json:"-"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string { return "members" }
