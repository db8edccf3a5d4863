package domain

import "time"

// TransactionType marks the direction of money movement.
type TransactionType string

const (
	TransactionMoneyIn  TransactionType = "moneyIn"
	TransactionMoneyOut TransactionType = "moneyOut"
)

// Transaction is a single income or expense entry. It is owned by a
// user; an accountant sees it only while an approved authorization
// exists for that (user, accountant) pair. The client mirrors that rule
// by hiding actions the server would refuse, nothing more.
type Transaction struct {
	ID         string
	OwnerID    string
	Amount     float64
	Type       TransactionType
	CategoryID string
	VendorID   string
	Note       string
	Deleted    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Vendor is a payee/payer a transaction can reference.
type Vendor struct {
	ID        string
	OwnerID   string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// Category labels transactions for reporting.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Type      TransactionType
	CreatedAt time.Time
}

// User is the profile of a signed-in principal.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}
