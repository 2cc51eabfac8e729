package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthYearLayout is the month-period key format used to group budgets
// against expenses ("2025-03").
const MonthYearLayout = "2006-01"

// Account is a balance-bearing financial account. CurrentBalance must equal
// InitialBalance plus the net effect of every persisted income, expense and
// transfer touching it.
type Account struct {
	Base
	UserID         int64           `json:"user_id"`
	AccountName    string          `json:"account_name"`
	AccountType    string          `json:"account_type"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsActive       bool            `json:"is_active"`
}

type Income struct {
	Base
	UserID       int64           `json:"user_id"`
	AccountID    int64           `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	IncomeType   string          `json:"income_type"`
	Description  string          `json:"description"`
	DateReceived time.Time       `json:"date_received"`
	IsRecurring  bool            `json:"is_recurring"`
}

type Expense struct {
	Base
	UserID        int64           `json:"user_id"`
	AccountID     int64           `json:"account_id"`
	CategoryID    int64           `json:"category_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	DateSpent     time.Time       `json:"date_spent"`
	PaymentMethod string          `json:"payment_method"`
}

// MonthYear returns the month-period key of the expense date.
func (e *Expense) MonthYear() string {
	return e.DateSpent.Format(MonthYearLayout)
}

// Transfer moves money between two accounts of the same user.
type Transfer struct {
	Base
	UserID        int64           `json:"user_id"`
	FromAccountID int64           `json:"from_account_id"`
	ToAccountID   int64           `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	TransferDate  time.Time       `json:"transfer_date"`
}

// Budget is a per-category monthly spending limit. AmountSpent is a rollup
// maintained by the ledger engine as matching expenses come and go.
type Budget struct {
	Base
	UserID      int64           `json:"user_id"`
	CategoryID  int64           `json:"category_id"`
	MonthYear   string          `json:"month_year"`
	AmountLimit decimal.Decimal `json:"amount_limit"`
	AmountSpent decimal.Decimal `json:"amount_spent"`
}

type GoalStatus string

const (
	GoalActive    GoalStatus = "ACTIVE"
	GoalCompleted GoalStatus = "COMPLETED"
)

type Goal struct {
	Base
	UserID        int64           `json:"user_id"`
	GoalName      string          `json:"goal_name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    time.Time       `json:"target_date"`
	Status        GoalStatus      `json:"status"`
}
