package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account represents an entry of the chart of accounts. The chart itself is
// maintained by the host application; the engine only reads the attributes
// that drive line classification.
type Account struct {
	AccountID    string              `json:"accountID"` // Primary Key (e.g., UUID)
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	AccountType  AccountType         `json:"accountType"`
	InternalType AccountInternalType `json:"internalType"` // RECEIVABLE, PAYABLE or OTHER
	CurrencyCode string              `json:"currencyCode"` // Forced account currency, empty when free
	IsActive     bool                `json:"isActive"`
	AuditFields
}
