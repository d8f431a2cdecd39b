package model

// AccountType is the closed set of account kinds a client can hold.
type AccountType string

const (
	AccountTypeChecking AccountType = "Checking"
	AccountTypeSavings  AccountType = "Savings"
	AccountTypeOther    AccountType = "Other"
)

// Account is a named balance owned by a single client. An account has no
// identity of its own; it exists only inside its owning client's document,
// and its name is unique within that client only by convention.
type Account struct {
	Name    string      `json:"accountName"`
	Type    AccountType `json:"accountType"`
	Balance float64     `json:"balance"`
}

// Client is the aggregate root: a client together with its accounts is
// always read, mutated and persisted as a single document.
type Client struct {
	ID        string    `json:"id"`
	FirstName string    `json:"fname"`
	LastName  string    `json:"lname"`
	Accounts  []Account `json:"accounts"`
}
