// file: model/request.go

package model

// ClientRequest defines the payload for creating or replacing a client.
// It includes validation tags to ensure data integrity at the entry point.
// The accounts list may be empty on creation; the service seeds a default
// account in that case.
type ClientRequest struct {
	FirstName string           `json:"fname" validate:"required,max=100"`
	LastName  string           `json:"lname" validate:"required,max=100"`
	Accounts  []AccountRequest `json:"accounts" validate:"omitempty,dive"`
}

// AccountRequest defines the payload for adding an account to a client.
type AccountRequest struct {
	Name    string  `json:"accountName" validate:"required,max=100"`
	Type    string  `json:"accountType" validate:"required,oneof=Checking Savings Other"`
	Balance float64 `json:"balance"`
}

// AmountRequest carries the amount of a deposit or withdrawal.
type AmountRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

// ToClient builds the domain aggregate from a validated request payload.
func (r *ClientRequest) ToClient() *Client {
	accounts := make([]Account, 0, len(r.Accounts))
	for _, a := range r.Accounts {
		accounts = append(accounts, a.ToAccount())
	}
	return &Client{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Accounts:  accounts,
	}
}

// ToAccount builds the domain account from a validated request payload.
func (r *AccountRequest) ToAccount() Account {
	return Account{
		Name:    r.Name,
		Type:    AccountType(r.Type),
		Balance: r.Balance,
	}
}
