package entity

import "math/big"

// Account is the connected wallet account.
type Account struct {
	Address string `json:"address"`
}

// AccountData is the result of a single balance + history fetch for an account.
type AccountData struct {
	Address      string        `json:"address"`
	RawBalance   *big.Int      `json:"-"`
	Balance      string        `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

// HasBalance reports whether the balance part of the fetch completed.
func (d AccountData) HasBalance() bool {
	return d.RawBalance != nil
}
