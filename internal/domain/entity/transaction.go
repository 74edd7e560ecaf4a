package entity

// Transaction is one entry of an account's recent history as displayed.
// Value is already scaled to the native currency unit.
type Transaction struct {
	Hash      string `json:"hash"`
	From      string `json:"from"`
	To        string `json:"to"`
	Value     string `json:"value"`
	Timestamp string `json:"timestamp,omitempty"`
}
