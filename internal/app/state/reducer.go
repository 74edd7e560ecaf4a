package state

import "wallet_dashboard/internal/domain/entity"

// Reduce applies ev to s and returns the next state.
// Results of fetches other than the latest one are ignored.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Connected:
		return State{
			Phase:   PhaseLoading,
			Account: e.Account,
			Token:   s.Token + 1,
		}

	case ConnectFailed:
		next := s
		next.Err = e.Err
		return next

	case DataLoaded:
		if !s.Connected() || e.Token != s.Token {
			return s
		}
		return State{
			Phase:        PhaseLoaded,
			Account:      s.Account,
			Balance:      e.Data.Balance,
			Transactions: cloneTransactions(e.Data.Transactions),
			HistoryKnown: true,
			Token:        s.Token,
		}

	case DataFailed:
		if !s.Connected() || e.Token != s.Token {
			return s
		}
		next := State{
			Phase:   PhaseLoaded,
			Account: s.Account,
			Err:     e.Err,
			Token:   s.Token,
		}
		if e.Partial.HasBalance() {
			next.Balance = e.Partial.Balance
		}
		next.Transactions = cloneTransactions(e.Partial.Transactions)
		return next

	case Disconnected:
		// keep the token so late results of the old account stay stale
		return State{Token: s.Token}
	}
	return s
}

func cloneTransactions(txs []entity.Transaction) []entity.Transaction {
	if len(txs) == 0 {
		return nil
	}
	return append([]entity.Transaction(nil), txs...)
}
