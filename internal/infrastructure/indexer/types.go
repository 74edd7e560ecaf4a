package indexer

import jsoniter "github.com/json-iterator/go"

// txListEnvelope is the Etherscan-style response wrapper.
// Result is a list on success and a message string on failure.
type txListEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

// explorerTx is one entry of module=account&action=txlist.
type explorerTx struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	ContractAddress string `json:"contractAddress"`
	IsError         string `json:"isError"`
}
