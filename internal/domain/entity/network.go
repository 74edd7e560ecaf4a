package entity

// NetworkDefinition describes the single chain the dashboard talks to.
type NetworkDefinition struct {
	ChainID          uint64 `json:"chainId" yaml:"chainId"`
	Name             string `json:"name" yaml:"name"`
	NativeSymbol     string `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         uint8  `json:"decimals" yaml:"decimals"` // decimals of the native currency, 18 for ETH
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	// ExplorerAPIURL is the Etherscan-compatible API serving this chain.
	ExplorerAPIURL string `json:"-" yaml:"explorerApiUrl,omitempty"`
}

// Predefined network definitions
var ( //nolint:gochecknoglobals
	Ethereum = NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		NativeSymbol:     "ETH",
		Decimals:         18,
		BlockExplorerURL: "https://etherscan.io",
		ExplorerAPIURL:   "https://api.etherscan.io/api",
	}
	Sepolia = NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia",
		NativeSymbol:     "ETH",
		Decimals:         18,
		BlockExplorerURL: "https://sepolia.etherscan.io",
		ExplorerAPIURL:   "https://api-sepolia.etherscan.io/api",
	}
	Holesky = NetworkDefinition{
		ChainID:          17000,
		Name:             "Holesky",
		NativeSymbol:     "ETH",
		Decimals:         18,
		BlockExplorerURL: "https://holesky.etherscan.io",
		ExplorerAPIURL:   "https://api-holesky.etherscan.io/api",
	}
)

var knownNetworks = map[uint64]NetworkDefinition{ //nolint:gochecknoglobals
	Ethereum.ChainID: Ethereum,
	Sepolia.ChainID:  Sepolia,
	Holesky.ChainID:  Holesky,
}

// NetworkByChainID returns the predefined definition for chainID.
func NetworkByChainID(chainID uint64) (NetworkDefinition, bool) {
	def, ok := knownNetworks[chainID]
	return def, ok
}

// WithDefaults fills unset fields from the predefined network with the same
// chain ID, or from Ethereum when no chain ID is set.
func (n NetworkDefinition) WithDefaults() NetworkDefinition {
	base := Ethereum
	if n.ChainID != 0 {
		known, ok := NetworkByChainID(n.ChainID)
		if !ok {
			// unknown chain: only the currency shape can be assumed
			known = NetworkDefinition{ChainID: n.ChainID, NativeSymbol: Ethereum.NativeSymbol, Decimals: Ethereum.Decimals}
		}
		base = known
	}
	if n.ChainID == 0 {
		n.ChainID = base.ChainID
	}
	if n.Name == "" {
		n.Name = base.Name
	}
	if n.NativeSymbol == "" {
		n.NativeSymbol = base.NativeSymbol
	}
	if n.Decimals == 0 {
		n.Decimals = base.Decimals
	}
	if n.BlockExplorerURL == "" {
		n.BlockExplorerURL = base.BlockExplorerURL
	}
	if n.ExplorerAPIURL == "" {
		n.ExplorerAPIURL = base.ExplorerAPIURL
	}
	return n
}
