package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkWithDefaults(t *testing.T) {
	assert.Equal(t, Ethereum, NetworkDefinition{}.WithDefaults())

	sepolia := NetworkDefinition{ChainID: 11155111}.WithDefaults()
	assert.Equal(t, Sepolia, sepolia)

	custom := NetworkDefinition{ChainID: 1, Name: "Local fork"}.WithDefaults()
	assert.Equal(t, "Local fork", custom.Name)
	assert.Equal(t, "https://etherscan.io", custom.BlockExplorerURL)

	unknown := NetworkDefinition{ChainID: 31337}.WithDefaults()
	assert.EqualValues(t, 31337, unknown.ChainID)
	assert.Equal(t, "ETH", unknown.NativeSymbol)
	assert.EqualValues(t, 18, unknown.Decimals)
	assert.Empty(t, unknown.BlockExplorerURL)
}

func TestNetworkByChainID(t *testing.T) {
	def, ok := NetworkByChainID(17000)
	assert.True(t, ok)
	assert.Equal(t, "Holesky", def.Name)

	_, ok = NetworkByChainID(56)
	assert.False(t, ok)
}
