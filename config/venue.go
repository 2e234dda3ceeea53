package config

import (
	"fmt"

	"vectai/native/common"
	"vectai/native/raydium"
)

// Venue is the whitelisted pool identity in its configuration form. Every
// field is a base58 account address; all must be present for the executor to
// start.
type Venue struct {
	AmmProgram      string `toml:"AmmProgram"`
	Amm             string `toml:"Amm"`
	AmmAuthority    string `toml:"AmmAuthority"`
	AmmOpenOrders   string `toml:"AmmOpenOrders"`
	AmmTargetOrders string `toml:"AmmTargetOrders"`
	PoolCoinVault   string `toml:"PoolCoinVault"`
	PoolPcVault     string `toml:"PoolPcVault"`
	MarketProgram   string `toml:"MarketProgram"`
	Market          string `toml:"Market"`
	MarketBids      string `toml:"MarketBids"`
	MarketAsks      string `toml:"MarketAsks"`
	MarketEventQ    string `toml:"MarketEventQueue"`
	MarketCoinVault string `toml:"MarketCoinVault"`
	MarketPcVault   string `toml:"MarketPcVault"`
	MarketVaultSign string `toml:"MarketVaultSigner"`
}

// Parse decodes every venue address into the runtime whitelist.
func (v Venue) Parse() (raydium.PoolConfig, error) {
	pool := raydium.PoolConfig{}
	fields := []struct {
		name  string
		value string
		dst   *common.Address
	}{
		{"AmmProgram", v.AmmProgram, &pool.AmmProgram},
		{"Amm", v.Amm, &pool.Amm},
		{"AmmAuthority", v.AmmAuthority, &pool.AmmAuthority},
		{"AmmOpenOrders", v.AmmOpenOrders, &pool.AmmOpenOrders},
		{"AmmTargetOrders", v.AmmTargetOrders, &pool.AmmTargetOrders},
		{"PoolCoinVault", v.PoolCoinVault, &pool.PoolCoinVault},
		{"PoolPcVault", v.PoolPcVault, &pool.PoolPcVault},
		{"MarketProgram", v.MarketProgram, &pool.MarketProgram},
		{"Market", v.Market, &pool.Market},
		{"MarketBids", v.MarketBids, &pool.MarketBids},
		{"MarketAsks", v.MarketAsks, &pool.MarketAsks},
		{"MarketEventQueue", v.MarketEventQ, &pool.MarketEventQ},
		{"MarketCoinVault", v.MarketCoinVault, &pool.MarketCoinVault},
		{"MarketPcVault", v.MarketPcVault, &pool.MarketPcVault},
		{"MarketVaultSigner", v.MarketVaultSign, &pool.MarketVaultSign},
	}
	for _, field := range fields {
		addr, err := common.ParseAddress(field.value)
		if err != nil {
			return raydium.PoolConfig{}, fmt.Errorf("config: Venue.%s: %w", field.name, err)
		}
		*field.dst = addr
	}
	return pool, nil
}
