package swap

import (
	"github.com/shopspring/decimal"

	"financer/core/types"
)

// CoinValue is the JSON form of a Move Coin<T> held inside a resource.
type CoinValue struct {
	Value types.Uint `json:"value"`
}

// AdminData mirrors the AdminData resource of the swap module. Fees are in
// basis points.
type AdminData struct {
	AdminAddress string     `json:"admin_address"`
	DaoFeeTo     string     `json:"dao_fee_to"`
	SwapFee      types.Uint `json:"swap_fee"`
	DaoFee       types.Uint `json:"dao_fee"`
	DaoFeeOn     bool       `json:"dao_fee_on"`
	IsPause      bool       `json:"is_pause"`
}

// LiquidityPool mirrors LiquidityPool<X, Y>.
type LiquidityPool struct {
	CoinXReserve         CoinValue  `json:"coin_x_reserve"`
	CoinYReserve         CoinValue  `json:"coin_y_reserve"`
	LastBlockTimestamp   types.Uint `json:"last_block_timestamp"`
	LastPriceXCumulative types.Uint `json:"last_price_x_cumulative"`
	LastPriceYCumulative types.Uint `json:"last_price_y_cumulative"`
	KLast                types.Uint `json:"k_last"`
	Locked               bool       `json:"locked"`
}

// Reserves is a pool's liquidity oriented in the caller's trade direction.
type Reserves struct {
	CoinX    string          `json:"coinX"`
	CoinY    string          `json:"coinY"`
	ReserveX decimal.Decimal `json:"reserveX"`
	ReserveY decimal.Decimal `json:"reserveY"`
}

// Oriented returns the pool reserves for the x/y direction. When reversed is
// set the pool was stored as LiquidityPool<Y, X>.
func (p LiquidityPool) Oriented(coinX, coinY string, reversed bool) Reserves {
	rx, ry := p.CoinXReserve.Value.Decimal(), p.CoinYReserve.Value.Decimal()
	if reversed {
		rx, ry = ry, rx
	}
	return Reserves{CoinX: coinX, CoinY: coinY, ReserveX: rx, ReserveY: ry}
}
