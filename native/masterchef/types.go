package masterchef

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"financer/core/types"
)

// LPInfo mirrors the LPInfo resource listing every coin accepted by the
// farm.
type LPInfo struct {
	LPList []types.TypeInfo `json:"lp_list"`
}

// CoinTypes decodes the listed coins into resource types.
func (i LPInfo) CoinTypes() ([]string, error) {
	out := make([]string, 0, len(i.LPList))
	for idx, info := range i.LPList {
		coin, err := info.ResourceType()
		if err != nil {
			return nil, fmt.Errorf("masterchef: lp_list[%d]: %w", idx, err)
		}
		out = append(out, coin)
	}
	return out, nil
}

// PoolInfo mirrors PoolInfo<CoinType>.
type PoolInfo struct {
	AccFINPerShare      types.Uint `json:"acc_FIN_per_share"`
	LastRewardTimestamp types.Uint `json:"last_reward_timestamp"`
	AllocPoint          types.Uint `json:"alloc_point"`
}

// UserInfo mirrors UserInfo<CoinType> stored under each staker.
type UserInfo struct {
	Amount     types.Uint `json:"amount"`
	RewardDebt types.Uint `json:"reward_debt"`
}

// Data mirrors the MasterChefData resource.
type Data struct {
	AdminAddress             string     `json:"admin_address"`
	DaoAddress               string     `json:"dao_address"`
	DaoPercent               types.Uint `json:"dao_percent"`
	BonusMultiplier          types.Uint `json:"bonus_multiplier"`
	TotalAllocPoint          types.Uint `json:"total_alloc_point"`
	PerSecondFIN             types.Uint `json:"per_second_FIN"`
	StartTimestamp           types.Uint `json:"start_timestamp"`
	LastTimestampDaoWithdraw types.Uint `json:"last_timestamp_dao_withdraw"`
}

// Pool pairs a pool with the coin type it farms.
type Pool struct {
	CoinType string   `json:"coinType"`
	Info     PoolInfo `json:"info"`
}

// UserPosition is a staker's position in one pool, pending rewards included.
type UserPosition struct {
	CoinType   string          `json:"coinType"`
	Amount     decimal.Decimal `json:"amount"`
	RewardDebt decimal.Decimal `json:"rewardDebt"`
	Pending    decimal.Decimal `json:"pending"`
}

// CoinTypeOf extracts the generic argument of a PoolInfo<...> or
// UserInfo<...> resource type, given its unparameterized prefix.
func CoinTypeOf(resourceType, prefix string) (string, error) {
	rest, ok := strings.CutPrefix(resourceType, prefix)
	if !ok || !strings.HasPrefix(rest, "<") || !strings.HasSuffix(rest, ">") {
		return "", fmt.Errorf("masterchef: %q is not a %s<...> type", resourceType, prefix)
	}
	coin := strings.TrimSpace(rest[1 : len(rest)-1])
	if coin == "" {
		return "", fmt.Errorf("masterchef: %q has an empty coin type", resourceType)
	}
	return coin, nil
}
