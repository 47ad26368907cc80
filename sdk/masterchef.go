package sdk

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"financer/core/composer"
	"financer/core/resources"
	"financer/core/types"
	"financer/native/masterchef"
)

// MasterChef reads farm state and builds staking payloads.
type MasterChef struct {
	sdk *SDK
}

func (mc *MasterChef) scripts() string {
	return mc.sdk.options.Modules.MasterChefScripts
}

func (mc *MasterChef) account() string {
	return mc.sdk.options.Modules.MasterChefResourceAccountAddress
}

// GetLPInfoResources returns every coin type the farm accepts.
func (mc *MasterChef) GetLPInfoResources(ctx context.Context) ([]string, error) {
	if mc == nil || mc.sdk == nil {
		return nil, fmt.Errorf("sdk: masterchef module not initialised")
	}
	res, err := resources.Fetch[masterchef.LPInfo](ctx, mc.sdk.resources, mc.account(), composer.ComposeMasterChefLPList(mc.scripts()))
	if err != nil {
		return nil, fmt.Errorf("sdk: masterchef lp info: %w", err)
	}
	coins, err := res.Data.CoinTypes()
	if err != nil {
		return nil, fmt.Errorf("sdk: %w", err)
	}
	return coins, nil
}

// GetPoolInfoByCoinType returns the pool farming coinType.
func (mc *MasterChef) GetPoolInfoByCoinType(ctx context.Context, coinType string) (masterchef.PoolInfo, error) {
	if mc == nil || mc.sdk == nil {
		return masterchef.PoolInfo{}, fmt.Errorf("sdk: masterchef module not initialised")
	}
	res, err := resources.Fetch[masterchef.PoolInfo](ctx, mc.sdk.resources, mc.account(), composer.ComposeMasterChefPoolInfo(mc.scripts(), coinType))
	if err != nil {
		return masterchef.PoolInfo{}, fmt.Errorf("sdk: masterchef pool info: %w", err)
	}
	return res.Data, nil
}

// GetAllPoolInfo lists every pool held by the MasterChef resource account.
func (mc *MasterChef) GetAllPoolInfo(ctx context.Context) ([]masterchef.Pool, error) {
	if mc == nil || mc.sdk == nil {
		return nil, fmt.Errorf("sdk: masterchef module not initialised")
	}
	prefix := composer.ComposeMasterChefPoolInfoPrefix(mc.scripts())
	all, err := resources.FetchAll[masterchef.PoolInfo](ctx, mc.sdk.resources, mc.account(), prefix+"<")
	if err != nil {
		return nil, fmt.Errorf("sdk: masterchef pools: %w", err)
	}
	pools := make([]masterchef.Pool, 0, len(all))
	for _, res := range all {
		coin, err := masterchef.CoinTypeOf(res.Type, prefix)
		if err != nil {
			return nil, fmt.Errorf("sdk: %w", err)
		}
		pools = append(pools, masterchef.Pool{CoinType: coin, Info: res.Data})
	}
	return pools, nil
}

// GetMasterChefData returns the farm-wide emission parameters.
func (mc *MasterChef) GetMasterChefData(ctx context.Context) (masterchef.Data, error) {
	if mc == nil || mc.sdk == nil {
		return masterchef.Data{}, fmt.Errorf("sdk: masterchef module not initialised")
	}
	res, err := resources.Fetch[masterchef.Data](ctx, mc.sdk.resources, mc.account(), composer.ComposeMasterChefData(mc.scripts()))
	if err != nil {
		return masterchef.Data{}, fmt.Errorf("sdk: masterchef data: %w", err)
	}
	return res.Data, nil
}

// GetUserInfoByCoinType returns the stake of address in the coinType pool
// together with its pending FIN reward.
func (mc *MasterChef) GetUserInfoByCoinType(ctx context.Context, address, coinType string) (masterchef.UserPosition, error) {
	if mc == nil || mc.sdk == nil {
		return masterchef.UserPosition{}, fmt.Errorf("sdk: masterchef module not initialised")
	}
	res, err := resources.Fetch[masterchef.UserInfo](ctx, mc.sdk.resources, address, composer.ComposeMasterChefUserInfo(mc.scripts(), coinType))
	if err != nil {
		return masterchef.UserPosition{}, fmt.Errorf("sdk: masterchef user info: %w", err)
	}
	data, err := mc.GetMasterChefData(ctx)
	if err != nil {
		return masterchef.UserPosition{}, err
	}
	return mc.position(ctx, coinType, res.Data, data)
}

// GetUserInfoAll returns every pool position held by address. Pools that no
// longer exist are skipped.
func (mc *MasterChef) GetUserInfoAll(ctx context.Context, address string) ([]masterchef.UserPosition, error) {
	if mc == nil || mc.sdk == nil {
		return nil, fmt.Errorf("sdk: masterchef module not initialised")
	}
	prefix := composer.ComposeMasterChefUserInfoPrefix(mc.scripts())
	all, err := resources.FetchAll[masterchef.UserInfo](ctx, mc.sdk.resources, address, prefix+"<")
	if err != nil {
		return nil, fmt.Errorf("sdk: masterchef user infos: %w", err)
	}
	positions := make([]masterchef.UserPosition, 0, len(all))
	if len(all) == 0 {
		return positions, nil
	}
	data, err := mc.GetMasterChefData(ctx)
	if err != nil {
		return nil, err
	}
	for _, res := range all {
		coin, err := masterchef.CoinTypeOf(res.Type, prefix)
		if err != nil {
			return nil, fmt.Errorf("sdk: %w", err)
		}
		position, err := mc.position(ctx, coin, res.Data, data)
		if errors.Is(err, resources.ErrResourceNotFound) {
			mc.sdk.logger.Debug("sdk: skipping position without pool", "address", address, "resource", coin)
			continue
		}
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, nil
}

func (mc *MasterChef) position(ctx context.Context, coinType string, user masterchef.UserInfo, data masterchef.Data) (masterchef.UserPosition, error) {
	pool, err := mc.GetPoolInfoByCoinType(ctx, coinType)
	if err != nil {
		return masterchef.UserPosition{}, err
	}
	supply, err := mc.stakedSupply(ctx, coinType)
	if err != nil {
		return masterchef.UserPosition{}, err
	}
	return masterchef.UserPosition{
		CoinType:   coinType,
		Amount:     user.Amount.Decimal(),
		RewardDebt: user.RewardDebt.Decimal(),
		Pending:    masterchef.PendingReward(pool, data, user, supply, mc.sdk.now().Unix()),
	}, nil
}

// stakedSupply is the amount of coinType custodied by the farm. An absent
// CoinStore means nothing is staked.
func (mc *MasterChef) stakedSupply(ctx context.Context, coinType string) (decimal.Decimal, error) {
	supply, err := mc.sdk.GetBalance(ctx, mc.account(), coinType)
	if errors.Is(err, resources.ErrResourceNotFound) {
		return decimal.Zero, nil
	}
	return supply, err
}

// CheckRegisteredFIN reports whether address can receive FIN.
func (mc *MasterChef) CheckRegisteredFIN(ctx context.Context, address string) (bool, error) {
	if mc == nil || mc.sdk == nil {
		return false, fmt.Errorf("sdk: masterchef module not initialised")
	}
	return mc.sdk.IsRegistered(ctx, address, mc.sdk.options.Modules.FinAddress)
}

// RegisterFINPayload registers a FIN CoinStore for the signer.
func (mc *MasterChef) RegisterFINPayload() types.EntryFunctionPayload {
	return mc.sdk.payload("fin_register", masterchef.RegisterFINPayload(mc.sdk.options.Modules.FinAddress))
}

// StakeLPCoinPayload deposits or withdraws LP coins.
func (mc *MasterChef) StakeLPCoinPayload(params masterchef.StakeLPCoinParams) (types.EntryFunctionPayload, error) {
	payload, err := masterchef.StakeLPCoinPayload(mc.scripts(), params)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return mc.sdk.payload("masterchef_"+params.Method, payload), nil
}

// StakeFINPayload enters or leaves single-asset FIN staking.
func (mc *MasterChef) StakeFINPayload(params masterchef.StakeFINParams) (types.EntryFunctionPayload, error) {
	payload, err := masterchef.StakeFINPayload(mc.scripts(), params)
	if err != nil {
		return types.EntryFunctionPayload{}, err
	}
	return mc.sdk.payload("masterchef_"+params.Method, payload), nil
}
