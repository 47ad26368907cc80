package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"financer/core/resources"
	"financer/core/types"
	"financer/native/masterchef"
	"financer/native/swap"
	"financer/native/vault"
	"financer/sdk"
)

const maxPayloadBody = 64 << 10

var errBadRequest = errors.New("bad request")

type handlers struct {
	sdk    *sdk.SDK
	logger *slog.Logger
}

func (h *handlers) network(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"network": h.sdk.Network().String(),
		"options": h.sdk.NetworkOptions(),
	})
}

func (h *handlers) balance(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	coinType := h.sdk.NetworkOptions().ResolveCoin(r.URL.Query().Get("coin"))
	balance, err := h.sdk.GetBalance(r.Context(), address, coinType)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address":  address,
		"coinType": coinType,
		"balance":  balance,
	})
}

func (h *handlers) airdrop(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	allocation, err := h.sdk.Misc().CheckUserAirdropBalance(r.Context(), address)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := map[string]interface{}{"address": address, "eligible": allocation.Valid}
	if allocation.Valid {
		out["amount"] = allocation.Decimal
		out["claimed"] = allocation.Decimal.IsZero()
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) vaultTotal(w http.ResponseWriter, r *http.Request) {
	info, err := h.sdk.Misc().CalculateAutoFinInfo(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *handlers) vaultCallFee(w http.ResponseWriter, r *http.Request) {
	fee, err := h.sdk.Misc().CalculateAutoFinHarvestCallFee(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"callFee": fee})
}

func (h *handlers) vaultPosition(w http.ResponseWriter, r *http.Request) {
	staked, err := h.sdk.Misc().CalculateAutoFinStakedAmount(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"position": staked,
		"interest": staked.Interest(),
	})
}

func (h *handlers) masterChefPools(w http.ResponseWriter, r *http.Request) {
	pools, err := h.sdk.MasterChef().GetAllPoolInfo(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

func (h *handlers) masterChefUser(w http.ResponseWriter, r *http.Request) {
	positions, err := h.sdk.MasterChef().GetUserInfoAll(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positions)
}

func (h *handlers) swapPool(w http.ResponseWriter, r *http.Request) {
	opts := h.sdk.NetworkOptions()
	reserves, err := h.sdk.Swap().GetLiquidityPool(r.Context(),
		opts.ResolveCoin(chi.URLParam(r, "coinX")),
		opts.ResolveCoin(chi.URLParam(r, "coinY")),
	)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reserves)
}

type vaultAmountRequest struct {
	Amount string `json:"amount"`
	Shares string `json:"shares"`
}

type swapRequest struct {
	Path      []string `json:"path"`
	AmountIn  string   `json:"amountIn"`
	MinOut    string   `json:"minOut"`
	AmountOut string   `json:"amountOut"`
	MaxIn     string   `json:"maxIn"`
}

func (h *handlers) payload(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBody))
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: read body: %v", errBadRequest, err))
		return
	}
	payload, err := h.buildPayload(kind, body)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handlers) buildPayload(kind string, body []byte) (types.EntryFunctionPayload, error) {
	misc, mc, sw := h.sdk.Misc(), h.sdk.MasterChef(), h.sdk.Swap()
	switch kind {
	case "airdrop-claim":
		return misc.ClaimAirdropPayload(), nil
	case "vault-deposit":
		var req vaultAmountRequest
		if err := decodeBody(body, &req); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		if err := required("amount", req.Amount); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return misc.AutoFinDepositPayload(req.Amount), nil
	case "vault-withdraw":
		var req vaultAmountRequest
		if err := decodeBody(body, &req); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		if err := required("shares", req.Shares); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return misc.AutoFinWithdrawPayload(req.Shares), nil
	case "vault-withdraw-all":
		return misc.AutoFinWithdrawAllPayload(), nil
	case "vault-harvest":
		return misc.AutoFinHarvestPayload(), nil
	case "masterchef-register":
		return mc.RegisterFINPayload(), nil
	case "masterchef-stake-lp":
		var params masterchef.StakeLPCoinParams
		if err := decodeBody(body, &params); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return badRequestOnError(mc.StakeLPCoinPayload(params))
	case "masterchef-stake-fin":
		var params masterchef.StakeFINParams
		if err := decodeBody(body, &params); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return badRequestOnError(mc.StakeFINPayload(params))
	case "swap-add-liquidity":
		var params swap.AddLiquidityParams
		if err := decodeBody(body, &params); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return badRequestOnError(sw.AddLiquidityPayload(params))
	case "swap-remove-liquidity":
		var params swap.RemoveLiquidityParams
		if err := decodeBody(body, &params); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return badRequestOnError(sw.RemoveLiquidityPayload(params))
	case "swap-exact-in":
		var req swapRequest
		if err := decodeBody(body, &req); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return badRequestOnError(sw.SwapExactInPayload(req.Path, req.AmountIn, req.MinOut))
	case "swap-exact-out":
		var req swapRequest
		if err := decodeBody(body, &req); err != nil {
			return types.EntryFunctionPayload{}, err
		}
		return badRequestOnError(sw.SwapExactOutPayload(req.Path, req.AmountOut, req.MaxIn))
	default:
		return types.EntryFunctionPayload{}, fmt.Errorf("%w: unknown payload kind %q", errBadRequest, kind)
	}
}

func decodeBody(body []byte, v interface{}) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return fmt.Errorf("%w: request body required", errBadRequest)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s required", errBadRequest, field)
	}
	return nil
}

// badRequestOnError marks payload builder failures as caller errors.
func badRequestOnError(payload types.EntryFunctionPayload, err error) (types.EntryFunctionPayload, error) {
	if err != nil && !errors.Is(err, errBadRequest) {
		return payload, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return payload, err
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var apiErr *resources.APIError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, swap.ErrInvalidPath):
		return http.StatusBadRequest
	case errors.Is(err, resources.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, vault.ErrZeroTotalShares),
		errors.Is(err, vault.ErrFeeOutOfRange),
		errors.Is(err, swap.ErrInsufficientAmount),
		errors.Is(err, swap.ErrInsufficientLiquidity),
		errors.Is(err, swap.ErrFeeOutOfRange),
		errors.Is(err, swap.ErrPaused):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
