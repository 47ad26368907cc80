// Package resources reads typed account resources from a fullnode.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"financer/core/types"
)

// ErrResourceNotFound reports that the account or the requested resource does
// not exist on chain. It is a recoverable condition distinct from transport
// and decoding failures; match it with errors.Is.
var ErrResourceNotFound = errors.New("resources: resource not found")

// RawResource is a resource whose data payload has not been decoded yet.
type RawResource = types.Resource[json.RawMessage]

// Accessor performs side-effect free point reads of account resources.
type Accessor interface {
	// AccountResource returns a single resource or an error wrapping
	// ErrResourceNotFound when it is absent.
	AccountResource(ctx context.Context, address, resourceType string) (RawResource, error)
	// AccountResources lists every resource held by an account.
	AccountResources(ctx context.Context, address string) ([]RawResource, error)
}

// Fetch reads a resource and decodes its data payload into T.
func Fetch[T any](ctx context.Context, acc Accessor, address, resourceType string) (*types.Resource[T], error) {
	if acc == nil {
		return nil, fmt.Errorf("resources: accessor required")
	}
	raw, err := acc.AccountResource(ctx, address, resourceType)
	if err != nil {
		return nil, err
	}
	return decode[T](raw)
}

// FetchAll lists the account resources whose type starts with prefix and
// decodes each data payload into T. An absent account yields an empty slice.
func FetchAll[T any](ctx context.Context, acc Accessor, address, prefix string) ([]types.Resource[T], error) {
	if acc == nil {
		return nil, fmt.Errorf("resources: accessor required")
	}
	raws, err := acc.AccountResources(ctx, address)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return []types.Resource[T]{}, nil
		}
		return nil, err
	}
	out := make([]types.Resource[T], 0, len(raws))
	for _, raw := range raws {
		if !strings.HasPrefix(raw.Type, prefix) {
			continue
		}
		decoded, err := decode[T](raw)
		if err != nil {
			return nil, err
		}
		out = append(out, *decoded)
	}
	return out, nil
}

func decode[T any](raw RawResource) (*types.Resource[T], error) {
	var data T
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return nil, fmt.Errorf("resources: decode %s: %w", raw.Type, err)
		}
	}
	return &types.Resource[T]{Type: raw.Type, Data: data}, nil
}
