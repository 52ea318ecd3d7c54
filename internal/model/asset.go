package model

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AssetKind discriminates the closed set of asset variants.
type AssetKind uint8

const (
	// AssetNative is the host chain's intrinsic currency, represented by the
	// zero-address sentinel and moved via value attachment.
	AssetNative AssetKind = iota
	// AssetToken is a standard fungible token identified by its contract address.
	AssetToken
)

// Asset is either the native currency or a fungible token.
// Two assets are equal iff their canonical addresses are equal.
type Asset struct {
	Kind  AssetKind
	Token common.Address
}

// NativeAsset returns the native-currency asset.
func NativeAsset() Asset {
	return Asset{Kind: AssetNative}
}

// TokenAsset returns the asset for a token contract address. The zero
// address is the native sentinel and maps to the native variant.
func TokenAsset(addr common.Address) Asset {
	if addr == (common.Address{}) {
		return NativeAsset()
	}
	return Asset{Kind: AssetToken, Token: addr}
}

// ParseAsset decodes "native" or a hex token address.
func ParseAsset(s string) (Asset, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "native") {
		return NativeAsset(), nil
	}
	if !common.IsHexAddress(s) {
		return Asset{}, fmt.Errorf("invalid asset %q: want \"native\" or a hex address", s)
	}
	return TokenAsset(common.HexToAddress(s)), nil
}

// IsNative reports whether the asset is the native currency.
func (a Asset) IsNative() bool {
	return a.Kind == AssetNative
}

// Address returns the canonical address: the zero address for native,
// the contract address for tokens.
func (a Asset) Address() common.Address {
	if a.Kind == AssetNative {
		return common.Address{}
	}
	return a.Token
}

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Token.Hex()
}
