package sdk

import "strings"

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainContract AddressDomain = "contract"
	AddressDomainSystem   AddressDomain = "system"
)

type AddressType string

const (
	AddressTypeEVM      AddressType = "evm"
	AddressTypeKey      AddressType = "key"
	AddressTypeHive     AddressType = "hive"
	AddressTypeContract AddressType = "contract"
	AddressTypeSystem   AddressType = "system"
	AddressTypeUnknown  AddressType = "unknown"
)

// Address identifies an account on the ledger, either a user wallet (hive:alice,
// did:pkh:eip155:...) or a contract-owned account (contract:wb-sale-0-1).
type Address string

// ZeroAddress is never a valid owner, beneficiary or recipient.
const ZeroAddress Address = ""

// String returns the literal representation (like hive:alice) of the address.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Domain checks the prefix to tell user, contract and system accounts apart.
func (a Address) Domain() AddressDomain {
	if strings.HasPrefix(a.String(), "system:") {
		return AddressDomainSystem
	}
	if strings.HasPrefix(a.String(), "contract:") {
		return AddressDomainContract
	}
	return AddressDomainUser
}

// Type inspects the prefix to categorize the address (evm, key, hive, ...).
func (a Address) Type() AddressType {
	switch {
	case strings.HasPrefix(a.String(), "did:pkh:eip155"):
		return AddressTypeEVM
	case strings.HasPrefix(a.String(), "did:key:"):
		return AddressTypeKey
	case strings.HasPrefix(a.String(), "hive:"):
		return AddressTypeHive
	case strings.HasPrefix(a.String(), "contract:"):
		return AddressTypeContract
	case strings.HasPrefix(a.String(), "system:"):
		return AddressTypeSystem
	default:
		return AddressTypeUnknown
	}
}

// IsValid is a light sanity check used before crediting an account.
func (a Address) IsValid() bool {
	return !a.IsZero() && a.Type() != AddressTypeUnknown
}

// ContractAddress builds a contract-domain address from a name.
func ContractAddress(name string) Address {
	return Address("contract:" + name)
}
