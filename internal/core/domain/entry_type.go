package domain

import "fmt"

// EntryType identifies a metadata slot. Its value is the wire type_id.
type EntryType int32

const (
	EntryTypeRoot               EntryType = -1
	EntryTypeWhatsNew           EntryType = 2
	EntryTypeBuySell            EntryType = 3
	EntryTypeContacts           EntryType = 4
	EntryTypeEthereum           EntryType = 5
	EntryTypeShapeShift         EntryType = 6
	EntryTypeBitcoinCash        EntryType = 7
	EntryTypeBitcoinGold        EntryType = 8
	EntryTypeLockbox            EntryType = 9
	EntryTypeUserCredentials    EntryType = 10
	EntryTypeStellar            EntryType = 11
	EntryTypeWalletCredentials  EntryType = 12
	EntryTypeWalletConnect      EntryType = 13
	EntryTypeAccountCredentials EntryType = 14
)

var entryTypeNames = map[EntryType]string{
	EntryTypeRoot:               "root",
	EntryTypeWhatsNew:           "whatsNew",
	EntryTypeBuySell:            "buySell",
	EntryTypeContacts:           "contacts",
	EntryTypeEthereum:           "ethereum",
	EntryTypeShapeShift:         "shapeShift",
	EntryTypeBitcoinCash:        "bitcoinCash",
	EntryTypeBitcoinGold:        "bitcoinGold",
	EntryTypeLockbox:            "lockbox",
	EntryTypeUserCredentials:    "userCredentials",
	EntryTypeStellar:            "stellar",
	EntryTypeWalletCredentials:  "walletCredentials",
	EntryTypeWalletConnect:      "walletConnect",
	EntryTypeAccountCredentials: "accountCredentials",
}

// EntryTypes returns all known entry types but root.
func EntryTypes() []EntryType {
	return []EntryType{
		EntryTypeWhatsNew, EntryTypeBuySell, EntryTypeContacts,
		EntryTypeEthereum, EntryTypeShapeShift, EntryTypeBitcoinCash,
		EntryTypeBitcoinGold, EntryTypeLockbox, EntryTypeUserCredentials,
		EntryTypeStellar, EntryTypeWalletCredentials, EntryTypeWalletConnect,
		EntryTypeAccountCredentials,
	}
}

// NewEntryType returns the entry type for the given type id.
func NewEntryType(typeID int32) (EntryType, error) {
	t := EntryType(typeID)
	if !t.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownEntryType, typeID)
	}
	return t, nil
}

// ParseEntryType returns the entry type with the given name.
func ParseEntryType(name string) (EntryType, error) {
	for t, n := range entryTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEntryType, name)
}

func (t EntryType) IsValid() bool {
	_, ok := entryTypeNames[t]
	return ok
}

// TypeID is the type_id field of the entry on the wire.
func (t EntryType) TypeID() int32 {
	return int32(t)
}

// DerivationIndex is the hardened child index of the entry node. Root lives
// at index 0 of the second password master key.
func (t EntryType) DerivationIndex() uint32 {
	if t == EntryTypeRoot {
		return 0
	}
	return uint32(t)
}

func (t EntryType) String() string {
	if name, ok := entryTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int32(t))
}
