package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
)

// Condition is the on-chain grading value attached to a card token.
type Condition uint8

const (
	ConditionUnknown Condition = iota
	ConditionPoor
	ConditionPlayed
	ConditionGood
	ConditionNearMint
	ConditionMint
	ConditionGraded
)

var conditionNames = []string{"UNKNOWN", "POOR", "PLAYED", "GOOD", "NEAR_MINT", "MINT", "GRADED"}

func (c Condition) String() string {
	if int(c) >= len(conditionNames) {
		return "?"
	}
	return conditionNames[c]
}

func (c Condition) Valid() bool {
	return int(c) < len(conditionNames)
}

type Card struct {
	TokenId   uint64         `json:"tokenId"`
	Owner     common.Address `json:"owner"`
	Game      string         `json:"game"`
	Expansion string         `json:"expansion"`
	Number    uint64         `json:"number"`
	Rarity    string         `json:"rarity"`
	Condition Condition      `json:"condition"`
	UpdatedAt uint64         `json:"updatedAt"`
}

func (c Card) Slug() string {
	return CreateCardSlug(c.TokenId, c.Expansion)
}

func CreateCardSlug(tokenId uint64, expansion string) string {
	return slug.Make(fmt.Sprintf("card-%d-%s", tokenId, expansion))
}

// AssetKey is the artwork lookup key, e.g. "OP09-001". Expansion casing is
// preserved so the key matches the files as published.
func (c Card) AssetKey() string {
	return AssetKey(c.Expansion, c.Number)
}

func AssetKey(expansion string, number uint64) string {
	return fmt.Sprintf("%s-%03d", expansion, number)
}
