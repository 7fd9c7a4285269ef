package entity

// CapabilitySet holds the role flags resolved for the session account. It is
// purely derived state: discarded and recomputed per account, never cached
// across accounts.
type CapabilitySet struct {
	IsAdmin     bool `json:"isAdmin"`
	IsMinter    bool `json:"isMinter"`
	IsInspector bool `json:"isInspector"`
}

func (c CapabilitySet) CanMint() bool {
	return c.IsMinter
}
