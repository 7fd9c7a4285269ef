package event

type Type string

const (
	SessionChangedEvent Type = "SessionChangedEvent"
	RolesChangedEvent   Type = "RolesChangedEvent"
	CardsChangedEvent   Type = "CardsChangedEvent"
	ListingChangedEvent Type = "ListingChangedEvent"
	SwapChangedEvent    Type = "SwapChangedEvent"
)
