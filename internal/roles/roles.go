package roles

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Role identifiers are fixed, well-known hashes: the zero hash for the
// default admin role, keccak of the literal role name for the others.
var (
	DefaultAdminRole = [32]byte{}
	MinterRole       = roleId("MINTER_ROLE")
	InspectorRole    = roleId("INSPECTOR_ROLE")
)

func roleId(name string) [32]byte {
	return crypto.Keccak256Hash([]byte(name))
}

// ById maps a role name as entered by an admin to its identifier.
func ById(name string) ([32]byte, bool) {
	switch name {
	case "DEFAULT_ADMIN_ROLE", "ADMIN":
		return DefaultAdminRole, true
	case "MINTER_ROLE", "MINTER":
		return MinterRole, true
	case "INSPECTOR_ROLE", "INSPECTOR":
		return InspectorRole, true
	}

	return [32]byte{}, false
}
