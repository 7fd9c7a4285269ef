package wallet

import (
	"errors"
)

var (
	// ErrWalletUnavailable means no signing account could be found: empty
	// keystore or unreachable endpoint.
	ErrWalletUnavailable = errors.New("wallet unavailable")

	// ErrUserRejected means the signer refused to authorise the operation,
	// e.g. a locked account or a declined passphrase.
	ErrUserRejected = errors.New("user rejected")

	// ErrNotConnected means an operation needing a session ran before
	// Connect or after Disconnect.
	ErrNotConnected = errors.New("not connected")
)
