package orchestrator

import (
	"context"
	"errors"
	"strings"

	"github.com/cardnft/card-market-gateway/internal/wallet"
	"github.com/ethereum/go-ethereum/rpc"
)

// State is the lifecycle of a single write action. Every action walks from
// idle through signing and pending to confirmed or failed; there is no retry
// state and no cancellation once a transaction has been submitted.
type State string

const (
	StateIdle      State = "idle"
	StateSigning   State = "signing"
	StatePending   State = "pending_confirmation"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)

// StatusFunc receives a one-line status message on each transition.
type StatusFunc func(state State, message string)

// Result is the terminal outcome of one action.
type Result struct {
	State  State  `json:"state"`
	TxHash string `json:"txHash,omitempty"`
	Reason string `json:"reason,omitempty"`
}

var ErrInvalidInput = errors.New("invalid input")

// shortReason converts a failure into the one-line human-readable form:
// prefer the machine-supplied revert/json-rpc message, fall back to the raw
// error text trimmed to its first line.
func shortReason(err error) string {
	switch {
	case errors.Is(err, wallet.ErrUserRejected):
		return "user rejected"
	case errors.Is(err, wallet.ErrNotConnected):
		return "wallet not connected"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return dataErr.Error()
	}

	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}

	return msg
}
