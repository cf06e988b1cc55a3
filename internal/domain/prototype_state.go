package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PrototypeState is the checkpoint of the simulated user journey.
// It selects which mocked data (counterparty status, transactions, payment status) is shown.
type PrototypeState int

const (
	StateNoCounterparty   PrototypeState = 1
	StateUnderReview      PrototypeState = 2
	StateApproved         PrototypeState = 3
	StatePaymentSubmitted PrototypeState = 4
	StatePaymentSent      PrototypeState = 5

	MinPrototypeState = StateNoCounterparty
	MaxPrototypeState = StatePaymentSent
)

// DefaultPrototypeStateKey is the storage key the state is persisted under
const DefaultPrototypeStateKey = "xrexb2b.state.v1"

var prototypeStateLabels = map[PrototypeState]string{
	StateNoCounterparty:   "No counterparty",
	StateUnderReview:      "Under review",
	StateApproved:         "Approved",
	StatePaymentSubmitted: "Payment submitted",
	StatePaymentSent:      "Payment sent",
}

// ClampPrototypeState forces any integer into [MinPrototypeState, MaxPrototypeState]
func ClampPrototypeState(value int) PrototypeState {
	if value < int(MinPrototypeState) {
		return MinPrototypeState
	}
	if value > int(MaxPrototypeState) {
		return MaxPrototypeState
	}
	return PrototypeState(value)
}

// ParsePrototypeState parses a stored or user-supplied value the way parseInt does:
// the leading integer prefix is used ("4.7" and "3abc" read as 4 and 3) and clamped.
// Input without a leading integer is coerced to MinPrototypeState.
func ParsePrototypeState(raw string) PrototypeState {
	trimmed := strings.TrimSpace(raw)
	end := 0
	if end < len(trimmed) && (trimmed[end] == '-' || trimmed[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return MinPrototypeState
	}

	n, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		// Out of int range: only the sign matters once clamped
		if trimmed[0] == '-' {
			return MinPrototypeState
		}
		return MaxPrototypeState
	}
	return ClampPrototypeState(n)
}

// PrototypeStateLabel returns the human-readable label, or "" for unknown values
func PrototypeStateLabel(value int) string {
	return prototypeStateLabels[PrototypeState(value)]
}

// Label returns the human-readable label of the state
func (s PrototypeState) Label() string {
	return PrototypeStateLabel(int(s))
}

// Attribute is the value reflected on the document root for CSS hooks (e.g. "state-3")
func (s PrototypeState) Attribute() string {
	return fmt.Sprintf("state-%d", int(s))
}

// StateChange is broadcast to decoupled consumers whenever the prototype state changes
type StateChange struct {
	State     PrototypeState
	Label     string
	Attribute string
	ChangedAt time.Time
}
