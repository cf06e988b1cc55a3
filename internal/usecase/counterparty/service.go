package counterparty

import (
	"context"

	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
)

// CounterpartyService drives the counterparty onboarding part of the prototype progression
type CounterpartyService struct {
	Machine *progression.Machine
}

// NewCounterpartyService creates a new CounterpartyService instance
func NewCounterpartyService(machine *progression.Machine) *CounterpartyService {
	return &CounterpartyService{
		Machine: machine,
	}
}

// SubmitBankApplication records that a receiver bank account was submitted for review.
// Logic:
//  1. If no counterparty exists yet (state 1), move to Under review (state 2)
//  2. Later states are left untouched; resubmitting never rolls progress back
func (s *CounterpartyService) SubmitBankApplication(ctx context.Context) domain.PrototypeState {
	state, _ := s.Machine.Update(ctx, func(current domain.PrototypeState) (int, bool) {
		return int(domain.StateUnderReview), current < domain.StateUnderReview
	})
	return state
}

// VerifyCounterparty approves a counterparty that is under review
func (s *CounterpartyService) VerifyCounterparty(ctx context.Context) (domain.PrototypeState, error) {
	state, ok := s.Machine.Update(ctx, func(current domain.PrototypeState) (int, bool) {
		return int(domain.StateApproved), current == domain.StateUnderReview
	})
	if !ok {
		return state, domain.ErrTransitionNotAllowed
	}
	return state, nil
}
