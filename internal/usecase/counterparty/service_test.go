package counterparty

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
)

func newService(t *testing.T, initial int) (*CounterpartyService, *progression.Machine) {
	t.Helper()
	ctx := context.Background()
	machine := progression.NewMachine(ctx, nil, "", nil)
	machine.Set(ctx, initial)
	return NewCounterpartyService(machine), machine
}

func TestSubmitBankApplication(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		want    domain.PrototypeState
	}{
		{name: "no counterparty moves to under review", initial: 1, want: domain.StateUnderReview},
		{name: "under review stays", initial: 2, want: domain.StateUnderReview},
		{name: "approved is not rolled back", initial: 3, want: domain.StateApproved},
		{name: "payment sent is not rolled back", initial: 5, want: domain.StatePaymentSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, machine := newService(t, tt.initial)

			got := service.SubmitBankApplication(context.Background())

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, machine.Get())
		})
	}
}

func TestVerifyCounterparty_FromUnderReview(t *testing.T) {
	service, machine := newService(t, 2)

	var notified []domain.PrototypeState
	machine.Subscribe(func(state domain.PrototypeState) { notified = append(notified, state) })

	got, err := service.VerifyCounterparty(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.StateApproved, got)
	assert.Equal(t, []domain.PrototypeState{domain.StateUnderReview, domain.StateApproved}, notified)
}

func TestVerifyCounterparty_RejectedOutsideReview(t *testing.T) {
	for _, initial := range []int{1, 3, 4, 5} {
		service, machine := newService(t, initial)

		got, err := service.VerifyCounterparty(context.Background())

		assert.ErrorIs(t, err, domain.ErrTransitionNotAllowed)
		assert.Equal(t, domain.PrototypeState(initial), got)
		assert.Equal(t, domain.PrototypeState(initial), machine.Get())
	}
}

func TestVerifyCounterparty_ConcurrentCallsApproveOnce(t *testing.T) {
	service, machine := newService(t, 2)

	var notified atomic.Int32
	machine.Subscribe(func(state domain.PrototypeState) {
		if state == domain.StateApproved {
			notified.Add(1)
		}
	})

	var succeeded atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.VerifyCounterparty(context.Background()); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(1), notified.Load())
	assert.Equal(t, domain.StateApproved, machine.Get())
}
