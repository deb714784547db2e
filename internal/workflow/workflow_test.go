package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainMonotonicity(t *testing.T) {
	cases := []struct {
		entity EntityType
		chain  []Status
	}{
		{EntitySale, []Status{StatusPending, StatusAccountantApproved, StatusManagerApproved, StatusDirectorApproved}},
		{EntityExpense, []Status{StatusPending, StatusAccountantApproved, StatusManagerApproved, StatusDirectorApproved}},
		{EntityPurchaseOrder, []Status{StatusPending, StatusManagerApproved, StatusDirectorApproved}},
		{EntityFuelEntry, []Status{StatusSubmitted, StatusApprovedByAccountant, StatusApprovedByManager}},
	}

	for _, tc := range cases {
		t.Run(string(tc.entity), func(t *testing.T) {
			cur, err := InitialStatus(tc.entity)
			require.NoError(t, err)
			require.Equal(t, tc.chain[0], cur)

			// Walk the chain one step at a time.
			for i := 1; i < len(tc.chain); i++ {
				next, ok := NextStatus(tc.entity, cur)
				require.True(t, ok, "step %d should exist", i)
				assert.Equal(t, tc.chain[i], next)
				cur = next
			}

			// One more application must not move past the terminal state.
			_, ok := NextStatus(tc.entity, cur)
			assert.False(t, ok)
			assert.True(t, IsTerminal(tc.entity, cur))

			final, err := FinalStatus(tc.entity)
			require.NoError(t, err)
			assert.Equal(t, tc.chain[len(tc.chain)-1], final)
		})
	}
}

func TestAdvanceRequiresCorrectActor(t *testing.T) {
	// A manager cannot take the accountant's step.
	_, err := Advance(EntitySale, StatusPending, RoleManager)
	assert.ErrorIs(t, err, ErrWrongActor)

	// The right actor succeeds.
	next, err := Advance(EntitySale, StatusPending, RoleAccountant)
	require.NoError(t, err)
	assert.Equal(t, StatusAccountantApproved, next)

	// Purchase orders skip the accountant entirely.
	_, err = Advance(EntityPurchaseOrder, StatusPending, RoleAccountant)
	assert.ErrorIs(t, err, ErrWrongActor)
	next, err = Advance(EntityPurchaseOrder, StatusPending, RoleManager)
	require.NoError(t, err)
	assert.Equal(t, StatusManagerApproved, next)

	// Cashiers never approve anything.
	for _, role := range []Role{RoleFuelCashier, RoleSupermarketCashier, RoleRestaurantCashier} {
		_, err := Advance(EntityExpense, StatusPending, role)
		assert.ErrorIs(t, err, ErrWrongActor)
	}
}

func TestRejectionIsTerminal(t *testing.T) {
	// Rejection is allowed from every non-terminal state.
	for _, s := range []Status{StatusPending, StatusAccountantApproved, StatusManagerApproved} {
		assert.NoError(t, Reject(EntitySale, s, "duplicate receipt"))
	}

	// ... but never from a terminal one.
	assert.ErrorIs(t, Reject(EntitySale, StatusDirectorApproved, "too late"), ErrTerminalStatus)
	assert.ErrorIs(t, Reject(EntitySale, StatusRejected, "again"), ErrTerminalStatus)

	// And a rejected entity cannot be advanced either.
	_, err := Advance(EntitySale, StatusRejected, RoleDirector)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestRejectRequiresReason(t *testing.T) {
	assert.ErrorIs(t, Reject(EntityExpense, StatusPending, ""), ErrReasonRequired)
}

func TestFuelEntryRejection(t *testing.T) {
	// Fuel entries share the generic rejection rule despite their own
	// approval vocabulary.
	assert.NoError(t, Reject(EntityFuelEntry, StatusSubmitted, "meter mismatch"))
	assert.NoError(t, Reject(EntityFuelEntry, StatusApprovedByAccountant, "meter mismatch"))
	assert.ErrorIs(t, Reject(EntityFuelEntry, StatusApprovedByManager, "x"), ErrTerminalStatus)
}

func TestUnknownStatusRejected(t *testing.T) {
	_, err := Advance(EntitySale, Status("shipped"), RoleAccountant)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	// Fuel vocabulary does not leak into sales.
	_, err = Advance(EntitySale, StatusSubmitted, RoleAccountant)
	assert.ErrorIs(t, err, ErrUnknownStatus)

	// An unknown entity type wins over any status, even the shared
	// terminal one.
	_, err = Advance(EntityType("delivery"), StatusRejected, RoleAccountant)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestQueueStatus(t *testing.T) {
	s, ok := QueueStatus(EntityExpense, RoleManager)
	require.True(t, ok)
	assert.Equal(t, StatusAccountantApproved, s)

	s, ok = QueueStatus(EntityExpense, RoleDirector)
	require.True(t, ok)
	assert.Equal(t, StatusManagerApproved, s)

	s, ok = QueueStatus(EntityFuelEntry, RoleAccountant)
	require.True(t, ok)
	assert.Equal(t, StatusSubmitted, s)

	// Directors have no stage on the fuel-entry chain.
	_, ok = QueueStatus(EntityFuelEntry, RoleDirector)
	assert.False(t, ok)
}
