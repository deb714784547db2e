// Package workflow holds the approval state machine shared by sales,
// expenses, purchase orders and fuel entries. Statuses are the literal wire
// strings the dashboards compare against, so they must never change.
package workflow

import (
	"errors"
	"fmt"
)

// EntityType names one of the four record kinds that travel a chain.
type EntityType string

const (
	EntitySale          EntityType = "sale"
	EntityExpense       EntityType = "expense"
	EntityPurchaseOrder EntityType = "purchase_order"
	EntityFuelEntry     EntityType = "fuel_entry"
)

// Status is a workflow state. The values are compared by exact string match
// everywhere, including the frontend.
type Status string

const (
	StatusPending            Status = "pending"
	StatusAccountantApproved Status = "accountant_approved"
	StatusManagerApproved    Status = "manager_approved"
	StatusDirectorApproved   Status = "director_approved"
	StatusRejected           Status = "rejected"

	// Fuel entries use their own vocabulary.
	StatusSubmitted            Status = "submitted"
	StatusApprovedByAccountant Status = "approved_by_accountant"
	StatusApprovedByManager    Status = "approved_by_manager"
)

// Role is a staff role as stored on the profile.
type Role string

const (
	RoleDirector           Role = "director"
	RoleManager            Role = "manager"
	RoleAccountant         Role = "accountant"
	RoleFuelCashier        Role = "fuel_cashier"
	RoleSupermarketCashier Role = "supermarket_cashier"
	RoleRestaurantCashier  Role = "restaurant_cashier"
)

var (
	ErrTerminalStatus = errors.New("workflow: status is terminal, no further transitions")
	ErrWrongActor     = errors.New("workflow: actor role may not perform this transition")
	ErrUnknownStatus  = errors.New("workflow: status not in this entity's vocabulary")
	ErrUnknownEntity  = errors.New("workflow: unknown entity type")
	ErrReasonRequired = errors.New("workflow: rejection requires a reason")
)

// stage is one edge in a chain: who moves the entity, and to where.
type stage struct {
	From  Status
	To    Status
	Actor Role
}

// chains is the whole state machine. Every entity of a type follows the
// identical chain - there is no branching by amount or department.
var chains = map[EntityType][]stage{
	EntitySale: {
		{StatusPending, StatusAccountantApproved, RoleAccountant},
		{StatusAccountantApproved, StatusManagerApproved, RoleManager},
		{StatusManagerApproved, StatusDirectorApproved, RoleDirector},
	},
	EntityExpense: {
		{StatusPending, StatusAccountantApproved, RoleAccountant},
		{StatusAccountantApproved, StatusManagerApproved, RoleManager},
		{StatusManagerApproved, StatusDirectorApproved, RoleDirector},
	},
	EntityPurchaseOrder: {
		{StatusPending, StatusManagerApproved, RoleManager},
		{StatusManagerApproved, StatusDirectorApproved, RoleDirector},
	},
	EntityFuelEntry: {
		{StatusSubmitted, StatusApprovedByAccountant, RoleAccountant},
		{StatusApprovedByAccountant, StatusApprovedByManager, RoleManager},
	},
}

// InitialStatus returns the status a freshly created entity starts in.
func InitialStatus(entity EntityType) (Status, error) {
	chain, ok := chains[entity]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return chain[0].From, nil
}

// NextStatus is the pure step function: given the current status it returns
// the next status on the chain. The second return is false when the status
// is terminal (fully approved or rejected) or unknown.
func NextStatus(entity EntityType, current Status) (Status, bool) {
	for _, s := range chains[entity] {
		if s.From == current {
			return s.To, true
		}
	}
	return current, false
}

// IsTerminal reports whether no further transition exists from this status.
func IsTerminal(entity EntityType, current Status) bool {
	if current == StatusRejected {
		return true
	}
	_, ok := NextStatus(entity, current)
	return !ok
}

// Known reports whether the status belongs to this entity's vocabulary.
func Known(entity EntityType, s Status) bool {
	if s == StatusRejected {
		return true
	}
	for _, st := range chains[entity] {
		if st.From == s || st.To == s {
			return true
		}
	}
	return false
}

// Advance validates and computes a one-step approval. The actor-role check
// lives here, in the same layer that performs the transition, so a caller
// that skips the UI gating still cannot move an entity it is not allowed to.
func Advance(entity EntityType, current Status, actor Role) (Status, error) {
	chain, ok := chains[entity]
	if !ok {
		return current, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if current == StatusRejected {
		return current, ErrTerminalStatus
	}
	for _, s := range chain {
		if s.From == current {
			if s.Actor != actor {
				return current, fmt.Errorf("%w: %s requires %s", ErrWrongActor, s.To, s.Actor)
			}
			return s.To, nil
		}
	}
	if Known(entity, current) {
		return current, ErrTerminalStatus
	}
	return current, fmt.Errorf("%w: %q", ErrUnknownStatus, current)
}

// Reject validates a rejection. Allowed from any non-terminal state, needs a
// non-empty reason, and the resulting "rejected" status is terminal.
func Reject(entity EntityType, current Status, reason string) error {
	if _, ok := chains[entity]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if reason == "" {
		return ErrReasonRequired
	}
	if !Known(entity, current) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	}
	if IsTerminal(entity, current) {
		return ErrTerminalStatus
	}
	return nil
}

// QueueStatus returns the status an entity must currently hold for the given
// role to be its next approver. Role dashboards build their action queues by
// filtering on exactly this status, which keeps the manager and director
// queues disjoint by construction.
func QueueStatus(entity EntityType, actor Role) (Status, bool) {
	for _, s := range chains[entity] {
		if s.Actor == actor {
			return s.From, true
		}
	}
	return "", false
}

// FinalStatus returns the fully-approved terminal status for the entity.
func FinalStatus(entity EntityType) (Status, error) {
	chain, ok := chains[entity]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return chain[len(chain)-1].To, nil
}
