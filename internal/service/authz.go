package service

import (
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Actor is the identity a request acts as. The zero value is an
// anonymous caller.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

// Anonymous reports whether the actor carries no identity.
func (a Actor) Anonymous() bool {
	return a.ID == uuid.Nil
}

// Gate performs the capability checks wrapping every mutating or
// sensitive-read operation. Every denial is logged with the actor and
// the attempted target before the error propagates; no mutation happens
// past a denial.
type Gate struct {
	logger zerolog.Logger
}

// NewGate creates the shared authorization gate.
func NewGate(logger zerolog.Logger) *Gate {
	return &Gate{
		logger: logger.With().Str("service", "authz").Logger(),
	}
}

// RequireAdmin allows admin actors only.
func (g *Gate) RequireAdmin(actor Actor, operation string) error {
	if actor.Admin {
		return nil
	}
	g.deny(actor, uuid.Nil, operation)
	return model.ErrUnauthorized
}

// RequireSelfOrAdmin allows the target identity itself or any admin.
func (g *Gate) RequireSelfOrAdmin(actor Actor, target uuid.UUID, operation string) error {
	if actor.Admin {
		return nil
	}
	if !actor.Anonymous() && actor.ID == target {
		return nil
	}
	g.deny(actor, target, operation)
	return model.ErrUnauthorized
}

// RequireSelf allows only the target identity itself; admins acting on
// behalf of others are denied.
func (g *Gate) RequireSelf(actor Actor, target uuid.UUID, operation string) error {
	if !actor.Anonymous() && actor.ID == target {
		return nil
	}
	g.deny(actor, target, operation)
	return model.ErrUnauthorized
}

func (g *Gate) deny(actor Actor, target uuid.UUID, operation string) {
	event := g.logger.Warn().
		Str("actor_id", actor.ID.String()).
		Bool("actor_admin", actor.Admin).
		Str("operation", operation)
	if target != uuid.Nil {
		event = event.Str("target_id", target.String())
	}
	event.Msg("authorization denied")
}
