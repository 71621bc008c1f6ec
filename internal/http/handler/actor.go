package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Open-AIP/OpenAIP-sub005/internal/model"
)

// Actor descriptor headers. Authentication and session mechanics live
// outside this service; the gateway resolves the caller and forwards the
// descriptor on these headers.
const (
	ActorIDHeader        = "X-Actor-ID"
	ActorRoleHeader      = "X-Actor-Role"
	ActorScopeKindHeader = "X-Actor-Scope-Kind"
	ActorScopeIDHeader   = "X-Actor-Scope-ID"
)

// actorFromRequest builds the actor descriptor from request headers.
func actorFromRequest(c *fiber.Ctx) (model.Actor, error) {
	id := c.Get(ActorIDHeader)
	role := model.Role(c.Get(ActorRoleHeader))
	if id == "" || role == "" {
		return model.Actor{}, fmt.Errorf("actor headers are required")
	}
	switch role {
	case model.RoleCitizen, model.RoleBarangayOfficial, model.RoleCityOfficial,
		model.RoleMunicipalOfficial, model.RoleAdmin:
	default:
		return model.Actor{}, fmt.Errorf("unknown actor role %q", role)
	}

	actor := model.Actor{UserID: id, Role: role}
	kind := c.Get(ActorScopeKindHeader)
	scopeID := c.Get(ActorScopeIDHeader)
	if kind != "" || scopeID != "" {
		actor.Scope = model.ScopeRef{Kind: model.ScopeKind(kind), ID: scopeID}
		if err := actor.Scope.Validate(); err != nil {
			return model.Actor{}, err
		}
	}
	return actor, nil
}
