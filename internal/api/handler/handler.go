package handler

import (
	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/chathub"
)

// Handler wires the HTTP surface to the domain operations and the
// broadcast registry. HTTP callers go through the exact same domain
// code as live sessions; the only difference is who triggers the
// broadcast.
type Handler struct {
	Ops      *chat.Service
	Registry *chathub.Registry

	jwtSecret []byte
}

func NewHandler(ops *chat.Service, registry *chathub.Registry, jwtSecret string) *Handler {
	return &Handler{
		Ops:       ops,
		Registry:  registry,
		jwtSecret: []byte(jwtSecret),
	}
}
