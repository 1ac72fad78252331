package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"worlds/internal/schema"
	"worlds/internal/store"
)

type Server struct {
	registry *schema.Registry
	db       store.Store
	mcp      *sdk.Server
}

func NewServer(registry *schema.Registry, db store.Store, version string) *Server {
	s := &Server{
		registry: registry,
		db:       db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "worlds",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
