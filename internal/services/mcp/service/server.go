package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund/internal/platform/branding"
	"github.com/louisbranch/crowdfund/internal/platform/timeouts"
	ledgerapp "github.com/louisbranch/crowdfund/internal/services/ledger/app"
	ledgerservice "github.com/louisbranch/crowdfund/internal/services/ledger/service"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage"
	"github.com/louisbranch/crowdfund/internal/services/mcp/domain"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// Transport kinds accepted by Run.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the MCP server configuration.
type Config struct {
	// Transport selects stdio or http.
	Transport string
	// HTTPAddr is the listen address for the http transport.
	HTTPAddr string
	// StorageDriver and DBPath select the campaign store backend shared
	// with the ledger service.
	StorageDriver string
	DBPath        string
}

// Server binds the ledger tools and resources to an MCP server instance and
// owns the backing store lifecycle.
type Server struct {
	mcpServer *mcp.Server
	store     storage.Store
}

// New opens the campaign store and builds a registered MCP server.
func New(ctx context.Context, cfg Config) (*Server, error) {
	store, err := ledgerapp.OpenStore(ctx, cfg.StorageDriver, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	server := newServer(ledgerservice.NewCampaignService(store))
	server.store = store
	return server, nil
}

// newServer registers the tool and resource handlers over the given service.
func newServer(svc *ledgerservice.CampaignService) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    strings.ToLower(branding.AppName),
		Version: serverVersion,
	}, nil)

	mcp.AddTool(mcpServer, domain.CampaignCreateTool(), domain.CampaignCreateHandler(svc))
	mcp.AddTool(mcpServer, domain.CampaignUpdateTool(), domain.CampaignUpdateHandler(svc))
	mcp.AddTool(mcpServer, domain.CampaignDeleteTool(), domain.CampaignDeleteHandler(svc))
	mcp.AddTool(mcpServer, domain.CampaignGetTool(), domain.CampaignGetHandler(svc))
	mcp.AddTool(mcpServer, domain.CampaignListTool(), domain.CampaignListHandler(svc))
	mcp.AddTool(mcpServer, domain.CampaignStatusTool(), domain.CampaignStatusHandler(svc))
	mcp.AddTool(mcpServer, domain.DonateTool(), domain.DonateHandler(svc))
	mcp.AddTool(mcpServer, domain.DeadlineGetTool(), domain.DeadlineGetHandler(svc))
	mcp.AddTool(mcpServer, domain.DeadlineUpdateTool(), domain.DeadlineUpdateHandler(svc))
	mcp.AddTool(mcpServer, domain.DonorListTool(), domain.DonorListHandler(svc))
	mcp.AddTool(mcpServer, domain.DonorAddTool(), domain.DonorAddHandler(svc))

	mcpServer.AddResource(domain.CampaignListResource(), domain.CampaignListResourceHandler(svc))
	mcpServer.AddResourceTemplate(domain.CampaignDonorsResourceTemplate(), domain.CampaignDonorsResourceHandler(svc))
	mcpServer.AddResourceTemplate(domain.CampaignResourceTemplate(), domain.CampaignResourceHandler(svc))

	return &Server{mcpServer: mcpServer}
}

// Close releases the backing store.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// serveWithTransport runs the MCP server on the provided transport until it
// stops or the context ends. Context cancellation is a clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// Run opens the store and serves MCP on the configured transport, blocking
// until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}

	transport := cfg.Transport
	if transport == "" {
		transport = TransportStdio
	}
	switch transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		_ = server.Close()
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// serveHTTP exposes the MCP server over the streamable HTTP transport until
// context cancellation.
func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		// Localhost-only by default; remote exposure is an explicit choice.
		addr = "localhost:8081"
	}
	defer func() {
		_ = s.Close()
	}()

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
