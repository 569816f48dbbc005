package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
	"github.com/louisbranch/crowdfund/internal/services/ledger/storage/memory"
	"github.com/louisbranch/crowdfund/internal/services/mcp/domain"
)

// connectTestSession runs a registered server over in-memory transports and
// returns a connected client session.
func connectTestSession(t *testing.T, now time.Time) *mcp.ClientSession {
	t.Helper()

	svc := service.NewCampaignService(memory.New(),
		service.WithClock(func() time.Time { return now }),
	)
	server := newServer(svc)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
	})

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer connectCancel()
	session, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, arguments map[string]any) *mcp.CallToolResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		t.Fatalf("call tool %s: %v", name, err)
	}
	return result
}

func structuredResult[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()

	var decoded T
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	return decoded
}

func TestServerRegistersLedgerTools(t *testing.T) {
	session := connectTestSession(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	listed, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}

	found := map[string]bool{}
	for _, tool := range listed.Tools {
		found[tool.Name] = true
	}
	for _, want := range []string{
		"campaign_create", "campaign_update", "campaign_delete",
		"campaign_get", "campaign_list", "campaign_status",
		"campaign_donate", "campaign_deadline_get", "campaign_deadline_update",
		"campaign_donors", "campaign_donor_add",
	} {
		if !found[want] {
			t.Errorf("expected tool %s to be registered", want)
		}
	}
}

func TestCampaignLifecycleOverMCP(t *testing.T) {
	session := connectTestSession(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	created := structuredResult[domain.CampaignResult](t, callTool(t, session, "campaign_create", map[string]any{
		"proposer":      "proposer-1",
		"title":         "Community Well",
		"description":   "Dig a well for the north district",
		"goal":          100,
		"deadline_days": 1,
	}))
	if created.ID == "" {
		t.Fatal("expected assigned campaign id")
	}

	donated := structuredResult[domain.CampaignResult](t, callTool(t, session, "campaign_donate", map[string]any{
		"campaign_id": created.ID,
		"donor":       "donor-1",
		"amount":      50,
	}))
	if donated.TotalDonations != 50 {
		t.Fatalf("expected total 50, got %d", donated.TotalDonations)
	}

	rejected := callTool(t, session, "campaign_donate", map[string]any{
		"campaign_id": created.ID,
		"donor":       "donor-2",
		"amount":      60,
	})
	if !rejected.IsError {
		t.Fatal("expected over-goal donation to fail")
	}

	status := structuredResult[domain.CampaignStatusResult](t, callTool(t, session, "campaign_status", map[string]any{
		"campaign_id": created.ID,
	}))
	if status.GoalReached {
		t.Fatal("expected goal not reached at 50/100")
	}
	if status.Ended {
		t.Fatal("expected campaign still running")
	}
}

func TestCampaignResourceOverMCP(t *testing.T) {
	session := connectTestSession(t, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	created := structuredResult[domain.CampaignResult](t, callTool(t, session, "campaign_create", map[string]any{
		"proposer":      "proposer-1",
		"title":         "Community Well",
		"description":   "Dig a well for the north district",
		"goal":          100,
		"deadline_days": 1,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	result, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "campaign://list"})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content entry, got %d", len(result.Contents))
	}
	if !strings.Contains(result.Contents[0].Text, created.ID) {
		t.Fatalf("expected campaign id in listing, got %s", result.Contents[0].Text)
	}
}

func TestRunUnsupportedTransport(t *testing.T) {
	err := Run(context.Background(), Config{
		Transport:     "carrier-pigeon",
		StorageDriver: "memory",
	})
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
}
