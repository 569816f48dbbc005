// Package seed populates a campaign store with demo data for local
// development, exercising the same service layer the servers use.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	platformcmd "github.com/louisbranch/crowdfund/internal/platform/cmd"
	"github.com/louisbranch/crowdfund/internal/services/ledger/app"
	"github.com/louisbranch/crowdfund/internal/services/ledger/domain/campaign"
	"github.com/louisbranch/crowdfund/internal/services/ledger/service"
)

// Config holds seed command configuration.
type Config struct {
	StorageDriver string `env:"CROWDFUND_STORAGE_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"CROWDFUND_DB_PATH"        envDefault:"crowdfund.db"`
	Verbose       bool   `env:"CROWDFUND_SEED_VERBOSE"   envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: sqlite, bbolt, or memory")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "database file path for durable drivers")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fixture describes one demo campaign and its donation history.
type fixture struct {
	create    campaign.CreateInput
	donations []campaign.Donor
}

// fixtures are small enough to stay short of every goal, so donation gating
// can still be demonstrated against the seeded data.
func fixtures() []fixture {
	return []fixture{
		{
			create: campaign.CreateInput{
				Proposer:     "ada",
				Title:        "Community Well",
				Description:  "Dig a well for the north district",
				Goal:         5000,
				DeadlineDays: 30,
			},
			donations: []campaign.Donor{
				{ID: "grace", Amount: 1200},
				{ID: "linus", Amount: 800},
			},
		},
		{
			create: campaign.CreateInput{
				Proposer:     "grace",
				Title:        "Library Roof Repair",
				Description:  "Replace the leaking roof before winter",
				Goal:         12000,
				DeadlineDays: 60,
			},
			donations: []campaign.Donor{
				{ID: "ada", Amount: 5000},
				{ID: "ken", Amount: 2500},
				{ID: "dennis", Amount: 1000},
			},
		},
		{
			create: campaign.CreateInput{
				Proposer:     "ken",
				Title:        "Neighborhood Garden",
				Description:  "Seeds, soil, and tools for the shared plot",
				Goal:         900,
				DeadlineDays: 14,
			},
		},
	}
}

// Run seeds the configured store with the demo fixtures, writing a summary
// line per campaign to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSeed, func(ctx context.Context) error {
		store, err := app.OpenStore(ctx, cfg.StorageDriver, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		return seedStore(ctx, service.NewCampaignService(store), cfg, out)
	})
}

func seedStore(ctx context.Context, svc *service.CampaignService, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	for _, fix := range fixtures() {
		created, err := svc.CreateCampaign(ctx, fix.create)
		if err != nil {
			return fmt.Errorf("create campaign %q: %w", fix.create.Title, err)
		}

		for _, donation := range fix.donations {
			if created, err = svc.Donate(ctx, created.ID, donation.ID, donation.Amount); err != nil {
				return fmt.Errorf("donate %d to %q: %w", donation.Amount, fix.create.Title, err)
			}
			if cfg.Verbose {
				fmt.Fprintf(out, "  %s donated %d\n", donation.ID, donation.Amount)
			}
		}

		fmt.Fprintf(out, "seeded %s %q with %d donors, total %d/%d\n",
			created.ID, created.Title, len(created.Donors), created.TotalDonations, created.Goal)
	}
	return nil
}
