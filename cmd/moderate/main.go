// Package main provides a CLI for working the moderation queue against the
// configured listing store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/steemit/citygroups/internal/cache"
	"github.com/steemit/citygroups/internal/db"
	"github.com/steemit/citygroups/internal/listing"
	"github.com/steemit/citygroups/internal/models"
	"github.com/steemit/citygroups/pkg/config"
	"github.com/steemit/citygroups/pkg/logging"
	"github.com/steemit/citygroups/pkg/telemetry"
)

const usage = `Usage: moderate [flags] <command> [id]

Commands:
  pending        list listings waiting for a decision
  approve <id>   approve a pending listing
  reject <id>    reject a pending listing

Flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	var asJSON bool
	flag.BoolVar(&asJSON, "json", false, "print results as JSON")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer telemetryShutdown()

	store, err := db.Open(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var approvedCache listing.ApprovedCache
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if redisCache != nil {
		defer redisCache.Close()
		approvedCache = redisCache
	}

	svc := listing.NewService(store, approvedCache, cfg.Listing.CacheTTL, logging.WithComponent("moderate"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, svc, flag.Args(), asJSON, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *listing.Service, args []string, asJSON bool, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "pending":
		if len(args) != 1 {
			return errUsage
		}
		listings, err := svc.ListPending(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, listings)
		}
		return writeTable(out, listings)

	case "approve", "reject":
		if len(args) != 2 {
			return errUsage
		}
		decision := models.StatusApproved
		if args[0] == "reject" {
			decision = models.StatusRejected
		}
		decided, err := svc.Decide(ctx, args[1], decision)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, decided)
		}
		_, err = fmt.Fprintf(out, "%s %s (%s)\n", decided.Status, decided.ID, decided.Name)
		return err

	default:
		return errUsage
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(out io.Writer, listings []models.CommunityListing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(out, "No pending listings")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPLATFORM\tCITY\tSTATE\tMEMBERS\tSUBMITTED")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			l.ID, l.Name, l.Platform, l.City, l.State, l.MemberCount, l.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
