package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/laplataremata/remata-engine/internal/catalog"
	"github.com/laplataremata/remata-engine/internal/config"
	"github.com/laplataremata/remata-engine/internal/db"
	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/realtime"
	"github.com/laplataremata/remata-engine/internal/session"
	"github.com/laplataremata/remata-engine/internal/storage"
	"github.com/laplataremata/remata-engine/internal/view"
)

func main() {
	logging.Info("Starting remata-engine shell...", nil)

	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logging.Fatal("Could not load config", map[string]any{"error": cfgErr.Error()})
	}

	if err := run(cfg); err != nil {
		logging.Fatal("Shell exited with error", map[string]any{"error": err.Error()})
	}
}

// Runs the terminal shell: loads the catalog, attaches the realtime
// synchronizer and re-renders the countdown every second until
// interrupted.
func run(cfg *config.Config) error {
	sessions := session.NewStore(cfg)
	records := db.NewClient(cfg)
	files := storage.NewClient(cfg)
	cat := catalog.NewCatalog(cfg.BidIncrement)
	loader := catalog.NewLoader(records, cat)

	// Optional login so bidding workflows are enabled
	if cfg.ShellEmail != "" {
		if err := sessions.Login(cfg.ShellEmail, cfg.ShellPassword); err != nil {
			logging.Warn("login failed, continuing unauthenticated", map[string]any{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	snap, err := loader.LoadAuctions(ctx)
	cancel()
	if err != nil {
		// The diagnostic is user-facing; render it and stop
		fmt.Println(err.Error())
		return err
	}

	if snap.Empty() {
		fmt.Println("No hay subastas activas en este momento.")
		return nil
	}

	// Realtime price sync is best effort: a dead stream only means
	// prices refresh on the next full load
	feed := realtime.NewClient(cfg)
	sync := realtime.NewSynchronizer(feed, cat)
	if err := feed.Connect(context.Background()); err != nil {
		logging.Warn("realtime unavailable, prices will not live-update", map[string]any{"error": err.Error()})
	} else {
		sync.Track(context.Background(), snap.Auctions)
	}

	// 1-second tick forces the countdown re-render; it holds no state
	// and must be cleared on teardown
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Create OS signal channel
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	render(cat, files)
	for {
		select {
		case <-ticker.C:
			render(cat, files)
		case sig := <-sigs:
			logging.Info("Received signal. Shutting down shell...", map[string]any{"signal": sig.String()})
			sync.Shutdown()
			feed.Close()
			return nil
		}
	}
}

func render(cat *catalog.Catalog, files *storage.Client) {
	now := time.Now()
	fmt.Print("\033[H\033[2J")
	fmt.Println("La Plata Remata — subastas activas")
	fmt.Println()
	for _, a := range cat.Auctions() {
		fmt.Printf("%-28s $%s  %s  (por %s)\n",
			a.Title, a.CurrentPrice.String(), view.FormatTimeLeft(a.EndTime, now), a.OwnerName())
		if a.ImagePath != "" {
			fmt.Printf("    %s\n", files.PublicURL(a.ImagePath))
		} else {
			fmt.Println("    Sin imagen")
		}
	}
}
