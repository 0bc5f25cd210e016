package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/gate"
)

// gatewatch issues an unlock token against a running API, prints the bot
// link and waits for the unlock the way the web client does.
func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API base URL")
	steamID := flag.String("steamid", "", "SteamID64 to gate (required)")
	locale := flag.String("locale", "ru", "ru or en")
	interval := flag.Duration("interval", 3*time.Second, "poll interval")
	failOpenAfter := flag.Int("fail-open-after", 3, "consecutive failures before unlocking anyway")
	timeout := flag.Duration("timeout", 10*time.Minute, "give up after")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *steamID == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client := newAPIClient(*apiURL, 10*time.Second)

	created, err := client.CreateGate(ctx, *steamID, *locale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create gate: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Open %s and press Start\n", created.BotLink)

	watcher := gate.NewWatcher(gate.WatcherConfig{
		Status:   client.GateStatus,
		Interval: *interval,
		Reissue: func(ctx context.Context) (string, error) {
			next, err := client.CreateGate(ctx, *steamID, *locale)
			if err != nil {
				return "", err
			}
			fmt.Printf("Token expired, new link: %s\n", next.BotLink)
			return next.Token, nil
		},
		FailOpenAfter: *failOpenAfter,
		Logger:        logger,
	})

	res, err := watcher.Watch(ctx, created.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
	if res.FailOpen {
		fmt.Printf("Unlocked after %d polls (gate unreachable, failing open)\n", res.Polls)
		return
	}
	fmt.Printf("Unlocked after %d polls\n", res.Polls)
}
