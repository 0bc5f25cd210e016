package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gamertype/portrait-api/internal/steam"
)

// steamid classifies profile references and, given an API key, resolves
// vanity names the way the analyze endpoint does.
func main() {
	apiKey := flag.String("key", os.Getenv("STEAM_API_KEY"), "Steam Web API key; vanity names are only classified without it")
	flag.Parse()

	var client *steam.Client
	if *apiKey != "" {
		client = steam.NewClient(steam.Config{APIKey: *apiKey, Timeout: 10 * time.Second})
	}

	failed := false
	for _, raw := range flag.Args() {
		line, err := describe(context.Background(), client, raw)
		if err != nil {
			failed = true
			fmt.Printf("%s\tERROR\t%v\n", raw, err)
			continue
		}
		fmt.Println(line)
	}
	if failed {
		os.Exit(1)
	}
}

func describe(ctx context.Context, client *steam.Client, raw string) (string, error) {
	in, err := steam.ParseInput(raw)
	if err != nil {
		return "", err
	}
	if !in.NeedsLookup() {
		return fmt.Sprintf("%s\t%s\t%s", raw, in.Kind, in.Value), nil
	}
	if client == nil {
		return fmt.Sprintf("%s\t%s\t(unresolved: %s)", raw, in.Kind, in.Value), nil
	}
	id, err := client.ResolveVanity(ctx, in.Value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\t%s\t%s", raw, in.Kind, id), nil
}
