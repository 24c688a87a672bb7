package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"tracker-comparer/core/config"
	"tracker-comparer/core/fetch"
	"tracker-comparer/core/reconcile"
	"tracker-comparer/feature/steam"
)

func main() {
	steamID := flag.String("steamid", "", "64-bit Steam id")
	appID := flag.Int("appid", 0, "App id to look up")
	flag.Parse()
	if *steamID == "" || *appID == 0 {
		log.Fatal("usage: debug_lookup -steamid <id> -appid <id>")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	client := fetch.New(cfg.Fetch, fetch.WithCookies(cfg.Cookies.Hosts()))
	host := steam.New(client, reconcile.Profile{SteamID: *steamID})
	ctx := context.Background()

	fmt.Println("=== STEP 1: Per-title stats page ===")
	rec, err := host.LookupTitle(ctx, *appID)
	switch {
	case err != nil:
		fmt.Printf("Lookup failed: %v\n", err)
	case rec == nil:
		fmt.Println("No achievement data on the stats page (private profile or no achievements)")
	default:
		fmt.Printf("name=%q unlocked=%d total=%d perfect=%s\n", rec.DisplayName(), rec.Unlocked, *rec.Total, rec.IsPerfect)
	}

	fmt.Println("\n=== STEP 2: Global achievement rows ===")
	rows, err := host.CountAchievementRows(ctx, *appID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("achieveRow count: %d\n", rows)
	fmt.Printf("Link: %s\n", host.TitleLink(reconcile.Record{ID: *appID}))
}
