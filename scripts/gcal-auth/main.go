// Command gcal-auth authorizes read access to Google Calendar for the
// calendar_events context source. The API reads the token from token.json
// in its working directory.
//
// Usage:
//
//	go run ./scripts/gcal-auth -credentials google-credentials.json -token token.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

func main() {
	credsPath := flag.String("credentials", "google-credentials.json", "OAuth desktop app credentials file")
	tokenPath := flag.String("token", "token.json", "where to write the token")
	flag.Parse()

	data, err := os.ReadFile(*credsPath)
	if err != nil {
		log.Fatalf("read credentials %q: %v", *credsPath, err)
	}

	cfg, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		log.Fatalf("parse credentials %q (expected an OAuth desktop app file): %v", *credsPath, err)
	}

	fmt.Println("1. Open this URL and sign in with the account whose calendar should be read:")
	fmt.Println()
	fmt.Println(cfg.AuthCodeURL("intent-assistant", oauth2.AccessTypeOffline))
	fmt.Println()
	fmt.Print("2. Paste the authorization code: ")

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		log.Fatalf("read authorization code: %v", err)
	}

	tok, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("exchange authorization code: %v", err)
	}

	if err := writeToken(*tokenPath, tok); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nToken saved to %s. Set google_calendar.credentials_path and restart the API.\n", *tokenPath)
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
