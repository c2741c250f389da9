// Package storage persists Spotify OAuth tokens in a local SQLite database.
//
// The server only needs to remember one thing between runs: the token pair
// obtained by `spotify-mcp auth`, refreshed over time by the OAuth client.
// Tokens are keyed by account name so a second Spotify account can be added
// later without a schema change; today everything uses DefaultAccount.
//
// # Database Schema
//
// Tables:
//   - schema_version: applied migrations (semver ordered)
//   - oauth_tokens: one row per account
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage("/home/me/.spotify-mcp/tokens.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.SaveToken(ctx, storage.DefaultAccount, &storage.Token{
//	    AccessToken:  "BQD...",
//	    RefreshToken: "AQB...",
//	    TokenType:    "Bearer",
//	    Expiry:       time.Now().Add(time.Hour),
//	})
//
//	tok, err := store.LoadToken(ctx, storage.DefaultAccount)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // run the auth flow
//	}
//
// # Drivers
//
// The default build uses modernc.org/sqlite (pure Go). Building with
// -tags sqlite_cgo switches to github.com/mattn/go-sqlite3.
package storage
