// Package spotify is a small typed client for the Spotify Web API.
//
// Only the endpoints used by the MCP tools are implemented: player control,
// the user's library and playlists, catalog lookups and recommendations.
// Responses are decoded into the structs in types.go; non-2xx responses
// become *APIError.
//
// # Authentication
//
// The client itself is transport agnostic. Connector builds one on top of an
// oauth2 transport whose token comes from a TokenStore, and persists every
// refreshed token back to the store. Authorizer performs the one-time
// authorization code flow (with PKCE) that fills the store:
//
//	auth := &spotify.Authorizer{
//	    Config: spotify.OAuthConfig(clientID, clientSecret, redirectURI),
//	    Store:  store,
//	    Out:    os.Stderr,
//	}
//	if _, err := auth.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Retries and caching
//
// Rate limited requests (429) are retried after the Retry-After delay with
// exponential backoff. Server errors are retried for GET requests only.
// Audio features and genre seeds never change for a given key and are kept in
// a CatalogCache shared by all clients of a Connector.
package spotify
