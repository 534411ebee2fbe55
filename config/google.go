package config

import (
	"encoding/json"

	"google.golang.org/api/option"
)

// ClientOptions builds the Google API client options for the configured
// service account. A credentials file wins over inline email/key.
func (g GoogleConfig) ClientOptions(scopes ...string) []option.ClientOption {
	var opts []option.ClientOption
	if g.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(g.CredentialsPath))
	} else if g.ServiceAccountEmail != "" {
		creds, _ := json.Marshal(map[string]string{
			"type":         "service_account",
			"client_email": g.ServiceAccountEmail,
			"private_key":  g.PrivateKey,
			"token_uri":    "https://oauth2.googleapis.com/token",
		})
		opts = append(opts, option.WithCredentialsJSON(creds))
	}
	if len(scopes) > 0 {
		opts = append(opts, option.WithScopes(scopes...))
	}
	return opts
}
