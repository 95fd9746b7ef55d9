package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive.metadata.readonly"
)

// GOOGLE_CREDS_JSON carries the credential payload in environments (CI,
// containers) where the credentials file is not provisioned on disk.
const credentialsEnv = "GOOGLE_CREDS_JSON"

// authorize builds an authenticated HTTP client for the Google APIs. Service
// account credentials are used directly; OAuth2 client credentials require a
// token previously cached by the 'authorise' command.
func authorize(credentials, tokens string, scopes ...string) (*http.Client, error) {
	if err := materialize(credentials); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	if serviceAccount(b) {
		config, err := google.JWTConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, err
		}

		return config.Client(context.Background()), nil
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, err
	}

	token, err := tokenFromFile(tokenPath(credentials, tokens, scopes))
	if err != nil {
		return nil, fmt.Errorf("no cached token - run '%s authorise' first (%v)", APP, err)
	}

	return config.Client(context.Background(), token), nil
}

// materialize writes the GOOGLE_CREDS_JSON payload to the credentials path if
// the file does not already exist.
func materialize(credentials string) error {
	if _, err := os.Stat(credentials); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	payload := os.Getenv(credentialsEnv)
	if payload == "" {
		return fmt.Errorf("missing credentials file %s (and %s is not set)", credentials, credentialsEnv)
	}

	if err := os.MkdirAll(filepath.Dir(credentials), 0700); err != nil {
		return err
	}

	return os.WriteFile(credentials, []byte(payload), 0600)
}

func serviceAccount(credentials []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(credentials, &probe); err != nil {
		return false
	}

	return probe.Type == "service_account"
}

func tokenPath(credentials, tokens string, scopes []string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	switch {
	case len(scopes) == 1 && strings.HasPrefix(scopes[0], SHEETS):
		return filepath.Join(tokens, fmt.Sprintf("%s.sheets", name))

	case len(scopes) == 1 && strings.HasPrefix(scopes[0], DRIVE):
		return filepath.Join(tokens, fmt.Sprintf("%s.drive", name))

	default:
		return filepath.Join(tokens, fmt.Sprintf("%s.tokens", name))
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
