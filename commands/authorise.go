package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var AuthoriseCmd = Authorise{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		tokens:      "",
		url:         "",
		debug:       false,
	},
}

type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises killfeed-sheets to access a Google Sheets worksheet"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options]\n", APP)
	fmt.Println()
	fmt.Println("  Performs the OAuth2 exchange for OAuth2 client credentials and caches the token")
	fmt.Println("  for subsequent commands. Service account credentials do not require authorisation.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    killfeed-sheets authorise --credentials "credentials.json"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return cmd.flagset("authorise")
}

func (cmd *Authorise) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if err := materialize(cmd.credentials); err != nil {
		return err
	}

	b, err := os.ReadFile(cmd.credentials)
	if err != nil {
		return err
	}

	if serviceAccount(b) {
		infof("Service account credentials do not require authorisation")
		return nil
	}

	scopes := []string{SHEETS, DRIVE}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return err
	}

	token, err := exchange(config)
	if err != nil {
		return err
	}

	path := tokenPath(cmd.credentials, cmd.tokensDir(), scopes)
	if err := saveToken(path, token); err != nil {
		return err
	}

	infof("Saved token to %s", path)

	return nil
}

// exchange requests a token from the web, prompting for the authorisation code
// on the console.
func exchange(config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("unable to read authorization code (%v)", err)
	}

	token, err := config.Exchange(context.TODO(), code)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web (%v)", err)
	}

	return token, nil
}
