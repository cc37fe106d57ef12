package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/useraccounts/internal/client/client"
	"github.com/dmitrijs2005/useraccounts/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewAccountsClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	printlnFn("Accounts CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) getStatus() string {
	if a.isLoggedIn() && a.email != "" {
		return "(" + a.email + ") "
	}
	return ""
}
