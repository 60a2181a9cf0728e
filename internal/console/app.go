// Package console is the interactive shell over the gateway api client. It
// is view glue: command parsing and rendering only, with every outcome
// surfaced through the notification scheduler.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/mcpgate/console/internal/api"
	"github.com/mcpgate/console/internal/gateway"
	"github.com/mcpgate/console/internal/notify"
	"github.com/mcpgate/console/internal/session"
)

// App is the console shell. It owns the notification presenter for its
// lifetime and renders everything to out.
type App struct {
	api       *api.Client
	sessions  *session.Controller
	scheduler *notify.Scheduler
	presenter *notify.Presenter
	tokens    *session.StaticTokenSource
	logger    *zap.Logger

	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the shell. tokens may be nil when google login is not configured.
func NewApp(
	apiClient *api.Client,
	sessions *session.Controller,
	scheduler *notify.Scheduler,
	tokens *session.StaticTokenSource,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
) *App {
	a := &App{
		api:       apiClient,
		sessions:  sessions,
		scheduler: scheduler,
		tokens:    tokens,
		logger:    logger,
		reader:    bufio.NewReader(in),
		out:       out,
	}
	a.presenter = notify.NewPresenter(scheduler, logger,
		notify.WithDisplayHook(a.renderNotification))
	return a
}

func (a *App) renderNotification(n notify.Notification) {
	fmt.Fprintf(a.out, "[%s] %s\n", n.Severity, n.Message)
}

func (a *App) prompt() string {
	if id, ok := a.sessions.Identity(); ok {
		return id.UserID
	}
	return "anonymous"
}

// Run bootstraps the session and enters the command loop. It returns when
// the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.presenter.Close()

	if a.sessions.Bootstrap(ctx) {
		id, _ := a.sessions.Identity()
		fmt.Fprintf(a.out, "resumed session for %s\n", id.UserID)
	}

	for {
		fmt.Fprintf(a.out, "mcp[%s]> ", a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return
		}
		a.dispatch(ctx, args)
	}
}

func (a *App) dispatch(ctx context.Context, args []string) {
	var err error
	switch args[0] {
	case "help":
		a.printHelp()
	case "login":
		err = a.login(ctx)
	case "login-google":
		err = a.loginGoogle(ctx)
	case "logout":
		err = a.sessions.Logout(ctx)
		if err == nil {
			a.scheduler.Success("logged out")
		}
	case "whoami":
		a.whoami()
	case "catalog":
		err = a.catalog(ctx, args[1:])
	case "hub":
		err = a.hub(ctx, args[1:])
	case "tools":
		err = a.tools(ctx, args[1:])
	case "vs":
		err = a.virtualServers(ctx, args[1:])
	default:
		fmt.Fprintf(a.out, "unknown command %q, try help\n", args[0])
	}
	if err != nil {
		a.surface(err)
	}
}

// surface renders a command failure as an error notification, preferring the
// normalized gateway message.
func (a *App) surface(err error) {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		a.scheduler.Error(apiErr.Message)
		return
	}
	a.scheduler.Error(err.Error())
}

func (a *App) printHelp() {
	fmt.Fprint(a.out, `commands:
  login                       basic login
  login-google                delegated-identity login
  logout                      end the session
  whoami                      show session identity
  catalog list                list catalog servers
  catalog add                 register a catalog server
  catalog refresh <id>        rediscover a catalog server's tools
  hub list                    list hub subscriptions
  hub add <server_id>         subscribe to a catalog server
  hub rm <id>                 remove a subscription
  hub refresh <id>            rediscover a hub server's tools
  tools list [server_id]      list tools
  tools on|off <id>           toggle a tool
  tools rm <id>               delete a tool
  vs list                     list virtual servers
  vs create <name> [tool...]  bundle tools into a virtual server
  vs tools <id>               show a virtual server's tools
  vs rm <id>                  delete a virtual server
  exit
`)
}

func (a *App) login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	remember, err := GetConfirm(a.reader, "Remember for this session?", a.out)
	if err != nil {
		return err
	}

	id, err := a.sessions.BasicLogin(ctx, username, password, remember)
	if err != nil {
		return err
	}
	a.scheduler.Success("logged in as " + id.UserID)
	return nil
}

func (a *App) loginGoogle(ctx context.Context) error {
	if a.tokens != nil {
		token, err := GetSimpleText(a.reader, "Paste identity token", a.out)
		if err != nil {
			return err
		}
		a.tokens.SetToken(token)
	}

	id, ok, err := a.sessions.GoogleLogin(ctx)
	if err != nil {
		return err
	}
	if !ok {
		// Provider never became ready; stay quiet per the login contract.
		a.logger.Debug("console.google_login_inert")
		return nil
	}
	a.scheduler.Success("logged in as " + id.UserID)
	return nil
}

func (a *App) whoami() {
	id, ok := a.sessions.Identity()
	if !ok {
		fmt.Fprintln(a.out, "not logged in")
		return
	}
	fmt.Fprintf(a.out, "%s (%s)\n", id.UserID, id.Email)
}

func (a *App) catalog(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		servers, err := a.api.ListCatalog(ctx)
		if err != nil {
			return err
		}
		for _, srv := range servers {
			fmt.Fprintf(a.out, "%s  %-20s %s\n", srv.ID, srv.Name, srv.URL)
		}
	case "add":
		name, err := GetSimpleText(a.reader, "Name", a.out)
		if err != nil {
			return err
		}
		serverURL, err := GetSimpleText(a.reader, "URL", a.out)
		if err != nil {
			return err
		}
		id, err := a.api.AddCatalog(ctx, api.CreateCatalogRequest{Name: name, URL: serverURL})
		if err != nil {
			return err
		}
		a.scheduler.Success("catalog server added: " + id)
	case "refresh":
		if len(args) < 2 {
			return errors.New("usage: catalog refresh <id>")
		}
		summary, err := a.api.RefreshCatalog(ctx, args[1])
		if err != nil {
			return err
		}
		a.scheduler.Success(fmt.Sprintf("refreshed: %d added, %d deleted",
			summary.TotalAdded, summary.TotalDeleted))
	default:
		return fmt.Errorf("unknown catalog command %q", args[0])
	}
	return nil
}

func (a *App) hub(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		hubs, err := a.api.ListHubs(ctx)
		if err != nil {
			return err
		}
		for _, h := range hubs {
			fmt.Fprintf(a.out, "%s  %-20s %s\n", h.ID, h.Name, h.Status)
		}
	case "add":
		if len(args) < 2 {
			return errors.New("usage: hub add <server_id>")
		}
		id, err := a.api.AddHub(ctx, api.AddHubRequest{MCPServerID: args[1], AuthType: "none"})
		if err != nil {
			return err
		}
		a.scheduler.Success("hub server added: " + id)
	case "rm":
		if len(args) < 2 {
			return errors.New("usage: hub rm <id>")
		}
		if err := a.api.DeleteHub(ctx, args[1]); err != nil {
			return err
		}
		a.scheduler.Success("hub server removed")
	case "refresh":
		if len(args) < 2 {
			return errors.New("usage: hub refresh <id>")
		}
		summary, err := a.api.RefreshHub(ctx, args[1])
		if err != nil {
			return err
		}
		a.scheduler.Success(fmt.Sprintf("refreshed: %d added, %d deleted",
			summary.TotalAdded, summary.TotalDeleted))
	default:
		return fmt.Errorf("unknown hub command %q", args[0])
	}
	return nil
}

func (a *App) tools(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		q := url.Values{}
		if len(args) > 1 {
			q.Set("server_id", args[1])
		}
		tools, err := a.api.ListTools(ctx, q)
		if err != nil {
			return err
		}
		for _, tool := range tools {
			fmt.Fprintf(a.out, "%s  %-30s %s\n", tool.ID, tool.ModifiedName, tool.Status)
		}
	case "on", "off":
		if len(args) < 2 {
			return fmt.Errorf("usage: tools %s <id>", args[0])
		}
		status := api.StatusActive
		if args[0] == "off" {
			status = api.StatusDeactivated
		}
		if err := a.api.SetToolStatus(ctx, args[1], status); err != nil {
			return err
		}
		a.scheduler.Success("tool " + strings.ToLower(string(status)))
	case "rm":
		if len(args) < 2 {
			return errors.New("usage: tools rm <id>")
		}
		if err := a.api.DeleteTool(ctx, args[1]); err != nil {
			return err
		}
		a.scheduler.Success("tool deleted")
	default:
		return fmt.Errorf("unknown tools command %q", args[0])
	}
	return nil
}

func (a *App) virtualServers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		servers, err := a.api.ListVirtualServers(ctx)
		if err != nil {
			return err
		}
		for _, vs := range servers {
			fmt.Fprintf(a.out, "%s  %-20s %s\n", vs.ID, vs.Name, vs.Status)
		}
	case "create":
		if len(args) < 2 {
			return errors.New("usage: vs create <name> [tool_id...]")
		}
		id, err := a.api.CreateVirtualServer(ctx, args[1], args[2:])
		if err != nil {
			return err
		}
		a.scheduler.Success("virtual server created: " + id)
	case "tools":
		if len(args) < 2 {
			return errors.New("usage: vs tools <id>")
		}
		tools, err := a.api.VirtualServerTools(ctx, args[1])
		if err != nil {
			return err
		}
		for _, tool := range tools {
			fmt.Fprintf(a.out, "%s  %s\n", tool.ID, tool.ModifiedName)
		}
	case "rm":
		if len(args) < 2 {
			return errors.New("usage: vs rm <id>")
		}
		if err := a.api.DeleteVirtualServer(ctx, args[1]); err != nil {
			return err
		}
		a.scheduler.Success("virtual server deleted")
	default:
		return fmt.Errorf("unknown vs command %q", args[0])
	}
	return nil
}
