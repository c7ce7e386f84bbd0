package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/folio-dev/folio/config"
	"github.com/folio-dev/folio/internal/apiclient"
	"github.com/folio-dev/folio/internal/auth"
	"github.com/folio-dev/folio/internal/cache"
	"github.com/folio-dev/folio/internal/repository"
	"github.com/folio-dev/folio/internal/services"
	"github.com/folio-dev/folio/pkg/httpclient"
	"github.com/folio-dev/folio/pkg/logger"
)

// cliSession keys the CLI's drafts and messages in the dashboard service
const cliSession = "folioctl"

var errNotLoggedIn = errors.New("not logged in, run `folioctl login` first")

type options struct {
	apiURL    string
	statePath string
	verbose   bool
	timeout   time.Duration
}

// app holds what every command needs. It is built once per process and
// shared by the interactive shell.
type app struct {
	store     *auth.FileStore
	api       *apiclient.Client
	sections  *repository.SectionRepository
	dashboard *services.DashboardService
	flashes   *cache.FlashStore
	ready     bool
}

func (a *app) init(opts *options) error {
	if a.ready {
		return nil
	}

	if opts.verbose {
		if err := logger.Initialize(logger.Config{
			Level:       "debug",
			Environment: "development",
			ServiceName: "folioctl",
		}); err != nil {
			return err
		}
	}

	if opts.apiURL == "" {
		return errors.New("API URL is required: pass --api-url or set FOLIO_API_URL")
	}

	statePath := opts.statePath
	if statePath == "" {
		p, err := auth.DefaultPath()
		if err != nil {
			return err
		}
		statePath = p
	}

	cfg := &config.Config{
		Upload: config.UploadConfig{Mode: config.UploadModeBackend, MaxBytes: 10 * 1024 * 1024},
	}

	a.store = auth.NewFileStore(statePath)
	a.api = apiclient.New(opts.apiURL, httpclient.NewClientWithTimeout(opts.timeout), 2)
	a.sections = repository.NewSectionRepository(a.api, cache.NewSectionCache(30), false)
	a.flashes = cache.NewFlashStore(60)
	a.dashboard = services.NewDashboardService(
		a.api,
		services.NewBackendUploader(a.api, cfg.Upload.MaxBytes),
		a.sections,
		cache.NewDraftStore[*services.Workspace](24*60),
		a.flashes,
		cfg,
	)
	a.ready = true
	return nil
}

// token returns the stored bearer token, or errNotLoggedIn when the gate
// would send a browser to the login page
func (a *app) token() (string, error) {
	if !auth.NewGate(a.store).Authorized() {
		return "", errNotLoggedIn
	}
	return a.store.Token(), nil
}

func (a *app) workspace() *services.Workspace {
	return a.dashboard.Workspace(cliSession)
}

// flush prints and forgets the messages produced by the last operation
func (a *app) flush(w io.Writer) {
	for _, f := range a.dashboard.Flashes(cliSession) {
		fmt.Fprintf(w, "[%s] %s\n", f.Kind, f.Text)
	}
	a.flashes.Clear(cliSession)
}

// describeError points at `folioctl login` when the API rejected the stored token
func describeError(err error) error {
	if apiclient.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%w (stored token was rejected, run `folioctl login` again)", err)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "folioctl",
		Short: "Edit a Folio portfolio from the terminal",
		Long: `folioctl talks to the same portfolio API as the web dashboard.

Log in once; the token is kept in a state file and reused until you log out.
Run "folioctl shell" for an interactive session that ends when you log out
from another terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", os.Getenv("FOLIO_API_URL"), "Portfolio API base URL")
	root.PersistentFlags().StringVar(&opts.statePath, "state", os.Getenv("FOLIO_STATE"), "State file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "API request timeout")

	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newRegisterCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newSkillsCmd(a))
	root.AddCommand(newCardsCmd(a, "projects"))
	root.AddCommand(newCardsCmd(a, "experience"))
	root.AddCommand(newEducationCmd(a))
	root.AddCommand(newThemeCmd(a))
	root.AddCommand(newShellCmd(a))
	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}
