package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/blackwell-systems/opacctl/internal/config"
	"github.com/blackwell-systems/opacctl/internal/logging"
	"github.com/blackwell-systems/opacctl/internal/session"
	"github.com/blackwell-systems/opacctl/internal/tui"
	"github.com/blackwell-systems/opacctl/internal/unified"
	"github.com/blackwell-systems/opacctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	sess   *session.Session
	client *api.Client // nil when offline

	flagNoColor       bool
	flagNoInteractive bool
	flagOffline       bool
	flagVerbose       bool
	flagConfig        string
)

var rootCmd = &cobra.Command{
	Use:   "opacctl",
	Short: "Search the public library union catalog and place holds",
	Long: `opacctl searches the union catalog of the county library branches.

Keyword and advanced (field / AND / OR / NOT) search, facet filters,
similar-book and history recommendations, pickup reservations and a
small search assistant. Signed-in patrons can place holds and list loans.

Run 'opacctl' with no arguments to launch the interactive catalog.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tui.ShouldUseTUI(cmd) {
			return runTUI(cmd.Context())
		}
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().BoolVar(&flagOffline, "offline", false, "Do not contact the library API")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/opacctl/config.yml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		switch cmd.Name() {
		case "version", "completion", "help":
			return nil
		}

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Log.Level
		if flagVerbose {
			level = "debug"
		}
		logging.Init(logging.Config{Level: level, Format: cfg.Log.Format})

		store, err := session.Open(session.Backend(cfg.Session.Backend), cfg.Session.Dir)
		if err != nil {
			return fmt.Errorf("opening session: %w", err)
		}
		sess = session.New(store)

		if offline() {
			client = nil
			return nil
		}
		client = api.New(cfg.API.BaseURL, api.Options{
			Timeout:          cfg.API.Timeout,
			FailureThreshold: cfg.API.FailureThreshold,
			Cooldown:         cfg.API.Cooldown,
		})
		if u, ok := sess.User(); ok {
			client = client.WithToken(u.Token)
		}
		return nil
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if sess == nil {
			return nil
		}
		return sess.Close()
	}

	rootCmd.AddCommand(
		newSearchCmd(),
		newAdvancedCmd(),
		newShowCmd(),
		newSimilarCmd(),
		newReserveCmd(),
		newRecommendCmd(),
		newHistoryCmd(),
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newLoansCmd(),
		newAskCmd(),
		newFacetsCmd(),
		newServeCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

func offline() bool {
	return flagOffline || cfg.Catalog.Offline
}

// loadBooks resolves the session catalog: local data, replaced by the
// remote listing when the API answers.
func loadBooks(ctx context.Context) ([]catalog.Book, error) {
	var remote catalog.Fetcher
	if client != nil {
		remote = client
	}
	books, origin, err := catalog.NewManager(remote, sess, cfg.Catalog.Path).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	log := logging.With("app")
	log.Debug().Str("origin", string(origin)).Int("books", len(books)).Msg("catalog ready")
	return books, nil
}

// findBook looks a book up by ID in the session catalog.
func findBook(ctx context.Context, id string) (catalog.Book, []catalog.Book, error) {
	books, err := loadBooks(ctx)
	if err != nil {
		return catalog.Book{}, nil, err
	}
	b := catalog.ByID(books, id)
	if b == nil {
		return catalog.Book{}, nil, fmt.Errorf("book %q not found", id)
	}
	return *b, books, nil
}

// signedIn returns the stored patron, or an error telling the user to log in.
func signedIn() (session.User, error) {
	u, ok := sess.User()
	if !ok {
		return session.User{}, fmt.Errorf("%w: run 'opacctl login' first", api.ErrNotSignedIn)
	}
	return u, nil
}

// online returns the API client, or an error in offline mode.
func online() (*api.Client, error) {
	if client == nil {
		return nil, fmt.Errorf("the library API is disabled (--offline or catalog.offline)")
	}
	return client, nil
}

// runTUI launches the interactive catalog.
func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	books, err := loadBooks(ctx)
	if err != nil {
		return err
	}
	return unified.Run(unified.Deps{
		Books:   books,
		Session: sess,
		Client:  client,
		Layout:  cfg.Display.ParsedLayout(),
		Locale:  cfg.Display.Language(),
		Now:     time.Now,
	})
}
