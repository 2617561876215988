// Command store is the terminal storefront: run it bare for the
// interactive shop, or use subcommands for scripted access to the same
// account, catalog, cart and order operations.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/orders"
	"storefront/internal/payments"
	"storefront/internal/query"
	"storefront/internal/ux"
)

var version = "dev"

var (
	// Global flags
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	app    *services
)

// services is the wired-up client stack shared by every command.
type services struct {
	Client   *api.Client
	Auth     *auth.Manager
	Catalog  *catalog.Service
	Cart     *cart.Service
	Orders   *orders.Service
	Payments *payments.Service
	Provider payments.Provider
	Cache    *query.Cache
}

var rootCmd = &cobra.Command{
	Use:   "store",
	Short: "Terminal storefront client",
	Long: `store is a terminal client for the shop: browse the catalog,
manage your cart and place orders without leaving the terminal.

Run without arguments to start the interactive storefront.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		app, err = buildServices(cfg, logger)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStorefront()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("store %s\n", version)
	},
}

// buildServices wires the client stack. The API client needs a token
// source before the auth manager exists, so the source is a closure that
// late-binds to the manager.
func buildServices(cfg *config.Config, logger *zap.Logger) (*services, error) {
	var mgr *auth.Manager

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.APITimeout()),
		api.WithLogger(logger),
		api.WithTokenSource(api.TokenSourceFunc(func() string {
			if mgr == nil {
				return ""
			}
			return mgr.Token()
		})),
	)

	sessionPath, err := auth.DefaultSessionPath()
	if err != nil {
		return nil, err
	}
	mgr, err = auth.NewManager(client, auth.NewStore(sessionPath), auth.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	cache := query.NewCache(cfg.CacheTTL())

	return &services{
		Client:   client,
		Auth:     mgr,
		Catalog:  catalog.NewService(client, cache),
		Cart:     cart.NewService(client, mgr, cart.WithLogger(logger)),
		Orders:   orders.NewService(client),
		Payments: payments.NewService(client, logger),
		Provider: payments.NewStripeProvider(cfg.Payments.ProviderURL, cfg.Payments.PublishableKey, logger),
		Cache:    cache,
	}, nil
}

func runStorefront() error {
	svc := &ux.Services{
		Auth:     app.Auth,
		Catalog:  app.Catalog,
		Cart:     app.Cart,
		Orders:   app.Orders,
		Intents:  app.Payments,
		Provider: app.Provider,
		Cache:    app.Cache,
		Currency: cfg.Payments.Currency,
		PageSize: cfg.UX.PageSize,
		Logger:   logger,
	}

	model := ux.NewApp(svc, ux.NewStyles(ux.ThemeByName(cfg.UX.Theme)))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.storefront/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
	rootCmd.AddCommand(productsCmd, categoriesCmd, brandsCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
