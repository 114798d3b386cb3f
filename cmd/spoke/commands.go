package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/spoke"
	"github.com/reoring/spoke/internal/fakeapi"
	"github.com/reoring/spoke/source"
	"github.com/reoring/spoke/validate"
)

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

type app struct {
	cfg      Config
	logger   *zap.Logger
	failFast bool

	flags struct {
		customer   string
		key        string
		url        string
		logLevel   string
		production bool
		timeout    time.Duration
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "spoke",
		Short: "Submit and inspect Spoke order requests",
		Long: `spoke talks to the Spoke print-on-demand order API.

Order parameters are read from JSON or YAML files ("-" for stdin). Credentials
come from SPOKE_CUSTOMER and SPOKE_KEY or the matching flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.logger.Sync() },
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.customer, "customer", "", "customer id (SPOKE_CUSTOMER)")
	pf.StringVar(&a.flags.key, "key", "", "customer key (SPOKE_KEY)")
	pf.BoolVar(&a.flags.production, "production", false, "use the production endpoint (SPOKE_PRODUCTION)")
	pf.StringVar(&a.flags.url, "url", "", "override the endpoint (SPOKE_URL)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "HTTP timeout (SPOKE_TIMEOUT)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (SPOKE_LOG_LEVEL)")
	pf.BoolVar(&a.failFast, "fail-fast", false, "stop at the first validation issue")

	root.AddCommand(
		a.newCmd(),
		a.updateCmd(),
		a.cancelCmd(),
		a.renderCmd(),
		a.schemaCmd(),
		a.caseTypesCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("customer") {
		cfg.Customer = a.flags.customer
	}
	if f.Changed("key") {
		cfg.Key = a.flags.key
	}
	if f.Changed("production") {
		cfg.Production = a.flags.production
	}
	if f.Changed("url") {
		cfg.URL = a.flags.url
	}
	if f.Changed("timeout") {
		cfg.Timeout = a.flags.timeout
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	a.cfg = cfg

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return usageError{msg: fmt.Sprintf("log level %q: %v", cfg.LogLevel, err)}
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) ctxFor(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return validate.WithFailFast(ctx, a.failFast)
}

func (a *app) client(ctx context.Context) (*spoke.Client, error) {
	opts := []spoke.Option{
		spoke.WithLogger(a.logger),
		spoke.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
	}
	if a.cfg.URL != "" {
		opts = append(opts, spoke.WithURL(a.cfg.URL))
	}
	return spoke.NewClient(ctx, a.cfg.clientParams(), opts...)
}

type operation func(ctx context.Context, c *spoke.Client, params map[string]any) (spoke.Result, error)

func (a *app) submitCmd(use, short string, op operation) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := source.File(args[0])
			if err != nil {
				return err
			}
			ctx := a.ctxFor(cmd)
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			res, err := op(ctx, c, params)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) newCmd() *cobra.Command {
	return a.submitCmd("new", "Submit a new order", func(ctx context.Context, c *spoke.Client, p map[string]any) (spoke.Result, error) {
		return c.New(ctx, p)
	})
}

func (a *app) updateCmd() *cobra.Command {
	return a.submitCmd("update", "Replace the OrderInfo of an order", func(ctx context.Context, c *spoke.Client, p map[string]any) (spoke.Result, error) {
		return c.Update(ctx, p)
	})
}

func (a *app) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.ctxFor(cmd)
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			res, err := c.Cancel(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render new|update|cancel <order-file|order-id>",
		Short: "Print the request document without sending it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.ctxFor(cmd)
			c, err := a.client(ctx)
			if err != nil {
				return err
			}
			var body []byte
			switch strings.ToLower(args[0]) {
			case "new", "update":
				params, err := source.File(args[1])
				if err != nil {
					return err
				}
				if strings.EqualFold(args[0], "new") {
					body, err = c.NewRequest(ctx, params)
				} else {
					body, err = c.UpdateRequest(ctx, params)
				}
				if err != nil {
					return err
				}
			case "cancel":
				if body, err = c.CancelRequest(ctx, args[1]); err != nil {
					return err
				}
			default:
				return usageError{msg: fmt.Sprintf("unknown request type %q", args[0])}
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
}

func schemaNames() []string {
	names := []string{"new", "update", "cancel", "client"}
	for name := range spoke.RecordSchemas() {
		names = append(names, name)
	}
	sort.Strings(names[4:])
	return names
}

func lookupSchema(name string) (*validate.Schema, bool) {
	switch strings.ToLower(name) {
	case "new":
		return spoke.OrderSchema(spoke.RequestNew)
	case "update":
		return spoke.OrderSchema(spoke.RequestUpdate)
	case "cancel":
		return spoke.OrderSchema(spoke.RequestCancel)
	case "client":
		return spoke.ClientSchema(), true
	}
	s, ok := spoke.RecordSchemas()[name]
	return s, ok
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <name>",
		Short:     "Print the JSON Schema of an operation or record",
		Long:      "Names: " + strings.Join(schemaNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: schemaNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := lookupSchema(args[0])
			if !ok {
				return usageError{msg: fmt.Sprintf("unknown schema %q (one of %s)", args[0], strings.Join(schemaNames(), ", "))}
			}
			js, err := s.JSONSchema()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), js)
		},
	}
}

func (a *app) caseTypesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "case-types",
		Short: "List accepted CaseType codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes := spoke.CaseTypes()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), codes)
			}
			for _, code := range codes {
				fam, _ := spoke.CaseFamily(code)
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", code, fam); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var (
		addr    string
		firstID int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local fake of the order API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Customer == "" || a.cfg.Key == "" {
				return usageError{msg: "serve needs --customer and --key (or SPOKE_CUSTOMER and SPOKE_KEY)"}
			}
			api := fakeapi.New(a.cfg.Customer, a.cfg.Key, fakeapi.WithLogger(a.logger), fakeapi.WithFirstID(firstID))
			srv := &http.Server{Addr: addr, Handler: api, ReadHeaderTimeout: 10 * time.Second}

			ctx, stop := signal.NotifyContext(a.ctxFor(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.logger.Info("fake api listening", zap.String("addr", addr), zap.String("path", fakeapi.SubmitPath))

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().IntVar(&firstID, "first-id", 12345, "immc_id of the first accepted order")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
