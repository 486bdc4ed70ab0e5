package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/iudanet/offsync/internal/client/iocli"
	"github.com/iudanet/offsync/internal/config"
	"github.com/iudanet/offsync/internal/logger"
)

// OpenFunc собирает движок для команды
type OpenFunc func(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger, offline bool) (*Cli, error)

// rootFlags глобальные флаги, переопределяющие конфиг
type rootFlags struct {
	configPath string
	dbPath     string
	serverURL  string
	offline    bool
}

// NewRootCommand builds the offsync command tree. version is printed by --version.
func NewRootCommand(io iocli.IO, version string) *cobra.Command {
	return newRootCommand(io, version, Open)
}

func newRootCommand(out iocli.IO, version string, open OpenFunc) *cobra.Command {
	var (
		flags  rootFlags
		c      *Cli
		closer io.Closer
	)

	root := &cobra.Command{
		Use:           "offsync",
		Short:         "Offline-first sync client",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// help и version не трогают локальный кеш
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := loadClientConfig(cmd, flags)
			if err != nil {
				return err
			}

			var log *slog.Logger
			log, closer = logger.New(cfg.Log)

			c, err = open(cmd.Context(), cfg, out, log, flags.offline)
			if err != nil {
				_ = closer.Close()
				closer = nil
				return err
			}
			return nil
		},
	}

	release := func() error {
		err := closeAll(c, closer)
		c, closer = nil, nil
		return err
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return release()
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to offsync.yaml")
	pf.StringVar(&flags.dbPath, "db", "", "path to the local cache (overrides client.db_path)")
	pf.StringVar(&flags.serverURL, "server", "", "server URL (overrides client.server_url)")
	pf.BoolVar(&flags.offline, "offline", false, "start with the network marked unavailable")

	// команды получают Cli лениво: он открывается в PersistentPreRunE
	engine := func() *Cli { return c }
	root.AddCommand(
		newPutCommand(engine),
		newDeleteCommand(engine),
		newGetCommand(engine),
		newListCommand(engine),
		newPullCommand(engine),
		newQueueCommand(engine),
		newRetryCommand(engine),
		newDiscardCommand(engine),
		newStatusCommand(engine),
		newSyncCommand(engine),
		newConflictsCommand(engine),
		newResolveCommand(engine),
		newDaemonCommand(engine),
		newVersionCommand(out, version),
	)

	// cobra не вызывает post-run хуки после ошибки RunE: базу закрываем сами
	for _, sub := range root.Commands() {
		if sub.RunE == nil {
			continue
		}
		runE := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			err := runE(cmd, args)
			if err == nil {
				return nil
			}
			if cerr := release(); cerr != nil {
				return errors.Join(err, cerr)
			}
			return err
		}
	}
	return root
}

func loadClientConfig(cmd *cobra.Command, flags rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("db") {
		cfg.Client.DBPath = flags.dbPath
	}
	if cmd.Flags().Changed("server") {
		cfg.Client.ServerURL = flags.serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func closeAll(c *Cli, closer io.Closer) error {
	var errs []error
	if c != nil {
		errs = append(errs, c.Close())
	}
	if closer != nil {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func newPutCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "put <type> [id] <json>",
		Short: "Create or update an entity locally and queue the change",
		Example: `  offsync put notes '{"title":"draft"}'
  offsync put notes 42 '{"title":"final"}'`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				return engine().runPut(cmd.Context(), args[0], "", args[1])
			}
			return engine().runPut(cmd.Context(), args[0], args[1], args[2])
		},
	}
}

func newDeleteCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete an entity locally and queue the change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runDelete(cmd.Context(), args[0], args[1])
		},
	}
}

func newGetCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Show a cached entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runGet(cmd.Context(), args[0], args[1])
		},
	}
}

func newListCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List cached entities of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runList(cmd.Context(), args[0])
		},
	}
}

func newPullCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <type>...",
		Short: "Refresh the cache from the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runPull(cmd.Context(), args)
		},
	}
}

func newQueueCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show queued changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runQueue(cmd.Context())
		},
	}
}

func newRetryCommand(engine func() *Cli) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "retry [queue-id]",
		Short: "Reschedule failed changes",
		Args:  oneArgUnless(&all),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runRetry(cmd.Context(), firstArg(args), all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "retry every failed change")
	return cmd
}

func newDiscardCommand(engine func() *Cli) *cobra.Command {
	var allFailed bool
	cmd := &cobra.Command{
		Use:   "discard [queue-id]",
		Short: "Drop a queued change and restore the last synced value",
		Args:  oneArgUnless(&allFailed),
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runDiscard(cmd.Context(), firstArg(args), allFailed)
		},
	}
	cmd.Flags().BoolVar(&allFailed, "all-failed", false, "discard every failed change")
	return cmd
}

func newStatusCommand(engine func() *Cli) *cobra.Command {
	var noPrompt bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runStatus(cmd.Context(), !noPrompt)
		},
	}
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "do not offer to retry failed changes")
	return cmd
}

func newSyncCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push queued changes to the server now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runSync(cmd.Context())
		},
	}
}

func newConflictsCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List open conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runConflicts(cmd.Context())
		},
	}
}

func newResolveCommand(engine func() *Cli) *cobra.Command {
	var all string
	cmd := &cobra.Command{
		Use:   "resolve <type> <id> <local|server>",
		Short: "Resolve a conflict by keeping one side",
		Args: func(cmd *cobra.Command, args []string) error {
			if all != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all != "" {
				return engine().runResolveAll(cmd.Context(), all)
			}
			return engine().runResolve(cmd.Context(), args[0], args[1], args[2])
		},
	}
	cmd.Flags().StringVar(&all, "all", "", "resolve every open conflict with local or server")
	return cmd
}

func newDaemonCommand(engine func() *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run background sync until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return engine().runDaemon(cmd.Context())
		},
	}
}

func newVersionCommand(out iocli.IO, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out.Printf("offsync %s\n", version)
		},
	}
}

// oneArgUnless требует ровно один аргумент, если флаг не задан, и ни одного, если задан
func oneArgUnless(flag *bool) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if *flag {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
