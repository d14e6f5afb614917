// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"

	"fjacquet/finance-manager/internal/account"
	"fjacquet/finance-manager/internal/config"
	"fjacquet/finance-manager/internal/container"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/service"

	"github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

// AnnotationMutates marks commands whose changes must be saved afterwards.
const AnnotationMutates = "finance-manager/mutates"

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile string
	Username   string
	Password   string
}

var (
	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	app     *container.Container
	current *account.User

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance-manager",
		Short: "A personal finance ledger with budgets, transfers and reports.",
		Long: `finance-manager keeps an income and expense ledger per user.
It tracks category budgets, moves money between users, and produces
statistics, alerts and reports. Data is kept in a YAML file or a SQLite
database under the data directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE:  setup,
		PersistentPostRunE: finish,
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.finance-manager, .finance-manager or .)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Username, "user", "u", "", "Username to act as")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Password, "password", "p", "", "Password (prompted when omitted on a terminal)")

	coloredcobra.Init(&coloredcobra.Config{
		RootCmd:         Cmd,
		Headings:        coloredcobra.HiCyan + coloredcobra.Bold + coloredcobra.Underline,
		Commands:        coloredcobra.HiYellow + coloredcobra.Bold,
		Example:         coloredcobra.Italic,
		ExecName:        coloredcobra.Bold,
		Flags:           coloredcobra.Bold,
		NoExtraNewlines: true,
	})
}

func setup(cmd *cobra.Command, args []string) error {
	if app != nil {
		return nil
	}
	config.LoadEnv(nil)

	cfg, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	app = c

	restored := app.GetService().LoadUsers()
	app.GetLogger().Debug("Session started",
		logging.Field{Key: logging.FieldCount, Value: restored},
		logging.Field{Key: logging.FieldOperation, Value: cmd.CommandPath()})
	return nil
}

func finish(cmd *cobra.Command, args []string) error {
	if app == nil || cmd.Annotations[AnnotationMutates] == "" {
		return nil
	}
	if err := app.GetService().SaveUsers(); err != nil {
		// Save failures are reported, never fatal.
		Printer(cmd).Warn("Warning: %v", err)
	}
	if current != nil {
		alerts, err := app.GetService().Alerts(current)
		if err == nil {
			Printer(cmd).Alerts(alerts)
		}
	}
	return nil
}

// Mutating marks cmd so its changes are saved once it completes.
func Mutating(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[AnnotationMutates] = "true"
	return cmd
}

// Service returns the finance service of the running session.
func Service() (*service.FinanceService, error) {
	if app == nil {
		return nil, errors.New("application is not initialized")
	}
	return app.GetService(), nil
}

// App returns the container of the running session.
func App() *container.Container {
	return app
}

// Close releases the session's resources and forgets the logged-in user.
func Close() error {
	current = nil
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}
