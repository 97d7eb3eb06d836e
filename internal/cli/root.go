package cli

import (
	"fmt"
	"os"
	"time"

	"todo_webapp/internal/board"
	"todo_webapp/internal/client"
	"todo_webapp/internal/config"
	"todo_webapp/internal/logger"

	"github.com/spf13/cobra"
)

type app struct {
	cfg   config.ClientConfig
	board *board.Board
}

// NewRootCmd builds the todo command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "Terminal client for the todo API",
		Long: `todo lists, filters, sorts and pages the tasks of a todo server and
sends create, edit, toggle and delete requests to it. Every change is
followed by a full refetch of the list.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
	}

	root.PersistentFlags().String("api", "", "API base URL (default $TODO_API_URL or http://127.0.0.1:8080)")
	root.PersistentFlags().String("token", "", "bearer token for writes (default $TODO_API_TOKEN)")
	root.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newToggleCmd(a),
		newDeleteCmd(a),
		newMetricsCmd(a),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) connect(cmd *cobra.Command) error {
	a.cfg = config.LoadClient()
	logger.InitWithWriter(os.Stderr, a.cfg.LogLevel, false)

	if v, _ := cmd.Flags().GetString("api"); v != "" {
		a.cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		a.cfg.Token = v
	}

	c := client.New(a.cfg.APIURL, a.cfg.Token)
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		c.HTTP.Timeout = timeout
	}
	a.board = board.New(c)

	if err := a.board.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load todos from %s: %w", a.cfg.APIURL, err)
	}
	return nil
}
