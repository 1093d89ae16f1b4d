package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/hrautomator/internal/backendclient"
	"github.com/aryan0dhankhar/hrautomator/internal/directory"
	"github.com/aryan0dhankhar/hrautomator/internal/draft"
	"github.com/aryan0dhankhar/hrautomator/internal/eventlog"
	"github.com/aryan0dhankhar/hrautomator/internal/featureflags"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrautomator/internal/workflow"
	"github.com/aryan0dhankhar/hrautomator/pkg/config"
)

// app is the controller instance a single hrctl invocation works against
type app struct {
	in         io.Reader
	out        io.Writer
	apiURL     string
	verbose    bool
	logger     *slog.Logger
	dispatcher *workflow.Dispatcher
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "hrctl",
		Short:         "Onboard and offboard employees through the automation backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "automation backend address (default $API_URL)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print process logs to stderr")

	root.AddCommand(
		newEmployeesCmd(a),
		newOnboardCmd(a),
		newOffboardCmd(a),
		newHashPasswordCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.apiURL == "" {
		a.apiURL = cfg.APIURL
	}

	level := "error"
	if a.verbose {
		level = "debug"
	}
	a.logger = logger.New(os.Stderr, level)

	client := backendclient.New(a.apiURL, a.logger)
	a.dispatcher = workflow.NewDispatcher(
		client,
		eventlog.New(),
		directory.New(client, a.logger),
		draft.NewStore(),
		a.logger,
		workflow.WithExclusiveWorkflows(featureflags.Enabled(featureflags.ExclusiveWorkflows)),
	)
	return nil
}

// follow prints every log entry appended until the returned stop is called
func (a *app) follow() (stop func()) {
	entries, cancel := a.dispatcher.Log().Subscribe(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			fmt.Fprintln(a.out, formatEntry(e))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
