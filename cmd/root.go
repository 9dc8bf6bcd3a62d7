package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/OliveiraNt/kafkaman/internal/application"
	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/OliveiraNt/kafkaman/internal/domain"
	"github.com/OliveiraNt/kafkaman/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	BrokerEnv = "KAFKAMAN_BROKER"
	ConfigEnv = "KAFKAMAN_CONFIG"
)

// cli holds the state shared by the commands of one execution.
type cli struct {
	factory application.SessionFactory
	out     io.Writer

	global   config.GlobalOptions
	logLevel string

	outcome *domain.CommandOutcome
}

// Execute runs kafkaman with args and returns the process exit status.
func Execute(ctx context.Context, args []string, factory application.SessionFactory, out io.Writer) int {
	c := &cli{factory: factory, out: out}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)

	err := root.ExecuteContext(ctx)
	if c.outcome != nil {
		return c.outcome.ExitCode()
	}
	if err == nil {
		return domain.ExitOK
	}

	// Flag, argument and unknown-command errors come from cobra before any
	// command ran.
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		err = &domain.ConfigError{Reason: err.Error()}
	}
	utils.Logger.Error("invalid command line", "err", err)
	return domain.ExitCode(err)
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "kafkaman",
		Short: "Kafka administration from the command line",
		Long: `kafkaman manages topics on a Kafka cluster.

Examples:
  kafkaman --broker localhost:9092 create-topic orders -p 6 -r 1
  kafkaman create-topic a b c -r 3 --topic-config retention.ms=86400000
  kafkaman --cluster prod list-topics
  kafkaman delete-topic old-topic`,
		PersistentPreRunE: c.prepare,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	fs := root.PersistentFlags()
	fs.StringVarP(&c.global.Broker, "broker", "b", config.DefaultBroker, "bootstrap broker host:port, comma separated (env: "+BrokerEnv+")")
	fs.StringVar(&c.global.Cluster, "cluster", "", "cluster profile from the config file")
	fs.StringVar(&c.global.ConfigPath, "config", "", "cluster profile file (env: "+ConfigEnv+")")
	fs.StringVar(&c.global.SessionTimeout, "session-timeout", "", "time allowed to connect (default 6s)")
	fs.StringVar(&c.global.RequestTimeout, "request-timeout", "", "time allowed for the broker to answer (default 30s)")
	fs.StringVar(&c.logLevel, "log-level", "", "trace, debug, info, warn or error (env: "+utils.LogLevelEnv+")")

	root.SetFlagErrorFunc(flagError)

	root.AddCommand(
		c.createTopicCommand(),
		c.deleteTopicCommand(),
		c.listTopicsCommand(),
		c.echoCommand(),
		c.produceCommand(),
	)
	return root
}

// prepare resolves the global options that may come from the environment.
func (c *cli) prepare(cmd *cobra.Command, _ []string) error {
	if c.logLevel != "" && !utils.SetLogLevel(c.logLevel) {
		return &domain.ConfigError{Field: "log-level", Value: c.logLevel, Reason: "unknown level"}
	}

	fs := cmd.Flags()
	c.global.Broker, c.global.BrokerSet = fromEnv(fs, "broker", BrokerEnv)
	c.global.ConfigPath, _ = fromEnv(fs, "config", ConfigEnv)
	if c.global.ConfigPath == "" && c.global.Cluster != "" {
		c.global.ConfigPath = config.FindConfigPath()
	}
	return nil
}

// fromEnv returns the flag value, or env when the flag was not given. The
// second result reports whether either was set explicitly.
func fromEnv(fs *pflag.FlagSet, name, env string) (string, bool) {
	f := fs.Lookup(name)
	if f == nil {
		return "", false
	}
	if f.Changed {
		return f.Value.String(), true
	}
	if v := os.Getenv(env); v != "" {
		return v, true
	}
	return f.Value.String(), false
}

func flagError(_ *cobra.Command, err error) error {
	return &domain.ConfigError{Field: "flags", Reason: err.Error()}
}

// args wraps a cobra argument validator so its errors are ConfigErrors.
func args(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := v(cmd, a); err != nil {
			return &domain.ConfigError{Field: "arguments", Reason: err.Error()}
		}
		return nil
	}
}

// run dispatches inv, or reports err when the command line was invalid.
func (c *cli) run(cmd *cobra.Command, op config.Operation, inv *config.Invocation, err error) error {
	outcome, failed := application.Configuring(op, err)
	if !failed {
		outcome = application.NewDispatcher(c.factory, c.out).Run(cmd.Context(), inv)
	}
	c.outcome = &outcome
	return outcome.Err
}
