package cmd

import (
	"github.com/OliveiraNt/kafkaman/internal/config"
	"github.com/spf13/cobra"
)

func (c *cli) createTopicCommand() *cobra.Command {
	var (
		partitions        string
		replicationFactor string
		topicConfigs      map[string]string
		dryRun            bool
	)

	cmd := &cobra.Command{
		Use:   "create-topic <name>...",
		Short: "Create one or more topics",
		Long: `Create topics in a single request. Every topic gets the same partition
count and replication factor. A topic that fails does not stop the others, and
topics already created are kept when another one fails.

Examples:
  kafkaman create-topic orders -r 1
  kafkaman create-topic orders -p 12 -r 3
  kafkaman create-topic a b -r 3 --topic-config cleanup.policy=compact
  kafkaman create-topic orders -r 3 --dry-run`,
		Args: args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, names []string) error {
			inv, err := config.NewCreateTopic(c.global, names, partitions, replicationFactor, topicConfigs, dryRun)
			return c.run(cmd, config.OpCreateTopic, inv, err)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&partitions, "partitions", "p", config.DefaultPartitions, "number of partitions")
	fs.StringVarP(&replicationFactor, "replication-factor", "r", "", "replicas per partition (required)")
	fs.StringToStringVar(&topicConfigs, "topic-config", nil, "topic config entry key=value, repeatable")
	fs.BoolVar(&dryRun, "dry-run", false, "ask the broker to validate without creating")
	return cmd
}

func (c *cli) deleteTopicCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-topic <name>...",
		Short: "Delete one or more topics",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, names []string) error {
			inv, err := config.NewDeleteTopic(c.global, names)
			return c.run(cmd, config.OpDeleteTopic, inv, err)
		},
	}
}

func (c *cli) listTopicsCommand() *cobra.Command {
	var internal bool

	cmd := &cobra.Command{
		Use:   "list-topics",
		Short: "List topics with their partition counts",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := config.NewListTopics(c.global, internal)
			return c.run(cmd, config.OpListTopics, inv, err)
		},
	}
	cmd.Flags().BoolVar(&internal, "internal", false, "include internal topics")
	return cmd
}

func (c *cli) echoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "echo <topic>",
		Short: "Print messages from a topic (not implemented)",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			inv, err := config.NewEcho(c.global, a[0])
			return c.run(cmd, config.OpEcho, inv, err)
		},
	}
}

func (c *cli) produceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "produce",
		Short: "Write messages to a topic (not implemented)",
		Args:  args(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := config.NewProduce(c.global)
			return c.run(cmd, config.OpProduce, inv, err)
		},
	}
}
