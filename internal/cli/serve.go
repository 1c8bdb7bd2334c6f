package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/arloliu/allot/trigger"
)

func newServeCmd() *cobra.Command {
	f := &planFlags{}
	var (
		subject    string
		queueGroup string
		noPublish  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a plan for every request received on a NATS subject",
		Long: "Subscribe to a NATS subject and run one allocation per request, replying with a JSON summary.\n\n" +
			"Records are reloaded from the source on every request. Unless --no-publish is set, " +
			"full results are published to the JetStream KV bucket.",
		Example: "  allot serve --nats-url nats://localhost:4222 --database-url postgres://localhost/staffing\n" +
			"  nats request allot.plan.request ''",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.natsURL == "" {
				return errors.New("--nats-url is required")
			}

			env, err := setup(cmd, f, !noPublish)
			if err != nil {
				return err
			}
			defer env.close()

			r := trigger.NewResponder(env.conn, env.planner, trigger.Config{
				Subject:    subject,
				QueueGroup: queueGroup,
			}, trigger.WithLogger(env.logger))

			ctx := cmd.Context()
			if err := r.Start(ctx); err != nil {
				return err
			}
			env.logger.Info("serving plan requests", "subject", r.Subject(), "strategy", env.planner.Strategy().Name())

			<-ctx.Done()
			env.logger.Info("shutting down", "served", r.Served())

			return r.Stop()
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&subject, "subject", trigger.DefaultSubject, "Request subject")
	cmd.Flags().StringVar(&queueGroup, "queue-group", "allot", "Queue group shared by replicas (empty disables)")
	cmd.Flags().BoolVar(&noPublish, "no-publish", false, "Reply only; do not publish results to KV")

	return cmd
}
