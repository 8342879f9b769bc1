package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glbter/distributed-systems/advisor/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Serve simulation requests from RabbitMQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		if settings.RabbitURL == "" {
			return errors.New("rabbit url is empty")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := newEngine()
		if err != nil {
			return err
		}

		conn, ch, err := dialRabbit(settings.RabbitURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		defer ch.Close()

		// one unacked request per worker slot
		if err := ch.Qos(settings.SimulationWorkers, 0, false); err != nil {
			return err
		}

		return worker.NewSimulationWorker(ch, e, settings.RequestTimeout, logger).Run(ctx)
	},
}
