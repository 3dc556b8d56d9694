package main

import (
	"errors"
	"fmt"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/equipment-health-etl/internal/adapter/kafka"
)

func newPublishCmd(g *globalFlags) *cobra.Command {
	var brokers, topic string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish area and system scores to Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			if brokers != "" {
				s.cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
			}
			if topic != "" {
				s.cfg.KafkaSinkTopic = topic
			}
			if len(s.cfg.KafkaBrokers) == 0 {
				return errors.New("no Kafka brokers: pass --brokers or set KAFKA_BROKERS")
			}

			w := kafka.NewWriter(s.cfg, s.logger)
			defer w.Close()

			res, err := s.engine.Publish(cmd.Context(), w, s.dataset, s.filter)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d area and %d system scores to %s (state %s)\n",
				len(res.Aggregates.Areas), len(res.Aggregates.Systems), s.cfg.KafkaSinkTopic, res.State)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&brokers, "brokers", "", "Comma-separated broker list (default $KAFKA_BROKERS)")
	f.StringVar(&topic, "topic", "", "Sink topic (default $KAFKA_SINK_TOPIC)")
	return cmd
}
