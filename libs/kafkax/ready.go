package kafkax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReadyCheck passes when any broker accepts a connection and, if topics are
// given, the cluster reports partitions for each of them.
func ReadyCheck(brokers string, topics ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		list := SplitBrokers(brokers)
		if len(list) == 0 {
			return errors.New("kafka brokers not configured")
		}
		dialer := kafka.Dialer{Timeout: 2 * time.Second}
		var errs []error
		for _, addr := range list {
			conn, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			err = checkTopics(conn, topics)
			_ = conn.Close()
			return err
		}
		return errors.Join(errs...)
	}
}

func checkTopics(conn *kafka.Conn, topics []string) error {
	for _, topic := range topics {
		if _, err := conn.ReadPartitions(topic); err != nil {
			return fmt.Errorf("topic %s: %w", topic, err)
		}
	}
	return nil
}
