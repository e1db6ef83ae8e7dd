package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	waitBudget   = 45 * time.Second
	ensureBudget = 30 * time.Second
)

var errNoBrokers = errors.New("no brokers configured")

// dialAny connects to the first broker that answers.
func dialAny(ctx context.Context, brokers []string) (*kafka.Conn, error) {
	if len(brokers) == 0 {
		return nil, errNoBrokers
	}
	var lastErr error
	for _, b := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", b)
		if err == nil {
			return conn, nil
		}
		lastErr = fmt.Errorf("dial broker %s: %w", b, err)
	}
	return nil, lastErr
}

// WaitForBroker polls once a second until some broker accepts a connection.
func WaitForBroker(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return errNoBrokers
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		conn, err := dialAny(ctx, brokers)
		if err == nil {
			conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for broker: %w (last error: %v)", ctx.Err(), err)
		case <-ticker.C:
		}
	}
}

// EnsureTopic creates a single-partition topic through the controller, so
// lifecycle events stay totally ordered. An existing topic is fine.
func EnsureTopic(ctx context.Context, brokers []string, topic string) error {
	conn, err := dialAny(ctx, brokers)
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get controller: %w", err)
	}

	ctrlConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer ctrlConn.Close()

	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

// Prepare waits for the cluster and makes sure topic exists. Only an
// unreachable cluster is an error; topic creation problems are returned as a
// warning for the caller to log.
func Prepare(ctx context.Context, brokers []string, topic string) (warning error, err error) {
	waitCtx, cancel := context.WithTimeout(ctx, waitBudget)
	err = WaitForBroker(waitCtx, brokers)
	cancel()
	if err != nil {
		return nil, err
	}

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, ensureBudget)
	defer cancelEnsure()
	return EnsureTopic(ensureCtx, brokers, topic), nil
}

// NewWriter hashes on the message key, which is the database path.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewReader starts at the latest offset: a watcher only cares about databases
// re-created while it runs.
func NewReader(brokers []string, topic, group string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		Topic:             topic,
		GroupID:           group,
		MinBytes:          1,
		MaxBytes:          1 << 20,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
		CommitInterval:    time.Second,
		StartOffset:       kafka.LastOffset,
	})
}
