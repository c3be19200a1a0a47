package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

var (
	ErrConsumerGroupNotProvided = errors.New("consumer group id not provided")
	errBrokerNotProvided        = errors.New("kafka broker address not provided")
	errPublisherNotConfigured   = errors.New("can't publish message. Publisher not configured or topic is empty")
	errBatchSize                = errors.New("KAFKA_BATCH_SIZE must be greater than 0")
	errBatchBytes               = errors.New("KAFKA_BATCH_BYTES must be greater than 0")
	errBatchTimeout             = errors.New("KAFKA_BATCH_TIMEOUT must be greater than 0")
	errClientNotConnected       = errors.New("kafka client not connected")
)

const (
	DefaultBatchSize    = 100
	DefaultBatchBytes   = 1048576
	DefaultBatchTimeout = 1000
	defaultRetryTimeout = 10 * time.Second
	tracerName          = "bakery-kafka"
)

type Config struct {
	Broker          string        `yaml:"broker" env:"KAFKA_BROKER"`
	Partition       int           `yaml:"partition" env:"KAFKA_PARTITION"`
	ConsumerGroupID string        `yaml:"consumer_group_id" env:"KAFKA_CONSUMER_GROUP_ID"`
	OffSet          int           `yaml:"offset" env:"KAFKA_OFFSET"`
	BatchSize       int           `yaml:"batch_size" env:"KAFKA_BATCH_SIZE"`
	BatchBytes      int           `yaml:"batch_bytes" env:"KAFKA_BATCH_BYTES"`
	BatchTimeout    int           `yaml:"batch_timeout" env:"KAFKA_BATCH_TIMEOUT"`
	RetryTimeout    time.Duration `yaml:"retry_timeout" env:"KAFKA_RETRY_TIMEOUT"`
	AutoCreateTopic bool          `yaml:"auto_create_topic" env:"KAFKA_AUTO_CREATE_TOPIC"`
}

type kafkaClient struct {
	dialer *kafka.Dialer
	conn   Connection

	writer Writer
	reader map[string]Reader

	mu *sync.RWMutex

	logger Logger
	config Config
}

type KafkaClient interface {
	Publisher
	Subscriber
	Close() (err error)

	DeleteTopic(name string) error
	CreateTopic(name string) error
}

// New connects to the configured broker. When the broker is unreachable the returned
// client keeps reconnecting in the background and reports errClientNotConnected until then.
func New(conf *Config, logger Logger) KafkaClient {
	if err := validateConfigs(conf); err != nil {
		logger.Errorf("could not initialize kafka, error: %v", err)
		return nil
	}

	logger.Debugf("connecting to Kafka broker '%s'", conf.Broker)

	client := &kafkaClient{
		logger: logger,
		config: *conf,
		mu:     &sync.RWMutex{},
	}

	dialer, conn, writer, err := initializeKafkaClient(conf, logger)
	if err != nil {
		logger.Errorf("failed to connect to kafka at %v, error: %v", conf.Broker, err)

		go retryConnect(client, conf, logger)

		return client
	}

	client.dialer = dialer
	client.conn = conn
	client.writer = writer
	client.reader = make(map[string]Reader)

	return client
}

func validateConfigs(conf *Config) error {
	if conf.Broker == "" {
		return errBrokerNotProvided
	}

	if conf.BatchSize <= 0 {
		return fmt.Errorf("batch size must be greater than 0: %w", errBatchSize)
	}

	if conf.BatchBytes <= 0 {
		return fmt.Errorf("batch bytes must be greater than 0: %w", errBatchBytes)
	}

	if conf.BatchTimeout <= 0 {
		return fmt.Errorf("batch timeout must be greater than 0: %w", errBatchTimeout)
	}

	return nil
}

func (k *kafkaClient) Publish(ctx context.Context, topic string, message []byte) error {
	ctx, span := otel.GetTracerProvider().Tracer(tracerName).Start(ctx, "kafka-publish")
	defer span.End()

	k.mu.RLock()
	writer := k.writer
	k.mu.RUnlock()

	if writer == nil || topic == "" {
		return errPublisherNotConfigured
	}

	start := time.Now()
	err := writer.WriteMessages(ctx,
		kafka.Message{
			Topic: topic,
			Value: message,
			Time:  start,
		},
	)
	end := time.Since(start)

	if err != nil {
		k.logger.Errorf("failed to publish message to kafka broker, error: %v", err)
		return err
	}

	k.logger.Debug(&Log{
		Mode:          "PUB",
		CorrelationID: span.SpanContext().TraceID().String(),
		MessageValue:  string(message),
		Topic:         topic,
		Host:          k.config.Broker,
		PubSubBackend: "KAFKA",
		Time:          end.Microseconds(),
	})

	return nil
}

func (k *kafkaClient) Subscribe(ctx context.Context, topic string) (*Message, error) {
	if !k.isConnected() {
		time.Sleep(k.retryTimeout())

		return nil, errClientNotConnected
	}

	if k.config.ConsumerGroupID == "" {
		k.logger.Error("cannot subscribe as consumer_id is not provided in configs")

		return nil, ErrConsumerGroupNotProvided
	}

	ctx, span := otel.GetTracerProvider().Tracer(tracerName).Start(ctx, "kafka-subscribe")
	defer span.End()

	k.mu.Lock()
	if k.reader == nil {
		k.reader = make(map[string]Reader)
	}

	reader := k.reader[topic]
	if reader == nil {
		reader = k.getNewReader(topic)
		k.reader[topic] = reader
	}
	k.mu.Unlock()

	start := time.Now()

	msg, err := reader.FetchMessage(ctx)
	if err != nil {
		k.logger.Errorf("failed to read message from kafka topic %s: %v", topic, err)

		return nil, err
	}

	m := NewMessage(ctx)
	m.Value = msg.Value
	m.Topic = topic
	m.Meta = headersOf(msg)
	m.Committer = newKafkaMessage(&msg, reader, k.logger)

	k.logger.Debug(&Log{
		Mode:          "SUB",
		CorrelationID: span.SpanContext().TraceID().String(),
		MessageValue:  string(msg.Value),
		Topic:         topic,
		Host:          k.config.Broker,
		PubSubBackend: "KAFKA",
		Time:          time.Since(start).Microseconds(),
	})

	return m, nil
}

func (k *kafkaClient) Close() (err error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, r := range k.reader {
		err = errors.Join(err, r.Close())
	}

	if k.writer != nil {
		err = errors.Join(err, k.writer.Close())
	}

	if k.conn != nil {
		err = errors.Join(err, k.conn.Close())
	}

	return err
}

func initializeKafkaClient(conf *Config, logger Logger) (*kafka.Dialer, Connection, Writer, error) {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	conn, err := dialer.DialContext(context.Background(), "tcp", conf.Broker)
	if err != nil {
		return nil, nil, nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(conf.Broker),
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    conf.BatchSize,
		BatchBytes:   int64(conf.BatchBytes),
		BatchTimeout: time.Duration(conf.BatchTimeout) * time.Millisecond,
	}

	logger.Logf("connected to Kafka broker '%s'", conf.Broker)

	return dialer, conn, writer, nil
}

func (k *kafkaClient) getNewReader(topic string) Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		GroupID:     k.config.ConsumerGroupID,
		Brokers:     []string{k.config.Broker},
		Topic:       topic,
		MinBytes:    10e3,
		MaxBytes:    10e6,
		Dialer:      k.dialer,
		StartOffset: int64(k.config.OffSet),
	})
}

func (k *kafkaClient) DeleteTopic(name string) error {
	if !k.isConnected() {
		return errClientNotConnected
	}
	return k.conn.DeleteTopics(name)
}

func (k *kafkaClient) CreateTopic(name string) error {
	if !k.isConnected() {
		return errClientNotConnected
	}

	return k.conn.CreateTopics(kafka.TopicConfig{Topic: name, NumPartitions: 1, ReplicationFactor: 1})
}

func (k *kafkaClient) retryTimeout() time.Duration {
	if k.config.RetryTimeout > 0 {
		return k.config.RetryTimeout
	}
	return defaultRetryTimeout
}

func retryConnect(client *kafkaClient, conf *Config, logger Logger) {
	for {
		time.Sleep(client.retryTimeout())

		dialer, conn, writer, err := initializeKafkaClient(conf, logger)
		if err != nil {
			logger.Errorf("could not connect to Kafka at '%v', error: %v", conf.Broker, err)
			continue
		}

		client.mu.Lock()
		client.conn = conn
		client.dialer = dialer
		client.writer = writer
		client.reader = make(map[string]Reader)
		client.mu.Unlock()

		return
	}
}

func (k *kafkaClient) isConnected() bool {
	k.mu.RLock()
	conn := k.conn
	k.mu.RUnlock()

	if conn == nil {
		return false
	}

	_, err := conn.Controller()

	return err == nil
}

func headersOf(msg kafka.Message) map[string]string {
	if len(msg.Headers) == 0 {
		return nil
	}

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return headers
}
