package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

var errNotPointer = errors.New("input should be a pointer to a variable")

const (
	HeaderSessionID     = "x-session-id"
	HeaderTransactionID = "x-transaction-id"
	HeaderRequestID     = "x-request-id"
)

// Message is a consumed record. It satisfies the request contract of the router so
// consumers are written like HTTP handlers.
type Message struct {
	ctx context.Context

	Topic  string
	Value  []byte
	Meta   map[string]string

	Committer
}

func NewMessage(ctx context.Context) *Message {
	if ctx == nil {
		return &Message{ctx: context.Background()}
	}

	return &Message{ctx: ctx}
}

func (m *Message) Context() context.Context {
	return m.ctx
}

func (m *Message) Param(p string) string {
	if p == "topic" {
		return m.Topic
	}

	return ""
}

func (m *Message) PathParam(p string) string {
	return m.Param(p)
}

func (*Message) Params(string) []string {
	return nil
}

// SessionId returns the x-session-id header, generating and remembering one when absent.
func (m *Message) SessionId() string {
	return m.headerOrNew(HeaderSessionID)
}

func (m *Message) TransactionId() string {
	return m.headerOrNew(HeaderTransactionID)
}

func (m *Message) RequestId() string {
	return m.headerOrNew(HeaderRequestID)
}

func (m *Message) headerOrNew(key string) string {
	if v := m.Meta[key]; v != "" {
		return v
	}

	if m.Meta == nil {
		m.Meta = make(map[string]string)
	}
	m.Meta[key] = uuid.NewString()
	return m.Meta[key]
}

func (m *Message) Header(key string) string {
	return m.Meta[key]
}

func (m *Message) Headers() map[string]any {
	headers := make(map[string]any, len(m.Meta))
	for k, v := range m.Meta {
		headers[k] = v
	}
	return headers
}

func (*Message) Method() string {
	return "CONSUME"
}

func (m *Message) URL() string {
	return m.Topic
}

func (*Message) HostName() string {
	host, _ := os.Hostname()
	return host
}

// Bind binds the message value to the input variable. The input should be a pointer to a variable.
func (m *Message) Bind(i any) error {
	if reflect.ValueOf(i).Kind() != reflect.Ptr {
		return errNotPointer
	}

	switch v := i.(type) {
	case *string:
		*v = string(m.Value)
		return nil
	case *float64:
		f, err := strconv.ParseFloat(string(m.Value), 64)
		if err != nil {
			return err
		}
		*v = f
		return nil
	case *int:
		in, err := strconv.Atoi(string(m.Value))
		if err != nil {
			return err
		}
		*v = in
		return nil
	case *bool:
		b, err := strconv.ParseBool(string(m.Value))
		if err != nil {
			return err
		}
		*v = b
		return nil
	default:
		return json.Unmarshal(m.Value, i)
	}
}

type kafkaMessage struct {
	msg    *kafka.Message
	reader Reader
	logger Logger
}

func newKafkaMessage(msg *kafka.Message, reader Reader, logger Logger) *kafkaMessage {
	return &kafkaMessage{
		msg:    msg,
		reader: reader,
		logger: logger,
	}
}

func (kmsg *kafkaMessage) Commit() {
	if kmsg.reader != nil {
		if err := kmsg.reader.CommitMessages(context.Background(), *kmsg.msg); err != nil {
			kmsg.logger.Errorf("unable to commit message on kafka: %v", err)
		}
	}
}
