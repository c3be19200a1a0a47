package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBind(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		m := NewMessage(context.Background())
		m.Value = []byte(`{"id":42,"state":"READY"}`)

		var v struct {
			ID    int64  `json:"id"`
			State string `json:"state"`
		}
		require.NoError(t, m.Bind(&v))
		assert.Equal(t, int64(42), v.ID)
		assert.Equal(t, "READY", v.State)
	})

	t.Run("scalars", func(t *testing.T) {
		m := NewMessage(nil)

		m.Value = []byte("12")
		var i int
		require.NoError(t, m.Bind(&i))
		assert.Equal(t, 12, i)

		m.Value = []byte("true")
		var b bool
		require.NoError(t, m.Bind(&b))
		assert.True(t, b)

		m.Value = []byte("plain")
		var s string
		require.NoError(t, m.Bind(&s))
		assert.Equal(t, "plain", s)
	})

	t.Run("not a pointer", func(t *testing.T) {
		m := NewMessage(context.Background())
		var s string
		assert.ErrorIs(t, m.Bind(s), errNotPointer)
	})
}

func TestMessageIdentifiers(t *testing.T) {
	m := NewMessage(context.Background())
	m.Topic = "order_saved"
	m.Meta = map[string]string{HeaderSessionID: "session-1"}

	assert.Equal(t, "session-1", m.SessionId())
	assert.Equal(t, "session-1", m.Header(HeaderSessionID))

	tx := m.TransactionId()
	assert.NotEmpty(t, tx)
	assert.Equal(t, tx, m.TransactionId(), "generated ids are stable for the message")

	assert.Equal(t, "order_saved", m.Param("topic"))
	assert.Equal(t, "order_saved", m.URL())
	assert.Len(t, m.Headers(), 2)
}

type fakeReader struct {
	committed []kafka.Message
	err       error
}

func (f *fakeReader) FetchMessage(context.Context) (kafka.Message, error) { return kafka.Message{}, nil }
func (f *fakeReader) Close() error                                        { return nil }
func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return f.err
}

type nopLogger struct{ errors int }

func (*nopLogger) Debugf(string, ...any) {}
func (*nopLogger) Debug(...any)          {}
func (*nopLogger) Logf(string, ...any)   {}
func (l *nopLogger) Errorf(string, ...any) {
	l.errors++
}
func (l *nopLogger) Error(...any) { l.errors++ }

func TestCommit(t *testing.T) {
	reader := &fakeReader{}
	log := &nopLogger{}
	msg := &kafka.Message{Topic: "order_saved", Offset: 7}

	newKafkaMessage(msg, reader, log).Commit()
	require.Len(t, reader.committed, 1)
	assert.Equal(t, int64(7), reader.committed[0].Offset)

	reader.err = errors.New("broker gone")
	newKafkaMessage(msg, reader, log).Commit()
	assert.Equal(t, 1, log.errors)
}
