package kafka

import (
	"fmt"
	"io"
)

// Log is the debug record written for every published or consumed message.
type Log struct {
	Mode          string `json:"mode"`
	CorrelationID string `json:"correlation_id"`
	MessageValue  string `json:"message_value"`
	Topic         string `json:"topic"`
	Host          string `json:"host"`
	PubSubBackend string `json:"pub_sub_backend"`
	Time          int64  `json:"time"`
}

func (l *Log) PrettyPrint(writer io.Writer) {
	fmt.Fprintf(writer, "\u001B[38;5;8m%s \u001B[38;5;24m%-6s\u001B[0m %8d\u001B[38;5;8mµs\u001B[0m %s %s %s\n",
		l.CorrelationID, l.PubSubBackend, l.Time, l.Mode, l.Topic, l.MessageValue)
}

func (l *Log) String() string {
	return fmt.Sprintf("%s %s topic=%s host=%s %dµs %s", l.PubSubBackend, l.Mode, l.Topic, l.Host, l.Time, l.MessageValue)
}
