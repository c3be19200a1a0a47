package router

import (
	"net/http"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	gokpHTTP "github.com/sing3demons/go-bakery-service/pkg/http"
	kafkaService "github.com/sing3demons/go-bakery-service/pkg/kafka"
)

// NewTestContext builds a Context around r with silent loggers and default configuration.
// p may be nil.
func NewTestContext(w http.ResponseWriter, r *http.Request, p kafkaService.Publisher) *Context {
	nop := commonlog.NewNopLoggerService()
	logs := LogService{appLog: nop, detailLog: nop, summaryLog: nop}

	return newContext(w, gokpHTTP.NewRequest(r), p, logs, config.NewConfig())
}

// NewTestMessageContext builds a Context for a consumed message.
func NewTestMessageContext(msg *kafkaService.Message) *Context {
	nop := commonlog.NewNopLoggerService()
	logs := LogService{appLog: nop, detailLog: nop, summaryLog: nop}

	return newContext(nil, msg, nil, logs, config.NewConfig())
}
