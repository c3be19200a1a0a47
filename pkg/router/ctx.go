package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	kafkaService "github.com/sing3demons/go-bakery-service/pkg/kafka"
)

var (
	ErrPublisherUnavailable = errors.New("kafka publisher is not configured")
	errResponseWritten      = errors.New("response already written")
)

// Context carries one HTTP request or Kafka message through a handler.
type Context struct {
	context.Context
	Request
	http.ResponseWriter
	Logger commonlog.LoggerService
	Log    commonlog.CustomLoggerService

	publisher kafkaService.Publisher
	conf      *config.Config
	written   atomic.Bool
}

type Request interface {
	Context() context.Context
	Param(string) string
	PathParam(string) string
	Bind(any) error
	HostName() string
	Params(string) []string
	SessionId() string
	TransactionId() string
	RequestId() string
	Header(string) string
	Headers() map[string]any
	Method() string
	URL() string
}

func (c *Context) Bind(i any) error {
	return c.Request.Bind(i)
}

// Header returns a request header. Response headers are reached through c.ResponseWriter.
func (c *Context) Header(key string) string {
	return c.Request.Header(key)
}

type LogService struct {
	appLog     commonlog.LoggerService
	detailLog  commonlog.LoggerService
	summaryLog commonlog.LoggerService
}

func newContext(w http.ResponseWriter, r Request, p kafkaService.Publisher, logger LogService, conf *config.Config) *Context {
	kpLog := commonlog.NewLogger(logger.detailLog, logger.summaryLog, commonlog.NewTimer())
	ctx := &Context{
		Context:        r.Context(),
		Request:        r,
		ResponseWriter: w,
		Logger:         logger.appLog,
		publisher:      p,
		conf:           conf,
	}

	broker, origin := "none", "HTTP Service"
	if w == nil {
		broker, origin = "kafka", "Event Source"
	}

	kpLog.Init(commonlog.LogDto{
		Channel:              "none",
		UseCase:              "none",
		UseCaseStep:          "none",
		Broker:               broker,
		TransactionId:        r.TransactionId(),
		SessionId:            r.SessionId(),
		RequestId:            r.RequestId(),
		AppName:              conf.App.Name,
		ComponentVersion:     conf.App.Version,
		ComponentName:        conf.App.ComponentName,
		OriginateServiceName: origin,
		RecordType:           "detail",
	})

	ctx.Log = kpLog
	return ctx
}

type Header struct {
	Broker      string `json:"broker"`
	Channel     string `json:"channel"`
	UseCase     string `json:"useCase"`
	UseCaseStep string `json:"useCaseStep"`
	Identity    struct {
		Device any    `json:"device"`
		User   string `json:"user"`
	} `json:"identity"`
	Session     string `json:"session"`
	Transaction string `json:"transaction"`
}

// KafkaPayload is the envelope of every message this service publishes.
type KafkaPayload struct {
	Header Header `json:"header"`
	Body   any    `json:"body"`
}

// Publish wraps message in a KafkaPayload carrying the session and transaction of c
// and sends it to topic.
func (c *Context) Publish(topic string, message any) error {
	start := time.Now()
	summary := commonlog.NewEventTag("kafka", topic)

	body := KafkaPayload{Body: message}
	body.Header.Broker = c.conf.Kafka.Broker
	body.Header.Channel = topic
	body.Header.UseCase = topic
	body.Header.UseCaseStep = "publish"
	body.Header.Session = c.Request.SessionId()
	body.Header.Transaction = c.Request.TransactionId()
	body.Header.Identity.Device = c.Request.HostName()
	body.Header.Identity.User = c.Request.Header("x-user-email")

	c.Log.Info(logAction.PRODUCING(topic, ""), map[string]any{
		"topic": topic,
		"value": body,
	})

	if c.publisher == nil {
		c.Log.SetSummary(summary.Update("50300", ErrPublisherUnavailable.Error())).
			Error(logAction.PRODUCED(topic, ""), ErrPublisherUnavailable.Error())
		return ErrPublisherUnavailable
	}

	msg, err := json.Marshal(body)
	if err != nil {
		c.Log.SetSummary(summary.Update("50000", err.Error())).Error(logAction.PRODUCED(topic, ""), err.Error())
		return err
	}

	if err := c.publisher.Publish(c.Context, topic, msg); err != nil {
		summary.ResTime = time.Since(start).Microseconds()
		c.Log.SetSummary(summary.Update("50000", err.Error())).Error(logAction.PRODUCED(topic, ""), err.Error())
		return err
	}

	summary.ResTime = time.Since(start).Microseconds()
	c.Log.SetSummary(summary).Info(logAction.PRODUCED(topic, ""), summary.Description)

	return nil
}

// JSON writes v with status code and closes the summary log. Only the first response of
// a request is written.
func (c *Context) JSON(code int, v any) error {
	if !c.written.CompareAndSwap(false, true) {
		return errResponseWritten
	}

	if c.ResponseWriter != nil {
		c.ResponseWriter.Header().Set("Content-Type", "application/json; charset=UTF-8")
		c.ResponseWriter.WriteHeader(code)

		if err := json.NewEncoder(c.ResponseWriter).Encode(v); err != nil {
			c.Log.Error(logAction.OUTBOUND("client", ""), err.Error())
			c.Log.End(code, err.Error())
			return err
		}
		c.Log.Info(logAction.OUTBOUND("client", ""), v)
	}

	c.Log.End(code, "")
	return nil
}

// Error writes {"error": message} with status code.
func (c *Context) Error(code int, message string) error {
	return c.JSON(code, ErrorResponse{Error: message})
}

type ErrorResponse struct {
	Error string `json:"error"`
}
