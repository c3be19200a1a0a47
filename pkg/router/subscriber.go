package router

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	config "github.com/sing3demons/go-bakery-service/configs"
	kafkaService "github.com/sing3demons/go-bakery-service/pkg/kafka"
)

type SubscribeFunc func(c *Context) error

type SubscriptionManager struct {
	kafkaService.KafkaClient
	subscriptions map[string]SubscribeFunc
	logs          LogService
	conf          *config.Config
}

func newSubscriptionManager(client kafkaService.KafkaClient, logs LogService, conf *config.Config) SubscriptionManager {
	return SubscriptionManager{
		KafkaClient:   client,
		subscriptions: make(map[string]SubscribeFunc),
		logs:          logs,
		conf:          conf,
	}
}

// startSubscriber keeps reading topic until ctx is cancelled.
func (s *SubscriptionManager) startSubscriber(ctx context.Context, topic string, handler SubscribeFunc) error {
	for {
		select {
		case <-ctx.Done():
			s.logs.appLog.Logf("shutting down subscriber for topic %s", topic)
			return nil
		default:
			if err := s.handleSubscription(ctx, topic, handler); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				s.logs.appLog.Errorf("error in subscription for topic %s: %v", topic, err)
			}
		}
	}
}

// handleSubscription reads one message and commits it when handler succeeds.
func (s *SubscriptionManager) handleSubscription(ctx context.Context, topic string, handler SubscribeFunc) error {
	msg, err := s.KafkaClient.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	if msg == nil {
		return nil
	}

	msgCtx := newContext(nil, msg, s.KafkaClient, s.logs, s.conf)
	err = func(c *Context) (err error) {
		defer func() {
			if re := recover(); re != nil {
				err = panicRecovery(re, s.logs.appLog)
			}
		}()

		return handler(c)
	}(msgCtx)

	if err != nil {
		s.logs.appLog.Errorf("error in handler for topic %s: %v", topic, err)
		msgCtx.Log.End(500, err.Error())
		return nil
	}

	if msg.Committer != nil {
		msg.Commit()
	}
	msgCtx.Log.End(200, "")

	return nil
}

type PanicLog struct {
	Error      string `json:"error,omitempty"`
	StackTrace string `json:"stack_trace,omitempty"`
}

type logger interface {
	Errorf(format string, args ...any)
}

func panicRecovery(re any, log logger) error {
	var e string
	switch t := re.(type) {
	case string:
		e = t
	case error:
		e = t.Error()
	default:
		e = fmt.Sprint(t)
	}

	log.Errorf("panic: %s\n%s", e, string(debug.Stack()))
	return errors.New("panic: " + e)
}
