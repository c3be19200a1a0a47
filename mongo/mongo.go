package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrNotConnected = errors.New("mongo client is not connected")

type Client struct {
	cfg    config.MongoConfig
	client *driver.Client
	db     *driver.Database
	log    commonlog.LoggerService
}

func New(cfg config.MongoConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{cfg: cfg, log: commonlog.NewNopLoggerService()}
}

func (c *Client) UseLogger(log commonlog.LoggerService) {
	c.log = log
}

// Connect dials the server and pings the primary.
func (c *Client) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	opts := options.Client().ApplyURI(c.cfg.URI).SetTimeout(c.cfg.Timeout)
	client, err := driver.Connect(ctx, opts)
	if err != nil {
		c.log.Errorf("mongo connect %s: %v", c.cfg.Database, err)
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		c.log.Errorf("mongo ping %s: %v", c.cfg.Database, err)
		return err
	}

	c.client = client
	c.db = client.Database(c.cfg.Database)
	c.log.Logf("connected to mongo database %s", c.cfg.Database)
	return nil
}

// Collection panics when called before a successful Connect.
func (c *Client) Collection(name string) *driver.Collection {
	if c.db == nil {
		panic(ErrNotConnected)
	}
	return c.db.Collection(name)
}

func (c *Client) Disconnect(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// Request describes one driver call for the detail log.
type Request struct {
	Collection string `json:"collection"`
	Method     string `json:"method"`
	Query      any    `json:"query,omitempty"`
	Document   any    `json:"document,omitempty"`
	Options    any    `json:"options,omitempty"`
}

// RawString renders the call in mongo shell form, e.g. products.find({'name':'Bun'}).
func (r Request) RawString() string {
	args := make([]string, 0, 3)
	for _, v := range []any{r.Query, r.Document, r.Options} {
		if v == nil {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			args = append(args, fmt.Sprint(v))
			continue
		}
		args = append(args, strings.ReplaceAll(string(b), `"`, "'"))
	}

	return fmt.Sprintf("%s.%s(%s)", r.Collection, r.Method, strings.Join(args, ","))
}

// Op records one driver call in the detail and summary logs.
type Op struct {
	log     commonlog.CustomLoggerService
	action  string
	summary commonlog.LogEventTag
	start   time.Time
}

// Begin logs the DB_REQUEST record of req against database.
func Begin(log commonlog.CustomLoggerService, database, command, action string, req Request) *Op {
	op := &Op{
		log:     log,
		action:  action,
		summary: commonlog.NewEventTag("mongo", command),
		start:   time.Now(),
	}

	log.SetDependencyMetadata(commonlog.LogDependencyMetadata{
		Dependency: database,
	}).Info(logAction.DB_REQUEST(action, command), map[string]any{
		"Body":    req,
		"RawData": req.RawString(),
	})
	return op
}

// Done logs the DB_RESPONSE record. ErrNoDocuments is reported as 40400.
func (op *Op) Done(err error, result any) error {
	elapsed := time.Since(op.start).Microseconds()
	op.summary.ResTime = elapsed
	action := logAction.DB_RESPONSE(op.action, op.summary.Command)

	switch {
	case err == nil:
		op.log.SetSummary(op.summary).SetDependencyMetadata(commonlog.LogDependencyMetadata{
			ResponseTime: elapsed,
			ResultCode:   "20000",
		}).Info(action, map[string]any{"Body": result})
	case errors.Is(err, driver.ErrNoDocuments):
		op.log.SetSummary(op.summary.Update("40400", "data not found")).Info(action, err.Error())
	default:
		op.log.SetSummary(op.summary.Update("50000", err.Error())).Error(action, err.Error())
	}
	return err
}
