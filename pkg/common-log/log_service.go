package commonlog

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/masking"
)

// CustomLoggerService collects the detail records of one request or message and writes
// one summary record when End is called.
type CustomLoggerService interface {
	Init(data LogDto)
	GetLogDto() LogDto
	Info(action logAction.LoggerAction, data any, options ...masking.MaskingOptionDto)
	Debug(action logAction.LoggerAction, data any, options ...masking.MaskingOptionDto)
	Error(action logAction.LoggerAction, data any, options ...masking.MaskingOptionDto)
	SetSummary(params LogEventTag) CustomLoggerService
	SetSummaryLogErrorSource(param ErrorSourceType) CustomLoggerService
	SetDependencyMetadata(metadata LogDependencyMetadata) CustomLoggerService
	End(code int, message string)
}

type customLoggerService struct {
	mu          sync.Mutex
	logDto      LogDto
	errorSource map[string]any
	sequences   []Sequence
	ended       bool
	detailLog   LoggerService
	summaryLog  LoggerService
	masker      masking.MaskingService
	timer       *Timer
}

var defaultMasker = masking.NewMaskingService()

type Timer struct {
	begin time.Time
}

func NewTimer() *Timer {
	return &Timer{begin: time.Now()}
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.begin)
}

func NewLogger(detailLog LoggerService, summaryLog LoggerService, timer *Timer) CustomLoggerService {
	if timer == nil {
		timer = NewTimer()
	}

	return &customLoggerService{
		detailLog:  detailLog,
		summaryLog: summaryLog,
		masker:     *defaultMasker,
		timer:      timer,
	}
}

func (c *customLoggerService) Init(data LogDto) {
	c.logDto = data
	c.logDto.LogType = "Detail"
	if c.logDto.SessionId == "" {
		c.logDto.SessionId = uuid.NewString()
	}

	if c.logDto.TransactionId == "" {
		c.logDto.TransactionId = uuid.NewString()
	}

	if c.logDto.Instance == "" {
		c.logDto.Instance, _ = os.Hostname()
	}
}

func (c *customLoggerService) GetLogDto() LogDto {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.logDto
}

func (c *customLoggerService) SetDependencyMetadata(metadata LogDependencyMetadata) CustomLoggerService {
	if metadata.Dependency != "" {
		c.logDto.Dependency = metadata.Dependency
	}

	if metadata.ResponseTime != 0 {
		c.logDto.ResponseTime = metadata.ResponseTime
	}

	if metadata.ResultCode != "" {
		c.logDto.ResultCode = metadata.ResultCode
	}

	if metadata.ResultFlag != "" {
		c.logDto.ResultFlag = metadata.ResultFlag
	}
	return c
}

func (c *customLoggerService) detail(action logAction.LoggerAction, data any, options []masking.MaskingOptionDto) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logDto.Action = action.Action
	c.logDto.ActionDescription = action.ActionDescription
	c.logDto.SubAction = action.SubAction
	c.logDto.Message = toJSON(cloneAndMask(data, options, c.masker))
	c.logDto.Timestamp = time.Now().Format(time.RFC3339)
	defer func() { c.logDto.SubAction = "" }()

	b, err := json.Marshal(c.logDto)
	if err != nil {
		c.detailLog.Errorf("failed to marshal log data: %v", err)
		return "", false
	}
	return string(b), true
}

func (c *customLoggerService) Info(action logAction.LoggerAction, data any, options ...masking.MaskingOptionDto) {
	if line, ok := c.detail(action, data, options); ok {
		c.detailLog.Log(line)
	}
}

func (c *customLoggerService) Debug(action logAction.LoggerAction, data any, options ...masking.MaskingOptionDto) {
	if line, ok := c.detail(action, data, options); ok {
		c.detailLog.Debug(line)
	}
}

func (c *customLoggerService) Error(action logAction.LoggerAction, data any, options ...masking.MaskingOptionDto) {
	if line, ok := c.detail(action, data, options); ok {
		c.detailLog.Error(line)
	}
}

func (c *customLoggerService) SetSummaryLogErrorSource(param ErrorSourceType) CustomLoggerService {
	c.errorSource = map[string]any{
		"errorSource": map[string]any{
			"node":        param.Node,
			"code":        param.Code,
			"description": param.Description,
		},
	}
	return c
}

// SetSummary appends a result to the node/command sequence, creating it on first use.
func (c *customLoggerService) SetSummary(param LogEventTag) CustomLoggerService {
	c.mu.Lock()
	defer c.mu.Unlock()

	if param.Command == "" {
		param.Command = c.logDto.ActionDescription
	}

	result := SequenceResult{
		Result:  param.Code,
		Desc:    param.Description,
		ResTime: param.ResTime,
	}

	for i, seq := range c.sequences {
		if seq.Node == param.Node && seq.Command == param.Command {
			c.sequences[i].Result = append(c.sequences[i].Result, result)
			return c
		}
	}

	c.sequences = append(c.sequences, Sequence{
		Node:    param.Node,
		Command: param.Command,
		Result:  []SequenceResult{result},
	})
	return c
}

// End writes the summary record once. Later calls are ignored.
func (c *customLoggerService) End(code int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return
	}
	c.ended = true

	result := expandResultCode(code)
	if message == "" {
		message = result.Message
	}

	newSummaryWriter(c.summaryLog).write(c, Stack{
		Code:     result.ResultCode,
		Message:  message,
		Status:   result.StatusCode,
		Severity: result.Severity,
	})
}
