package commonlog

// ErrorSourceType represents the source of an error.
type ErrorSourceType struct {
	Node        string `json:"node"`
	Code        any    `json:"code"` // string or number
	Description string `json:"description"`
}

type SequenceResult struct {
	Result  string `json:"Result"`
	Desc    string `json:"Desc"`
	ResTime int64  `json:"ResTime,omitempty"` // microseconds
}

type Sequence struct {
	Node    string           `json:"Node"`
	Command string           `json:"Command"`
	Result  []SequenceResult `json:"Result"`
}

// LogEventTag is one step (node + command) recorded in the summary log.
type LogEventTag struct {
	Node        string
	Command     string
	Code        string
	Description string
	ResTime     int64
}

// NewEventTag starts a successful tag for node/command.
func NewEventTag(node, command string) LogEventTag {
	return LogEventTag{
		Node:        node,
		Command:     command,
		Code:        "20000",
		Description: "success",
	}
}

// Update sets the result of the tag and returns the updated value.
func (t *LogEventTag) Update(code, description string) LogEventTag {
	t.Code = code
	t.Description = description
	return *t
}

const (
	SeverityNormal   = "NORMAL"
	SeverityNotice   = "NOTICE"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// LogDto is the record shared by the detail and summary logs.
type LogDto struct {
	AppName              string     `json:"appName,omitempty"`
	ComponentVersion     string     `json:"componentVersion,omitempty"`
	ComponentName        string     `json:"componentName,omitempty"`
	LogType              string     `json:"logType,omitempty"`
	Broker               string     `json:"broker,omitempty"`
	Channel              string     `json:"channel,omitempty"`
	UseCase              string     `json:"useCase,omitempty"`
	UseCaseStep          string     `json:"useCaseStep,omitempty"`
	User                 string     `json:"user,omitempty"`
	Action               string     `json:"action,omitempty"`
	SubAction            string     `json:"subAction,omitempty"`
	ActionDescription    string     `json:"actionDescription,omitempty"`
	Message              string     `json:"message,omitempty"`
	Messages             string     `json:"messages,omitempty"`
	Timestamp            string     `json:"timestamp,omitempty"`
	Dependency           string     `json:"dependency,omitempty"`
	ResponseTime         int64      `json:"responseTime,omitempty"`
	ResultCode           string     `json:"resultCode,omitempty"`
	ResultFlag           string     `json:"resultFlag,omitempty"`
	Instance             string     `json:"instance,omitempty"`
	OriginateServiceName string     `json:"originateServiceName,omitempty"`
	RecordType           string     `json:"recordType,omitempty"`
	SessionId            string     `json:"sessionId,omitempty"`
	TransactionId        string     `json:"transactionId,omitempty"`
	RequestId            string     `json:"requestId,omitempty"`
	AdditionalInfo       any        `json:"additionalInfo,omitempty"`
	AppResult            string     `json:"appResult,omitempty"`
	AppResultCode        string     `json:"appResultCode,omitempty"`
	DateTime             string     `json:"dateTime,omitempty"`
	ServiceTime          int64      `json:"serviceTime,omitempty"`
	AppResultHttpStatus  string     `json:"appResultHttpStatus,omitempty"`
	AppResultType        string     `json:"appResultType,omitempty"`
	Severity             string     `json:"severity,omitempty"`
	Sequences            []Sequence `json:"-"`
}

type LoggerService interface {
	Debugf(format string, args ...any)
	Debug(args ...any)
	Logf(format string, args ...any)
	Log(data string)
	Info(msg string)
	Errorf(format string, args ...any)
	Error(args ...any)
	Sync() error
}

// LogDependencyMetadata defines dependency metadata for logs.
type LogDependencyMetadata struct {
	Dependency   string
	ResponseTime int64
	ResultCode   string
	ResultFlag   string
}
