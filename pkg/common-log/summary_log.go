package commonlog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Stack struct {
	Status     string `json:"status,omitempty"`
	ResultType string `json:"resultType,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
}

type summaryWriter struct {
	logger LoggerService
}

func newSummaryWriter(logger LoggerService) *summaryWriter {
	return &summaryWriter{logger: logger}
}

// write emits the summary record of c. The caller holds c.mu.
func (s *summaryWriter) write(c *customLoggerService, stack Stack) {
	dto := c.logDto
	dto.LogType = "Summary"
	dto.RecordType = "Summary"
	dto.DateTime = c.timer.begin.Format(time.RFC3339)
	dto.ServiceTime = c.timer.Elapsed().Microseconds()

	if c.errorSource != nil {
		dto.AdditionalInfo = c.errorSource
	}

	dto.AppResultHttpStatus = firstNonEmpty(stack.Status, dto.AppResultHttpStatus, "200")
	dto.AppResultType = firstNonEmpty(stack.ResultType, dto.AppResultType, resultType(stack.Status))
	dto.Severity = firstNonEmpty(stack.Severity, dto.Severity, SeverityNormal)
	dto.AppResult = firstNonEmpty(stack.Message, dto.AppResult, "Success")
	dto.AppResultCode = firstNonEmpty(stack.Code, dto.AppResultCode, "20000")

	if len(c.sequences) > 0 {
		if b, err := json.Marshal(c.sequences); err == nil {
			dto.Messages = string(b)
		}
	}

	dto.Action = ""
	dto.SubAction = ""
	dto.ActionDescription = ""
	dto.Message = ""
	dto.Timestamp = ""
	dto.Dependency = ""
	dto.ResponseTime = 0
	dto.ResultCode = ""
	dto.ResultFlag = ""

	b, err := json.Marshal(dto)
	if err != nil {
		s.logger.Errorf("failed to marshal summary log: %v", err)
		return
	}
	s.logger.Info(string(b))
}

type resultCodeType struct {
	StatusCode string
	ResultCode string
	Message    string
	Severity   string
}

// ConvertTTTTT right-pads an HTTP status to the five digit result code, 404 -> 40400.
func ConvertTTTTT(input string) string {
	if len(input) >= 5 {
		return input
	}
	return input + strings.Repeat("0", 5-len(input))
}

func expandResultCode(code int) resultCodeType {
	status := strconv.Itoa(code)
	result := resultCodeType{
		StatusCode: status,
		ResultCode: ConvertTTTTT(status),
		Message:    toSnakeCase(http.StatusText(code)),
		Severity:   SeverityNormal,
	}

	switch {
	case http.StatusText(code) == "":
		result.StatusCode = "Error"
		result.Message = "unknown"
	case code >= 200 && code < 300:
		result.Message = "Success"
	case code >= 500:
		result.Severity = SeverityNotice
	}

	return result
}

func resultType(status string) string {
	if strings.HasPrefix(status, "5") {
		return "SYSTEM_ERROR"
	}
	if strings.HasPrefix(status, "4") {
		return "BUSINESS_ERROR"
	}
	return "HEALTHY"
}

// toSnakeCase converts "Not Found" to "not_found".
func toSnakeCase(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
