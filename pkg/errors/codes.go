package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeStorageError       ErrorCode = "COMMON_014"
	ErrCodeMessagingError     ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
	ErrCodeInvalidState       ErrorCode = "COMMON_017"
	ErrCodeTenantRequired     ErrorCode = "COMMON_018"
)

// Short aliases used at call sites.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeInvalidState   = ErrCodeInvalidState
	CodeDatabaseError  = ErrCodeDatabaseError
	CodeCacheError     = ErrCodeCacheError
	CodeStorageError   = ErrCodeStorageError
	CodeMessageQueue   = ErrCodeMessagingError
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")
)

// Quarantine Module Error Codes
const (
	ErrCodeEntryDateInvalid ErrorCode = "QRT_001"
	ErrCodePolicyInvalid    ErrorCode = "QRT_002"
)

// Statistics Module Error Codes
const (
	ErrCodeDateRangeInvalid ErrorCode = "STAT_001"
	ErrCodeYearInvalid      ErrorCode = "STAT_002"
	ErrCodeExportFailed     ErrorCode = "STAT_003"
)

// SMS Module Error Codes
const (
	ErrCodeReportNotFound      ErrorCode = "SMS_001"
	ErrCodeProbabilityInvalid  ErrorCode = "SMS_002"
	ErrCodeSeverityInvalid     ErrorCode = "SMS_003"
	ErrCodeSelectionIncomplete ErrorCode = "SMS_004"
	ErrCodeActionNotAllowed    ErrorCode = "SMS_005"
)

// Aircraft Module Error Codes
const (
	ErrCodeDraftNotFound    ErrorCode = "ACFT_001"
	ErrCodePartPathInvalid  ErrorCode = "ACFT_002"
	ErrCodeLastTopLevelPart ErrorCode = "ACFT_003"
	ErrCodeTreeTooDeep      ErrorCode = "ACFT_004"
)

// Work Order Module Error Codes
const (
	ErrCodeWorkOrderNotFound ErrorCode = "WO_001"
	ErrCodeHoursModeInvalid  ErrorCode = "WO_002"
)

// Inventory Module Error Codes
const (
	ErrCodeArticleNotFound ErrorCode = "INV_001"
	ErrCodeArticleInvalid  ErrorCode = "INV_002"
	ErrCodeDataURLInvalid  ErrorCode = "INV_003"
)

// Upstream Backend Error Codes
const (
	ErrCodeUpstreamUnavailable ErrorCode = "UPS_001"
	ErrCodeUpstreamRejected    ErrorCode = "UPS_002"
	ErrCodeUpstreamBadPayload  ErrorCode = "UPS_003"
)

// Domain aliases.
const (
	CodeReportNotFound      = ErrCodeReportNotFound
	CodeDraftNotFound       = ErrCodeDraftNotFound
	CodeArticleNotFound     = ErrCodeArticleNotFound
	CodeWorkOrderNotFound   = ErrCodeWorkOrderNotFound
	CodeUpstreamUnavailable = ErrCodeUpstreamUnavailable
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,
	ErrCodeInvalidState:       http.StatusConflict,
	ErrCodeTenantRequired:     http.StatusBadRequest,

	ErrCodeEntryDateInvalid: http.StatusBadRequest,
	ErrCodePolicyInvalid:    http.StatusBadRequest,

	ErrCodeDateRangeInvalid: http.StatusBadRequest,
	ErrCodeYearInvalid:      http.StatusBadRequest,
	ErrCodeExportFailed:     http.StatusInternalServerError,

	ErrCodeReportNotFound:      http.StatusNotFound,
	ErrCodeProbabilityInvalid:  http.StatusBadRequest,
	ErrCodeSeverityInvalid:     http.StatusBadRequest,
	ErrCodeSelectionIncomplete: http.StatusUnprocessableEntity,
	ErrCodeActionNotAllowed:    http.StatusConflict,

	ErrCodeDraftNotFound:    http.StatusNotFound,
	ErrCodePartPathInvalid:  http.StatusBadRequest,
	ErrCodeLastTopLevelPart: http.StatusUnprocessableEntity,
	ErrCodeTreeTooDeep:      http.StatusUnprocessableEntity,

	ErrCodeWorkOrderNotFound: http.StatusNotFound,
	ErrCodeHoursModeInvalid:  http.StatusBadRequest,

	ErrCodeArticleNotFound: http.StatusNotFound,
	ErrCodeArticleInvalid:  http.StatusBadRequest,
	ErrCodeDataURLInvalid:  http.StatusBadRequest,

	ErrCodeUpstreamUnavailable: http.StatusBadGateway,
	ErrCodeUpstreamRejected:    http.StatusBadGateway,
	ErrCodeUpstreamBadPayload:  http.StatusBadGateway,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeInvalidState:       "invalid state",
	ErrCodeTenantRequired:     "tenant required",

	ErrCodeEntryDateInvalid: "invalid quarantine entry date",
	ErrCodePolicyInvalid:    "invalid quarantine policy",

	ErrCodeDateRangeInvalid: "invalid date range",
	ErrCodeYearInvalid:      "invalid year",
	ErrCodeExportFailed:     "statistics export failed",

	ErrCodeReportNotFound:      "safety report not found",
	ErrCodeProbabilityInvalid:  "probability must be 1..5",
	ErrCodeSeverityInvalid:     "severity must be A..E",
	ErrCodeSelectionIncomplete: "risk selection incomplete",
	ErrCodeActionNotAllowed:    "action not allowed in current report state",

	ErrCodeDraftNotFound:    "aircraft part draft not found",
	ErrCodePartPathInvalid:  "invalid part path",
	ErrCodeLastTopLevelPart: "must have at least one part",
	ErrCodeTreeTooDeep:      "part tree too deep",

	ErrCodeWorkOrderNotFound: "work order not found",
	ErrCodeHoursModeInvalid:  "aircraft hours mode must be auto or manual",

	ErrCodeArticleNotFound: "article not found",
	ErrCodeArticleInvalid:  "invalid article",
	ErrCodeDataURLInvalid:  "invalid data URL",

	ErrCodeUpstreamUnavailable: "maintenance backend unavailable",
	ErrCodeUpstreamRejected:    "maintenance backend rejected the request",
	ErrCodeUpstreamBadPayload:  "maintenance backend returned an unexpected payload",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
