package pipeline

// # Error Codes Reference
//
// Failures of a normalization run are reported to operators with a code they
// can quote when asking for help. Codes are grouped by the phase that fails:
//
// # Input Errors (IN001-IN099)
//
//	IN001 - Missing column: An input file lacks a required column
//	        Patterns: "missing required column"
//	IN002 - Invalid value: A cell cannot be read as its column type
//	        Patterns: "invalid value"
//	IN003 - Missing file: An input file does not exist
//	        Patterns: "input file not found"
//	IN004 - Empty file: An input file has no header row
//	        Patterns: "empty file"
//
// # Resolution Errors
//
//	IDN001 - Invalid identity: A name or date used for matching is malformed
//	SCH001 - Schema mismatch: A table lacks a column a step matches on
//	ATT001 - Invalid attribute: A repeatable attribute is not a plain value
//	PLN001 - Invalid plan: The plan cannot run against the inputs
//	ORP001 - Orphans: Rows were left without a match in a strict run
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key
//	DB002 - Foreign key violation
//	DB003 - Connection refused
//	DB004 - Connection reset
//	DB005 - Timeout
//
// # Default Error (ERR000)
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins.

import (
	"fmt"
	"strings"
)

// UserMessage provides operator-facing error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. More specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Input
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "An input file is missing a required column",
			Action:  "Check the header row of the named file",
			Code:    "IN001",
		},
	},
	{
		pattern: "invalid value",
		msg: UserMessage{
			Message: "An input cell could not be read",
			Action:  "Fix the cell at the reported line and column",
			Code:    "IN002",
		},
	},
	{
		pattern: "input file not found",
		msg: UserMessage{
			Message: "An input file is missing",
			Action:  "Run extraction again or check PIPELINE_INPUT_DIR",
			Code:    "IN003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "An input file is empty",
			Action:  "Run extraction again for the named table",
			Code:    "IN004",
		},
	},

	// Resolution
	{
		pattern: "invalid identity",
		msg: UserMessage{
			Message: "A name or date used for matching is malformed",
			Action:  "Check the reported row of the input table",
			Code:    "IDN001",
		},
	},
	{
		pattern: "schema mismatch",
		msg: UserMessage{
			Message: "A table lacks a column needed for matching",
			Action:  "Check the plan identity columns against the input headers",
			Code:    "SCH001",
		},
	},
	{
		pattern: "invalid attribute",
		msg: UserMessage{
			Message: "A repeatable attribute holds an unusable value",
			Action:  "Check the reported row of the pairs table",
			Code:    "ATT001",
		},
	},
	{
		pattern: "invalid plan",
		msg: UserMessage{
			Message: "The normalization plan is invalid",
			Action:  "Fix the plan file or unset PIPELINE_PLAN_FILE",
			Code:    "PLN001",
		},
	},
	{
		pattern: "unmatched foreign keys",
		msg: UserMessage{
			Message: "Some rows could not be matched",
			Action:  "Review the step report or unset PIPELINE_FAIL_ON_ORPHANS",
			Code:    "ORP001",
		},
	},

	// Database
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A row with this key already exists",
			Action:  "Enable LOAD_DROP_EXISTING or clear the target tables",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "A foreign key references a missing row",
			Action:  "Check that every referenced table was loaded",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the server is running",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise LOAD_TIMEOUT or try again later",
			Code:    "DB005",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Raise LOAD_TIMEOUT or try again later",
			Code:    "DB005",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the run ID",
	Code:    "ERR000",
}

// MapError converts a technical error to an operator-facing message.
// It returns the first matching pattern, or ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its operator-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // Message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
