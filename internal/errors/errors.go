package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeConfiguration represents invalid or missing configuration
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeStorage represents storage backend failures
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeDatabase represents dump and restore failures
	ErrorTypeDatabase ErrorType = "database"
	// ErrorTypeCompression represents codec failures
	ErrorTypeCompression ErrorType = "compression"
	// ErrorTypeConnection represents network or server connection errors
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypePermission represents permission/access errors
	ErrorTypePermission ErrorType = "permission"
	// ErrorTypeNotFound represents missing databases, files or objects
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeTimeout represents timeout errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeInterruption represents user interruption
	ErrorTypeInterruption ErrorType = "interruption"
	// ErrorTypeUnknown represents unknown errors
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError represents an application-specific error with context
type AppError struct {
	Type        ErrorType
	Message     string
	Cause       error
	Context     map[string]interface{}
	UserMessage string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetUserMessage returns a user-friendly error message
func (e *AppError) GetUserMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func NewConfigurationError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeConfiguration, message, cause)
}

func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeStorage, message, cause)
}

func NewDatabaseError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeDatabase, message, cause)
}

func NewCompressionError(message string, cause error) *AppError {
	return NewAppError(ErrorTypeCompression, message, cause)
}

// ErrorClassifier maps driver, network and OS errors onto error types with a
// short explanation for the user.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new error classifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// ClassifyError analyzes an error and returns an AppError describing its
// root cause. Errors wrapped inside an AppError are classified too, so that
// the specific driver error wins over the generic wrapper.
func (ec *ErrorClassifier) ClassifyError(err error) *AppError {
	if err == nil {
		return nil
	}

	if classified := ec.classifyMySQLError(err); classified != nil {
		return classified
	}
	if classified := ec.classifyPostgresError(err); classified != nil {
		return classified
	}
	if classified := ec.classifyContextError(err); classified != nil {
		return classified
	}
	if classified := ec.classifyNetworkError(err); classified != nil {
		return classified
	}
	if classified := ec.classifyFileSystemError(err); classified != nil {
		return classified
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewAppError(ErrorTypeUnknown, "An unexpected error occurred", err)
}

// classifyMySQLError classifies MySQL-specific errors
func (ec *ErrorClassifier) classifyMySQLError(err error) *AppError {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1044, 1045: // Access denied
			return NewAppError(ErrorTypePermission,
				"Database access denied - check username and password", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 1049: // Unknown database
			return NewAppError(ErrorTypeNotFound,
				"Database does not exist", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		case 2003: // Can't connect to MySQL server
			return NewAppError(ErrorTypeConnection,
				"Cannot connect to MySQL server - server may be down or unreachable", err).
				WithContext("mysql_error_code", mysqlErr.Number)
		default:
			return NewAppError(ErrorTypeDatabase,
				fmt.Sprintf("MySQL error: %s", mysqlErr.Message), err).
				WithContext("mysql_error_code", mysqlErr.Number)
		}
	}

	if errors.Is(err, sql.ErrConnDone) {
		return NewAppError(ErrorTypeConnection, "Database connection is closed", err)
	}

	return nil
}

// classifyPostgresError classifies PostgreSQL server errors
func (ec *ErrorClassifier) classifyPostgresError(err error) *AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case "28000", "28P01": // invalid_authorization_specification, invalid_password
		return NewAppError(ErrorTypePermission,
			"Database access denied - check username and password", err).
			WithContext("pg_error_code", string(pqErr.Code))
	case "3D000": // invalid_catalog_name
		return NewAppError(ErrorTypeNotFound,
			"Database does not exist", err).
			WithContext("pg_error_code", string(pqErr.Code))
	default:
		return NewAppError(ErrorTypeDatabase,
			fmt.Sprintf("PostgreSQL error: %s", pqErr.Message), err).
			WithContext("pg_error_code", string(pqErr.Code))
	}
}

// classifyNetworkError classifies network-related errors
func (ec *ErrorClassifier) classifyNetworkError(err error) *AppError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewAppError(ErrorTypeTimeout, "Network operation timed out", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return NewAppError(ErrorTypeConnection,
				"Failed to establish network connection", err)
		case "read", "write":
			return NewAppError(ErrorTypeConnection,
				"Network I/O error", err)
		}
	}

	return nil
}

// classifyContextError classifies context-related errors
func (ec *ErrorClassifier) classifyContextError(err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewAppError(ErrorTypeTimeout, "Operation timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewAppError(ErrorTypeInterruption, "Operation was canceled", err)
	}

	return nil
}

// classifyFileSystemError classifies file system errors
func (ec *ErrorClassifier) classifyFileSystemError(err error) *AppError {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		switch {
		case errors.Is(pathErr.Err, syscall.ENOENT):
			return NewAppError(ErrorTypeNotFound,
				fmt.Sprintf("File or directory not found: %s", pathErr.Path), err)
		case errors.Is(pathErr.Err, syscall.EACCES):
			return NewAppError(ErrorTypePermission,
				fmt.Sprintf("Permission denied: %s", pathErr.Path), err)
		case errors.Is(pathErr.Err, syscall.ENOSPC):
			return NewAppError(ErrorTypeStorage,
				"No space left on device", err)
		}
	}

	return nil
}

// GetErrorType returns the error type of an error
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// Hint returns the classifier's explanation for err when it recognises a
// specific root cause, and "" otherwise.
func Hint(err error) string {
	if err == nil {
		return ""
	}
	classified := NewErrorClassifier().ClassifyError(err)
	var appErr *AppError
	if errors.As(err, &appErr) && appErr == classified {
		return ""
	}
	if classified.Type == ErrorTypeUnknown {
		return ""
	}
	return classified.GetUserMessage()
}
