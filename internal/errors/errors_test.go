package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func TestAppError(t *testing.T) {
	cause := errors.New("underlying error")
	appErr := NewStorageError("upload failed", cause)

	if appErr.Type != ErrorTypeStorage {
		t.Errorf("Expected type %v, got %v", ErrorTypeStorage, appErr.Type)
	}

	if appErr.Cause != cause {
		t.Errorf("Expected cause %v, got %v", cause, appErr.Cause)
	}

	if !errors.Is(appErr, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	expectedError := "storage: upload failed (caused by: underlying error)"
	if appErr.Error() != expectedError {
		t.Errorf("Expected error string %v, got %v", expectedError, appErr.Error())
	}

	if got := NewConfigurationError("bad", nil).Error(); got != "configuration: bad" {
		t.Errorf("Expected 'configuration: bad', got %v", got)
	}
}

func TestAppErrorWithContext(t *testing.T) {
	appErr := NewDatabaseError("dump failed", nil)
	appErr.WithContext("database", "app").WithContext("exit_code", 2)

	if appErr.Context["database"] != "app" {
		t.Errorf("Expected context database=app, got %v", appErr.Context["database"])
	}

	if appErr.Context["exit_code"] != 2 {
		t.Errorf("Expected context exit_code=2, got %v", appErr.Context["exit_code"])
	}
}

func TestAppErrorUserMessage(t *testing.T) {
	appErr := NewCompressionError("gzip header invalid", nil)
	if appErr.GetUserMessage() != "gzip header invalid" {
		t.Errorf("Expected message fallback, got %v", appErr.GetUserMessage())
	}

	appErr.UserMessage = "The backup file is not gzip compressed"
	if appErr.GetUserMessage() != "The backup file is not gzip compressed" {
		t.Errorf("Expected user message, got %v", appErr.GetUserMessage())
	}
}

func TestErrorClassifier_ClassifyError(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name         string
		err          error
		expectedType ErrorType
	}{
		{
			name:         "mysql access denied",
			err:          &mysql.MySQLError{Number: 1045, Message: "Access denied"},
			expectedType: ErrorTypePermission,
		},
		{
			name:         "mysql unknown database",
			err:          &mysql.MySQLError{Number: 1049, Message: "Unknown database"},
			expectedType: ErrorTypeNotFound,
		},
		{
			name:         "mysql other",
			err:          &mysql.MySQLError{Number: 1064, Message: "syntax"},
			expectedType: ErrorTypeDatabase,
		},
		{
			name:         "postgres bad password",
			err:          &pq.Error{Code: "28P01", Message: "password authentication failed"},
			expectedType: ErrorTypePermission,
		},
		{
			name:         "postgres unknown database",
			err:          &pq.Error{Code: "3D000", Message: "database does not exist"},
			expectedType: ErrorTypeNotFound,
		},
		{
			name:         "wrapped driver error",
			err:          NewDatabaseError("ping failed", fmt.Errorf("open: %w", &mysql.MySQLError{Number: 2003})),
			expectedType: ErrorTypeConnection,
		},
		{
			name:         "context canceled",
			err:          fmt.Errorf("dump: %w", context.Canceled),
			expectedType: ErrorTypeInterruption,
		},
		{
			name:         "deadline exceeded",
			err:          context.DeadlineExceeded,
			expectedType: ErrorTypeTimeout,
		},
		{
			name:         "missing file",
			err:          &os.PathError{Op: "open", Path: "/tmp/x", Err: syscall.ENOENT},
			expectedType: ErrorTypeNotFound,
		},
		{
			name:         "permission denied",
			err:          &os.PathError{Op: "open", Path: "/root", Err: syscall.EACCES},
			expectedType: ErrorTypePermission,
		},
		{
			name:         "plain app error",
			err:          NewStorageError("bucket missing", errors.New("404")),
			expectedType: ErrorTypeStorage,
		},
		{
			name:         "unknown",
			err:          errors.New("boom"),
			expectedType: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.ClassifyError(tt.err)
			if got.Type != tt.expectedType {
				t.Errorf("Expected type %v, got %v", tt.expectedType, got.Type)
			}
		})
	}

	if classifier.ClassifyError(nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "driver error behind wrapper",
			err:  NewDatabaseError("ping failed", &mysql.MySQLError{Number: 1045}),
			want: "Database access denied - check username and password",
		},
		{
			name: "plain app error has no hint",
			err:  NewStorageError("bucket missing", errors.New("404")),
			want: "",
		},
		{
			name: "unknown error has no hint",
			err:  errors.New("boom"),
			want: "",
		},
		{
			name: "nil",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); got != tt.want {
				t.Errorf("Hint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	if got := GetErrorType(fmt.Errorf("wrapped: %w", NewStorageError("x", nil))); got != ErrorTypeStorage {
		t.Errorf("Expected storage, got %v", got)
	}
	if got := GetErrorType(errors.New("x")); got != ErrorTypeUnknown {
		t.Errorf("Expected unknown, got %v", got)
	}
}
