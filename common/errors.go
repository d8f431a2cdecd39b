package common

import (
	"encoding/json"
	"net/http"

	"bank-clients-api/logger"

	"github.com/sirupsen/logrus"
)

// AppError is the JSON error envelope every handler failure is reported with.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}

// NotFoundError signals that a lookup missed: either a client id unknown to
// the store, or an account name absent from a client's accounts. Resource
// carries the identifier that missed.
type NotFoundError struct {
	Resource string
	Message  string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message, resource string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

// TransactionError signals an invalid balance operation: a withdrawal larger
// than the account balance, or an operation keyword that is not defined.
// Operation describes the offending action.
type TransactionError struct {
	Operation string
	Message   string
}

func (e *TransactionError) Error() string {
	return e.Message
}

func NewTransactionError(message, operation string) *TransactionError {
	return &TransactionError{Operation: operation, Message: message}
}
