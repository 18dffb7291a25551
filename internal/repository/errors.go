package repository

import (
	"errors"
	"fmt"
)

// Code classifies every failure surfaced by the Repository.
type Code string

const (
	CodeDuplicateName   Code = "DUPLICATE_NAME"
	CodeNotFound        Code = "NOT_FOUND"
	CodeCreate          Code = "CREATE_ERROR"
	CodeUpdate          Code = "UPDATE_ERROR"
	CodeDelete          Code = "DELETE_ERROR"
	CodeRestore         Code = "RESTORE_ERROR"
	CodeList            Code = "LIST_ERROR"
	CodeGet             Code = "GET_ERROR"
	CodeGetAll          Code = "GET_ALL_ERROR"
	CodeStats           Code = "STATS_ERROR"
	CodePermanentDelete Code = "PERMANENT_DELETE_ERROR"
)

// Codes is the closed set of repository error codes.
var Codes = []Code{
	CodeDuplicateName,
	CodeNotFound,
	CodeCreate,
	CodeUpdate,
	CodeDelete,
	CodeRestore,
	CodeList,
	CodeGet,
	CodeGetAll,
	CodeStats,
	CodePermanentDelete,
}

// Valid reports whether c belongs to Codes.
func (c Code) Valid() bool {
	for _, known := range Codes {
		if c == known {
			return true
		}
	}
	return false
}

// Error is the only error type returned by the Repository. Err holds the
// underlying storage failure, if any.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the repository code carried by err, or "" when err is not a
// repository error.
func CodeOf(err error) Code {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	return ""
}

// IsCode reports whether err is a repository error with the given code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
