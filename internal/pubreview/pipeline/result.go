package pipeline

import (
	"net/http"

	"pubreview/internal/pubreview/model"
)

// Result is what a handler returns. The set of variants is closed.
type Result interface {
	isResult()
}

// Ok is a successful response. Data fields are spread into the envelope.
type Ok struct {
	Code int
	Data any
}

// Partial is a success that hit recoverable errors along the way.
type Partial struct {
	Code   int
	Data   any
	Errors model.FieldErrors
}

// Error is a handled failure. Any activity opened for the request is
// discarded.
type Error struct {
	Code    int
	Message string
	Errors  model.FieldErrors
}

type Redirect struct {
	Code int
	URL  string
}

// File sends the file at Path.
type File struct {
	Path string
}

// FileRaw sends an in-memory blob.
type FileRaw struct {
	Data     []byte
	MimeType string
}

func (Ok) isResult()       {}
func (Partial) isResult()  {}
func (Error) isResult()    {}
func (Redirect) isResult() {}
func (File) isResult()     {}
func (FileRaw) isResult()  {}

func OK(data any) Ok { return Ok{Code: http.StatusOK, Data: data} }

func Created(data any) Ok { return Ok{Code: http.StatusCreated, Data: data} }

func Fail(code int, message string) Error { return Error{Code: code, Message: message} }

// succeeded reports whether an opened activity should be saved. Only results
// carrying data can be described by a transformer.
func succeeded(r Result) bool {
	switch r.(type) {
	case Ok, Partial:
		return true
	}
	return false
}

// payload is the value handed to the activity transformer.
func payload(r Result) any {
	switch v := r.(type) {
	case Ok:
		return v.Data
	case Partial:
		return v.Data
	}
	return nil
}
