// Package jsonutil provides helper functions for JSON API responses.
//
// The admin API speaks two envelope styles, kept per endpoint for client
// compatibility:
//
//	{"message": "..."}                               Message, ServerError
//	{"success": bool, "message": "...", ...}          Success, Fail
//
// Handlers pick the style their endpoint has always used.
package jsonutil

import (
	"encoding/json"
	"net/http"
)

// ServerErrorMessage is the body message of every 500 response.
const ServerErrorMessage = "Server error"

// JSON writes a JSON response with the given status code.
//
// Usage:
//
//	jsonutil.JSON(w, http.StatusOK, map[string]any{
//	    "status": "success",
//	    "data": result,
//	})
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created JSON response.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// MessageBody is the bare {"message": ...} body.
type MessageBody struct {
	Message string `json:"message"`
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// ServerError writes the bare 500 body {"message": "Server error"}.
// The caller logs the underlying error; it is not exposed.
func ServerError(w http.ResponseWriter) {
	Message(w, http.StatusInternalServerError, ServerErrorMessage)
}

// FailBody is the {"success": false, ...} error envelope.
type FailBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Fail writes {"success": false, "message": msg} and, when err is non-nil,
// its text under "error".
func Fail(w http.ResponseWriter, status int, msg string, err error) {
	body := FailBody{Success: false, Message: msg}
	if err != nil {
		body.Error = err.Error()
	}
	JSON(w, status, body)
}

// Success writes {"success": true} merged with fields.
//
// Usage:
//
//	jsonutil.Success(w, map[string]any{"count": n, "data": items})
func Success(w http.ResponseWriter, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	OK(w, body)
}

// Decode reads and decodes JSON from the request body into v.
// Unknown fields are rejected so that typos surface as 400s.
//
// Usage:
//
//	var input CreateEventInput
//	if err := jsonutil.Decode(r, &input); err != nil {
//	    jsonutil.Message(w, http.StatusBadRequest, "Invalid JSON payload")
//	    return
//	}
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
