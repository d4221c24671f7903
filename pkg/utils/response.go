package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, Response{Success: true, Data: data})
}

func RespondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, Response{Success: false, Error: &ErrorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("can't encode response body", zap.Error(err))
	}
}
