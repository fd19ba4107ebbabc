package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the uniform response wrapper every endpoint returns.
// Clients branch on "success" and read either "data" or the error fields.
// The version field is named exactly "v"; renaming it breaks clients.
type Envelope struct {
	V       string `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Error message on failure"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every huma response in the envelope.
// Registered as a huma transformer on the API config.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if isErrorStatus(status) {
		env := Envelope{
			V:       APIVersion,
			Success: false,
		}

		switch err := v.(type) {
		case *APIError:
			env.Error = err.Message
			env.Code = err.Code
			env.Message = err.Message
			env.Details = err.Details
		case error:
			env.Error = err.Error()
			env.Message = err.Error()
		default:
			env.Error = "request failed"
		}

		return env, nil
	}

	return Envelope{
		V:       APIVersion,
		Success: true,
		Data:    v,
	}, nil
}

// isErrorStatus reports whether an HTTP status string is 4xx or 5xx.
func isErrorStatus(status string) bool {
	return len(status) == 3 && (status[0] == '4' || status[0] == '5')
}
