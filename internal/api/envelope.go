package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion identifies the response envelope shape for clients.
const envelopeVersion = 1

// successEnvelope wraps successful response bodies.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope wraps error response bodies.
type errorEnvelope struct {
	V       int       `json:"v"`
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// EnvelopeTransformer wraps every Huma response body in the shared
// envelope so clients can parse success and error responses uniformly.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr,
		}, nil
	}

	// Huma's own errors (404 route miss, 422 schema failures) arrive as
	// huma.ErrorModel; normalize them to our error shape.
	if model, ok := v.(*huma.ErrorModel); ok {
		code := statusToCode(model.Status)
		var details any
		if len(model.Errors) > 0 {
			msgs := make([]string, 0, len(model.Errors))
			for _, e := range model.Errors {
				if e != nil {
					msgs = append(msgs, e.Error())
				}
			}
			details = msgs
		}
		return &errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error: &APIError{
				status:  model.Status,
				Code:    code,
				Message: model.Title,
				Details: details,
			},
		}, nil
	}

	if strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5") {
		return v, nil
	}

	return &successEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
