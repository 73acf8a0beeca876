package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/reelrank/reelrank-server/internal/errors"
	"github.com/reelrank/reelrank-server/internal/http/response"
)

// EnvelopeVersion is the version number sent in every envelope.
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps every huma response body in the response envelope.
// Errors become {success:false, error:{code, message, details}}; anything else
// becomes {success:true, data}.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	case error:
		var domainErr *domainerrors.Error
		if errors.As(body, &domainErr) {
			return response.Fail(string(domainErr.Code), domainErr.Message, domainErr.Details), nil
		}
		code, _ := strconv.Atoi(status)
		if code < http.StatusBadRequest {
			code = http.StatusInternalServerError
		}
		return response.Fail(statusToCode(code), body.Error(), nil), nil
	default:
		return response.OK(v), nil
	}
}
