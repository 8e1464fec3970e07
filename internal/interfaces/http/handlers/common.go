package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/turtacn/timexnorm/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps err to a status and body.  The first client-error code
// in the chain wins, so a batch failure caused by one bad reference date is
// still reported as 400.  Server errors are masked.
func writeAppError(w http.ResponseWriter, err error) {
	ae := clientError(err)
	if ae == nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}
	writeJSON(w, errors.HTTPStatusForCode(ae.Code), ErrorResponse{
		Code:    string(ae.Code),
		Message: ae.Message,
		Detail:  ae.Detail,
	})
}

func clientError(err error) *errors.AppError {
	for err != nil {
		var ae *errors.AppError
		if !stderrors.As(err, &ae) {
			return nil
		}
		if errors.IsClientError(ae.Code) {
			return ae
		}
		err = ae.Unwrap()
	}
	return nil
}

// decodeJSON reads one JSON object of at most maxBytes from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.Newf(errors.ErrCodeBadRequest, "request body exceeds %d bytes", maxBytes)
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeBadRequest, "request body is empty")
		}
		return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed JSON body").WithDetail(err.Error())
	}
	return nil
}

//Personal.AI order the ending
