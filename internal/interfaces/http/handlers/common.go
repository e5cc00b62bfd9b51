package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/interfaces/http/middleware"
	"github.com/turtacn/AeroOps/pkg/errors"
	"github.com/turtacn/AeroOps/pkg/types/common"
)

// maxBodyBytes bounds JSON bodies; attachments get their own limit.
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ErrorResponse is the error envelope of every API failure.
type ErrorResponse = common.ErrorEnvelope

// ErrorBody carries the stable code plus human-readable text.
type ErrorBody = common.ErrorDetail

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError maps err to its HTTP status. Errors without an AppError in the
// chain are masked as internal errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		ae = errors.New(errors.ErrCodeInternal, "internal server error").WithCause(err)
	}
	status := ae.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request error",
			logging.String("code", string(ae.Code)), logging.String("path", r.URL.Path), logging.Err(err))
	}
	writeJSON(w, status, common.NewErrorEnvelope(ae, fieldErrors(err)...))
}

// fieldErrors lists the failed validation tags, keyed by JSON field path.
func fieldErrors(err error) []common.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		info := fe.Tag()
		if fe.Param() != "" {
			info += "=" + fe.Param()
		}
		out = append(out, common.FieldError{Path: fieldPath(fe.Namespace()), Info: info})
	}
	return out
}

// fieldPath drops the root struct name: "AddSubpartRequest.parent" -> "parent".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// decodeJSON reads a bounded JSON body into dst and validates its tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, limit int64) error {
	if limit <= 0 {
		limit = maxBodyBytes
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return errors.InvalidParam("request body is required")
		}
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body").WithDetail(err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "validation failed").WithDetail(err.Error())
	}
	return nil
}

func tenantOf(r *http.Request) string {
	return middleware.TenantFromContext(r.Context())
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidParam(name + " must be a positive integer").WithDetail(raw)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParam(name + " must be an integer").WithDetail(raw)
	}
	return n, nil
}

// attachment sends a binary download.
func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

//Personal.AI order the ending
