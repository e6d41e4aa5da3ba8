package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/sysmlite/pkg/errors"
)

// maxBody caps request bodies.
const maxBody = 8 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	respondJSON(w, errs.HTTPStatus(err), errorBody{Error: errorDetail{
		Code:    code,
		Message: errs.UserMessage(err),
	}})
}

func notFound(kind, id string) error {
	return errs.New(errs.ErrCodeNotFound, "%s %q not found", kind, id)
}

// readBody reads a capped request body.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) > maxBody {
		return nil, errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBody)
	}
	return data, nil
}

// decode parses a JSON body into v and validates struct tags.
func decode(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errs.Wrap(errs.ErrCodeParse, err, "invalid request body")
	}
	if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.New(errs.ErrCodeInvalidInput, "field %s failed %s", fe.Field(), fe.Tag())
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request")
	}
	return nil
}
