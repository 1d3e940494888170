package controllers

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/person-directory/pkg/composables"
	"github.com/iota-uz/person-directory/pkg/httpapi"
	"github.com/iota-uz/person-directory/pkg/serrors"
)

const maxBodyBytes = 1 << 20

var errUnsupportedMediaType = errors.New("content type must be application/json")

// decodeJSON reads exactly one JSON value. An absent Content-Type is accepted.
func decodeJSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return errUnsupportedMediaType
		}
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return serrors.Decode("person.decode", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return serrors.Decode("person.decode", errors.New("unexpected data after JSON value"))
	}
	return nil
}

func requestMeta(r *http.Request) map[string]string {
	meta := map[string]string{}
	if id, ok := composables.UseRequestID(r.Context()); ok {
		meta["request_id"] = id
	}
	return meta
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	if err := httpapi.WriteError(w, status, code, message, requestMeta(r)); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write error response")
	}
}

func writeValidationError(w http.ResponseWriter, r *http.Request, errs serrors.ValidationErrors) {
	meta := requestMeta(r)
	fields := make([]string, 0, len(errs))
	for field, msg := range errs {
		meta[field] = msg
		fields = append(fields, field)
	}
	message := errs.Error()
	if len(fields) == 1 {
		message = errs[fields[0]]
	}
	if err := httpapi.WriteError(w, http.StatusUnprocessableEntity, "PERSON_VALIDATION_FAILED", strings.TrimSpace(message), meta); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write error response")
	}
}

// writeInternalError logs err with the request logger and answers with the
// fixed plain-text body.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	composables.UseLogger(r.Context()).
		WithError(err).
		WithField("kind", serrors.KindOf(err).String()).
		Error("person request failed")
	httpapi.WriteText(w, http.StatusInternalServerError, httpapi.MsgInternalServerError)
}
