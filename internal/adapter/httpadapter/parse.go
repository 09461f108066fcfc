package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/couchcryptid/address-etl-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds the request body; the address itself is capped by
// the validator.
const maxBodyBytes = 16 << 10

type parseRequest struct {
	Address string `json:"address" validate:"required,max=1024"`
}

type errorResponse struct {
	Error    string              `json:"error"`
	Problems map[string][]string `json:"problems,omitempty"`
}

type parseHandler struct {
	validate *validator.Validate
	logger   *slog.Logger
}

func newParseHandler(logger *slog.Logger) *parseHandler {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	return &parseHandler{validate: v, logger: logger}
}

// ServeHTTP decomposes {"address": "..."} and answers with the parsed
// fields keyed by their column labels.
func (h *parseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, fromValidationError(err))
		return
	}

	parsed := domain.Decompose(req.Address)
	h.logger.Debug("address parsed",
		"unparseable", domain.IsUnparseable(req.Address),
		"empty", parsed.IsEmpty(),
	)
	writeJSON(w, http.StatusOK, parsed)
}

func fromValidationError(err error) errorResponse {
	resp := errorResponse{Error: "validation failed"}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return resp
	}

	resp.Problems = map[string][]string{}
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			resp.Problems[field] = append(resp.Problems[field], "This field is required")
		case "max":
			resp.Problems[field] = append(resp.Problems[field], "Value is too long, max: "+fe.Param())
		default:
			resp.Problems[field] = append(resp.Problems[field], "Invalid value provided")
		}
	}
	return resp
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
