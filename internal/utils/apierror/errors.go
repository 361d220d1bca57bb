package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedJSONError  = NewSimple(400, "MALFORMED_JSON", "Malformed JSON body")
	InternalServerError = NewSimple(500, "INTERNAL", "Internal server error")

	NotFoundError  = NewSimple(404, "NOT_FOUND", "Resource not found")
	InvalidIDError = NewSimple(400, "INVALID_ID", "The provided ID is invalid, IDs are usually int64 > 0")

	/*
	 * Business-rule violations of the negotiation state machine. These are
	 * returned, never thrown, so callers can render the specific kind.
	 */
	DuplicateNegotiationError = NewSimple(409, "DUPLICATE_ACTIVE_NEGOTIATION", "An active negotiation already exists for this residue between these companies")
	QuantityExceededError     = NewSimple(400, "QUANTITY_EXCEEDS_AVAILABLE", "Requested quantity exceeds the residue's available quantity")
	NotAuthorizedError        = NewSimple(403, "NOT_AUTHORIZED", "The acting company may not perform this operation on the negotiation")
	InvalidTransitionError    = NewSimple(409, "INVALID_TRANSITION", "The negotiation status does not allow this operation")
	NotParticipantError       = NewSimple(403, "NOT_A_PARTICIPANT", "The sender is not a party of this negotiation")
	EmptyContentError         = NewSimple(400, "EMPTY_CONTENT", "Message content cannot be empty")

	// MatchingUnavailableError is the single opaque failure surfaced when the
	// scoring call fails; partial results are never returned.
	MatchingUnavailableError = NewSimple(502, "MATCHING_UNAVAILABLE", "The matching service is currently unavailable")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "gt":
			problems[field] = append(problems[field], "Value must be greater than "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "notblank":
			problems[field] = append(problems[field], "Value cannot be blank")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, code, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Error: code, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "INVALID_PARAM", "Parameter '%s' has invalid type, expected: %s", name, dataType)
}
