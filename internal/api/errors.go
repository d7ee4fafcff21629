package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Skufu/diass/internal/analysis"
)

const (
	codeInvalidPayload    = "invalid_payload"
	codeValidationFailed  = "validation_failed"
	codePayloadTooLarge   = "payload_too_large"
	codeInsufficientInput = "insufficient_input"
	codeUnresolvedDrug    = "unresolved_drug"
	codeRateLimited       = "rate_limited"
	codeNotFound          = "not_found"
	codeInternal          = "internal_error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details []any  `json:"details,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string, details []any) {
	c.JSON(status, errorResponse{Error: code, Message: message, Details: details})
}

// fieldLabels gives binding failures readable names.
var fieldLabels = map[string]string{
	"Drugs":     "drugs",
	"DrugID":    "drug id",
	"DrugName":  "drug name",
	"Dosage":    "dosage",
	"Route":     "route",
	"Frequency": "frequency",
	"Age":       "age",
	"Sex":       "sex",
	"Weight":    "weight",
	"Height":    "height",
	"EGFR":      "eGFR",
	"ALT":       "ALT",
	"AST":       "AST",
	"Systolic":  "systolic blood pressure",
	"Diastolic": "diastolic blood pressure",
	"FoodItems": "food items",
	"Details":   "alcohol details",
}

// writeBindError maps a ShouldBindJSON failure onto a response.
func writeBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(c, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), nil)
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(c, http.StatusBadRequest, codeInvalidPayload, "request body is not valid JSON for this endpoint", nil)
		return
	}

	details := make([]any, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := describeFieldError(fe)
		messages = append(messages, msg)
		details = append(details, fieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), "Request."),
			Message: msg,
		})
	}
	writeError(c, http.StatusUnprocessableEntity, codeValidationFailed, strings.Join(messages, "; "), details)
}

func describeFieldError(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.StructField()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "max":
		unit := "characters"
		if fe.Kind() == reflect.Slice {
			unit = "items"
		}
		return fmt.Sprintf("%s must have at most %s %s", label, fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// writeAnalysisError maps analyzer errors onto a response.
func writeAnalysisError(c *gin.Context, err error) {
	var unresolved *analysis.UnresolvedDrugError
	switch {
	case errors.As(err, &unresolved):
		writeError(c, http.StatusUnprocessableEntity, codeUnresolvedDrug, err.Error(), []any{
			gin.H{"index": unresolved.Index, "drugId": unresolved.DrugID},
		})
	case errors.Is(err, analysis.ErrInsufficientInput):
		writeError(c, http.StatusUnprocessableEntity, codeInsufficientInput, err.Error(), nil)
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, codeInternal, "analysis failed", nil)
	}
}
