// Package api contains the HTTP API contract for fauxlizer.
// Version v1 represents the current stable API version.
package api

import (
	"fauxlizer/pkg/contracts/domain"
)

// ValidateRequest asks for a validation pass over a file in the data
// directory.
type ValidateRequest struct {
	Path string `json:"path" validate:"required,datapath"`
}

// ValidateBatchRequest validates several files in one call.
type ValidateBatchRequest struct {
	Paths []string `json:"paths" validate:"required,min=1,max=256,dive,required,datapath"`
}

// ValidateBatchResponse carries one outcome per requested path, in request
// order.
type ValidateBatchResponse struct {
	Outcomes []domain.ValidationOutcome `json:"outcomes"`
	Valid    int                        `json:"valid"`
	Invalid  int                        `json:"invalid"`
}

// OutcomeListResponse lists every cached verdict.
type OutcomeListResponse struct {
	Outcomes []domain.ValidationOutcome `json:"outcomes"`
	Count    int                        `json:"count"`
}

// RowResponse is the body of a native-format row request.
type RowResponse struct {
	Path  string     `json:"path"`
	Index int        `json:"index"`
	Row   domain.Row `json:"row"`
}
