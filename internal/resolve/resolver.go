// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParameterResolver resolves parameters through a ConfigService.
type ParameterResolver struct {
	service ConfigService
	logger  *log.Logger
}

// NewParameterResolver creates a resolver backed by service. A nil logger
// discards debug output.
func NewParameterResolver(service ConfigService, logger *log.Logger) *ParameterResolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ParameterResolver{service: service, logger: logger}
}

// Resolve reads every parameter visible to the project in the target
// environment. Individual failures are collected in the result; only a
// rejected request or a failed service call returns an error.
func (r *ParameterResolver) Resolve(ctx context.Context, req Request) (ResolutionResult, error) {
	if err := req.validate(); err != nil {
		return ResolutionResult{}, err
	}

	query := ParameterQuery{
		ProjectID:     req.ProjectID,
		EnvironmentID: req.EnvironmentID,
		AsOf:          req.AsOf,
		Tag:           req.Tag,
	}

	records, err := r.service.ListParameterValues(ctx, query)
	if err != nil {
		return ResolutionResult{}, &ResolutionError{
			Kind:          KindService,
			ProjectID:     req.ProjectID,
			EnvironmentID: req.EnvironmentID,
			Err:           err,
		}
	}

	result := ResolutionResult{
		parameters: make([]ResolvedParameter, 0, len(records)),
		index:      make(map[string]int, len(records)),
	}
	for _, rec := range records {
		p := ResolvedParameter{Name: rec.Name, Value: rec.Value, Error: rec.Error}
		if !result.add(p) {
			r.logger.Debug("ignoring duplicate parameter", "name", rec.Name)
		}
	}

	r.logger.Debug("resolved parameters",
		"project", req.ProjectID,
		"environment", req.EnvironmentID,
		"count", result.Len(),
		"failed", len(result.Failures()))

	return result, nil
}

func (req Request) validate() error {
	if strings.TrimSpace(req.ProjectID) == "" {
		return &ResolutionError{Kind: KindInvalidRequest, Reason: "project id is empty"}
	}
	if strings.TrimSpace(req.EnvironmentID) == "" {
		return &ResolutionError{Kind: KindInvalidRequest, ProjectID: req.ProjectID, Reason: "environment id is empty"}
	}
	if req.AsOf != nil && req.Tag != "" {
		return &ResolutionError{
			Kind:          KindAmbiguousSelector,
			ProjectID:     req.ProjectID,
			EnvironmentID: req.EnvironmentID,
		}
	}
	return nil
}
