package llm

import (
	"fmt"

	"polychat/internal/capabilities"
	"polychat/internal/domain"
)

// ModelValidator checks model ids against the server-side allow-list
type ModelValidator struct {
	capabilities *capabilities.Registry
}

// NewModelValidator creates a new model validator
func NewModelValidator(capabilityRegistry *capabilities.Registry) *ModelValidator {
	return &ModelValidator{
		capabilities: capabilityRegistry,
	}
}

// Validate parses modelID and returns domain.ErrValidation unless the model is allow-listed
func (v *ModelValidator) Validate(modelID string) (*ModelInfo, error) {
	info, err := ParseModel(modelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	if !v.capabilities.IsAllowed(info.Provider, info.Model) {
		return nil, fmt.Errorf("%w: model %q is not supported", domain.ErrValidation, modelID)
	}

	return info, nil
}
