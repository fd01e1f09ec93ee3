package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities represents the metadata of one allowed model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"displayName"`
	Description string `yaml:"description" json:"description"`

	ContextWindow int `yaml:"context_window" json:"contextWindow"`
	MaxOutput     int `yaml:"max_output" json:"maxOutput"`
}

// ProviderCapabilities represents all models for a provider
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	Models   []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
}

// UnmarshalYAML preserves model order from the YAML file
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	type modelsOnly struct {
		Provider string                       `yaml:"provider"`
		Models   map[string]ModelCapabilities `yaml:"models"`
	}
	var m modelsOnly
	if err := node.Decode(&m); err != nil {
		return err
	}
	p.Provider = m.Provider

	// Mapping node content alternates key, value
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		for j := 0; j+1 < len(modelsNode.Content); j += 2 {
			modelID := modelsNode.Content[j].Value
			if model, ok := m.Models[modelID]; ok {
				model.ID = modelID
				p.Models = append(p.Models, model)
			}
		}
		break
	}

	return nil
}
