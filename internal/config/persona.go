package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persona describes who the assistant speaks for and how call-backs are placed.
type Persona struct {
	CompanyName   string      `yaml:"company_name"`
	AgentName     string      `yaml:"agent_name"`
	ProductNoun   string      `yaml:"product_noun"`
	FallbackPhone string      `yaml:"fallback_phone"`
	Welcome       string      `yaml:"welcome"`
	SystemPrompt  string      `yaml:"system_prompt"`
	Call          CallPersona `yaml:"call"`
}

// CallPersona holds the fixed parameters sent to the outbound-call provider.
type CallPersona struct {
	Script          string  `yaml:"script"`
	Model           string  `yaml:"model"`
	Voice           string  `yaml:"voice"`
	MaxDuration     int     `yaml:"max_duration"`
	WaitForGreeting bool    `yaml:"wait_for_greeting"`
	Temperature     float64 `yaml:"temperature"`
}

const defaultCallScript = `You are Sara from Rivertown Ball Company following up on a chat conversation they were just having, looking to ask them if they have any questions you can help with.
Start the call with: "Hi, this is Sara from Rivertown Ball Company!"
Be warm, friendly and helpful while assisting with their questions about our artisanal wooden balls.
Make them feel valued and excited about our products!`

// DefaultPersona returns the built-in Rivertown Ball Company persona.
func DefaultPersona() Persona {
	return Persona{
		CompanyName:   "Rivertown Ball Company",
		AgentName:     "Sara",
		ProductNoun:   "artisanal wooden balls",
		FallbackPhone: "(719) 266-2837",
		Welcome:       "Welcome to Rivertown Ball Company! How can I help you today?",
		SystemPrompt: "You are the customer assistant for Rivertown Ball Company, crafting premium wooden balls since 1985. " +
			"Answer questions about products, materials and orders warmly and concisely.",
		Call: CallPersona{
			Script:          defaultCallScript,
			Model:           "turbo",
			Voice:           "Alexa",
			MaxDuration:     12,
			WaitForGreeting: true,
			Temperature:     0.8,
		},
	}
}

// LoadPersona reads a YAML persona file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func LoadPersona(path string) (Persona, error) {
	persona := DefaultPersona()
	path = strings.TrimSpace(path)
	if path == "" {
		return persona, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("config: read persona: %w", err)
	}
	return ParsePersona(data)
}

// ParsePersona decodes YAML over the default persona. Fields missing from the
// document keep their default values.
func ParsePersona(data []byte) (Persona, error) {
	persona := DefaultPersona()
	if err := yaml.Unmarshal(data, &persona); err != nil {
		return Persona{}, fmt.Errorf("config: parse persona: %w", err)
	}
	if strings.TrimSpace(persona.CompanyName) == "" {
		return Persona{}, fmt.Errorf("config: persona company_name is required")
	}
	if persona.Call.MaxDuration <= 0 {
		return Persona{}, fmt.Errorf("config: persona call.max_duration must be positive")
	}
	return persona, nil
}
