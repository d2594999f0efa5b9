package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/llm"
)

// Agent types: each pipeline stage routes its LLM calls under one of these.
const (
	Classifier = "classifier"
	Prefill    = "prefill"
	Report     = "report"
	Interview  = "interview"
)

var defaultTemperature = map[string]float64{
	Classifier: 0.1,
	Prefill:    0.1,
	Report:     0.3,
	Interview:  0.5,
}

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string   `yaml:"provider"` // Optional override
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	Description string   `yaml:"description"`
}

// Executor is what pipeline stages need from the manager.
type Executor interface {
	// Ready fails with llm.ErrMissingCredentials when agentType cannot be served.
	Ready(agentType string) error
	// Execute sends messages as a JSON-mode request for agentType.
	Execute(ctx context.Context, agentType string, messages []llm.Message) (string, error)
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
	logger    *zap.Logger
}

var _ Executor = (*Manager)(nil)

func NewManager(config Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		config:    config,
		providers: make(map[string]llm.Provider),
		logger:    logger,
	}
	for _, p := range []llm.Provider{
		llm.NewOpenAIProvider(),
		llm.NewDeepSeekProvider(),
		llm.NewKimiProvider(),
		llm.NewDoubaoProvider(),
		llm.NewQwenProvider(),
		&llm.GeminiProvider{},
		&llm.GeminiLegacyProvider{},
	} {
		m.providers[p.Name()] = p
	}
	return m
}

// Register adds or replaces a provider under its own name.
func (m *Manager) Register(p llm.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.Name()] = p
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	// 3. Fallback
	return m.providers["openai"]
}

func (m *Manager) Ready(agentType string) error {
	return m.GetProvider(agentType).Ready()
}

// Execute resolves provider, model and temperature for agentType and runs one JSON-mode request.
func (m *Manager) Execute(ctx context.Context, agentType string, messages []llm.Message) (string, error) {
	provider := m.GetProvider(agentType)

	m.mu.RLock()
	agentCfg := m.config.Agents[agentType]
	m.mu.RUnlock()

	temperature := defaultTemperature[agentType]
	if agentCfg.Temperature != nil {
		temperature = *agentCfg.Temperature
	}

	m.logger.Debug("llm request",
		zap.String("agent", agentType),
		zap.String("provider", provider.Name()),
		zap.String("model", agentCfg.Model),
		zap.Int("messages", len(messages)))

	return provider.Generate(ctx, llm.Request{
		Model:       agentCfg.Model,
		Temperature: temperature,
		JSONMode:    true,
		Messages:    messages,
	})
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("%w: %s", llm.ErrProviderUnknown, newProvider)
	}
	m.config.ActiveProvider = newProvider
	m.logger.Info("global provider switched", zap.String("provider", newProvider))
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Available lists registered provider names, sorted.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
