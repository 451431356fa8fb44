package planner

import (
	"os"
	"strconv"
)

// Operation identifies the planning service call being made.
type Operation string

const (
	OpPlan       Operation = "plan"
	OpRegenerate Operation = "regenerate_event"
)

// path returns the service path for op, relative to Config.Endpoint.
func (op Operation) path() string {
	switch op {
	case OpRegenerate:
		return "/regenerate-event"
	default:
		return "/plan"
	}
}

// OperationConfig holds per-operation transport parameters.
type OperationConfig struct {
	TimeoutMs int // overrides global if > 0
}

// Config holds all configuration for the planning service client.
type Config struct {
	Endpoint   string
	TimeoutMs  int
	MaxRetries int
	LogCalls   bool
	Operations map[Operation]OperationConfig
}

// DefaultConfig returns a Config pointing at a local planning service.
// Retries are off: the contract has no idempotency key, so a retried plan
// request may yield a plan the user never saw.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://127.0.0.1:8000",
		TimeoutMs:  30000,
		MaxRetries: 0,
		Operations: map[Operation]OperationConfig{
			OpPlan:       {TimeoutMs: 45000},
			OpRegenerate: {TimeoutMs: 30000},
		},
	}
}

// LoadConfig reads planner configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("OUTINGS_PLANNER_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("OUTINGS_PLANNER_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("OUTINGS_PLANNER_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("OUTINGS_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	applyOperationTimeoutEnv(&cfg, OpPlan, "OUTINGS_PLANNER_PLAN_TIMEOUT_MS")
	applyOperationTimeoutEnv(&cfg, OpRegenerate, "OUTINGS_PLANNER_REGENERATE_TIMEOUT_MS")

	return cfg
}

// OperationTimeout returns the effective timeout for op.
// Uses the operation-specific timeout if set, otherwise the global timeout.
func (c Config) OperationTimeout(op Operation) int {
	if oc, ok := c.Operations[op]; ok && oc.TimeoutMs > 0 {
		return oc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyOperationTimeoutEnv(cfg *Config, op Operation, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Operations == nil {
		cfg.Operations = map[Operation]OperationConfig{}
	}
	oc := cfg.Operations[op]
	oc.TimeoutMs = n
	cfg.Operations[op] = oc
}
