// Package llm defines the chat-model contract the pipeline depends on and the
// provider clients that implement it.
package llm

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
)

type Message struct {
	Role    Role
	Content string
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// Mode names the two invocation profiles the pipeline chooses between.
type Mode string

const (
	// ModeStrict is deterministic (temperature 0) and used when the output
	// must follow a schema.
	ModeStrict Mode = "strict"
	// ModeFree is exploratory (temperature 1) and used for open-ended answers.
	ModeFree Mode = "free"
)

// ModelConfig is the immutable configuration a Model was built with.
type ModelConfig struct {
	Name        string
	Mode        Mode
	Temperature float64
}

func StrictConfig(name string) ModelConfig {
	return ModelConfig{Name: name, Mode: ModeStrict, Temperature: 0}
}

func FreeConfig(name string) ModelConfig {
	return ModelConfig{Name: name, Mode: ModeFree, Temperature: 1}
}

// Model is a configured chat model. Invoke sends the messages and returns the
// text of the first completion. Implementations must be safe for concurrent use.
type Model interface {
	Config() ModelConfig
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Models is the strict/free pair injected into the pipeline.
type Models struct {
	Strict Model
	Free   Model
}

func (m Models) Validate() error {
	if m.Strict == nil || m.Free == nil {
		return fmt.Errorf("both strict and free models are required")
	}
	if m.Strict.Config().Mode != ModeStrict {
		return fmt.Errorf("strict model configured with mode %q", m.Strict.Config().Mode)
	}
	if m.Free.Config().Mode != ModeFree {
		return fmt.Errorf("free model configured with mode %q", m.Free.Config().Mode)
	}
	return nil
}

// Provider builds models for one backend.
type Provider interface {
	Model(cfg ModelConfig) Model
	Close() error
}

// splitMessages joins all system messages into one instruction and returns
// the remaining human messages in order.
func splitMessages(messages []Message) (string, []Message) {
	var system []string
	var rest []Message
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
