// Package command defines the structured messages agents exchange over A2A.
//
// A message is either free text or an envelope {command, args}. Each agent
// accepts a closed set of commands; anything else decodes to an
// UnknownCommandError.
package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	"github.com/tanpawarit/supportdesk/agent/trace"
)

type Envelope struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

// Message is a decoded message/send payload. Exactly one of Text and
// Envelope is meaningful; Envelope is nil for free text.
type Message struct {
	Text     string
	Envelope *Envelope
}

// Parse splits a raw message into free text or a command envelope. An object
// carrying command or args without a command name is an UnknownCommandError;
// other objects and non-string scalars are treated as text.
func Parse(raw json.RawMessage) (Message, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Message{}, nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return Message{}, fmt.Errorf("decode text message: %w", err)
		}
		return Message{Text: text}, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return Message{}, fmt.Errorf("decode command envelope: %w", err)
		}
		_, hasCommand := fields["command"]
		_, hasArgs := fields["args"]
		if !hasCommand && !hasArgs {
			return Message{Text: string(trimmed)}, nil
		}

		var env Envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Message{}, fmt.Errorf("%w: decode command envelope: %v", contractx.ErrValidation, err)
		}
		if env.Command == "" {
			return Message{}, &UnknownCommandError{}
		}
		return Message{Envelope: &env}, nil
	default:
		return Message{Text: string(trimmed)}, nil
	}
}

// UnknownCommandError is returned for envelopes naming a command the agent
// does not implement.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	if e.Name == "" {
		return "Unknown command: (none)"
	}
	return "Unknown command: " + e.Name
}

func (e *UnknownCommandError) Is(target error) bool {
	return target == contractx.ErrUnknownCommand
}

// Reply is what agents answer to a command.
type Reply struct {
	Result any           `json:"result"`
	Error  string        `json:"error,omitempty"`
	Events []trace.Event `json:"events,omitempty"`
}

// RawReply is Reply as seen by the caller, with Result left undecoded.
type RawReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
	Events []trace.Event   `json:"events,omitempty"`
}

func DecodeReply(raw json.RawMessage) (RawReply, error) {
	var reply RawReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return RawReply{}, fmt.Errorf("decode command reply: %w", err)
	}
	return reply, nil
}

// decodeArgs fills out from args. out must already hold defaults.
func decodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("build args decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	return nil
}
