package a2a

import (
	"slices"
	"strings"
)

const (
	CardPath       = "/.well-known/agent-card.json"
	RPCPath        = "/rpc"
	HealthPath     = "/health"
	MetricsPath    = "/metrics"
	MethodSend     = "message/send"
	JSONRPCVersion = "2.0"
)

// AgentCard describes a remote agent and where to reach it.
type AgentCard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	RPC         RPCInfo  `json:"rpc"`
	MessageURL  string   `json:"message_url,omitempty"`
	Methods     []string `json:"methods"`
}

type RPCInfo struct {
	URL string `json:"url"`
}

// Endpoint resolves the URL messages are posted to: the card's rpc url, then
// its message url, then <baseURL>/rpc.
func (c *AgentCard) Endpoint(baseURL string) string {
	if c != nil {
		if u := strings.TrimSpace(c.RPC.URL); u != "" {
			return u
		}
		if u := strings.TrimSpace(c.MessageURL); u != "" {
			return u
		}
	}
	return strings.TrimRight(baseURL, "/") + RPCPath
}

func (c *AgentCard) Supports(method string) bool {
	return c != nil && slices.Contains(c.Methods, method)
}
