package ws

import (
	"bytes"
	"sync"

	"github.com/go-logr/logr"

	"github.com/samdwyer/bspwalk/internal/agent"
)

// Broadcaster sends one message to every connected client.
type Broadcaster interface {
	Broadcast(message []byte)
}

// AgentFeed publishes agent snapshots. Updates that leave the snapshot
// unchanged, such as ticks of an idle agent, are not sent.
type AgentFeed struct {
	out Broadcaster
	log logr.Logger

	mu   sync.Mutex
	last []byte
}

// NewAgentFeed creates a feed publishing to out.
func NewAgentFeed(out Broadcaster, logger logr.Logger) *AgentFeed {
	return &AgentFeed{out: out, log: logger}
}

// Update encodes the agent's state and broadcasts it if it changed. It is
// meant to be passed to agent.WithUpdateHook.
func (f *AgentFeed) Update(a *agent.Agent) {
	msg, err := Encode(TypeAgent, NewAgentState(a))
	if err != nil {
		f.log.Error(err, "encode agent state")
		return
	}

	f.mu.Lock()
	if bytes.Equal(msg, f.last) {
		f.mu.Unlock()
		return
	}
	f.last = msg
	f.mu.Unlock()

	f.out.Broadcast(msg)
}

// Last returns the most recent snapshot, or nil before the first update.
func (f *AgentFeed) Last() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
