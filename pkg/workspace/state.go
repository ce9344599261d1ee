package workspace

import (
	"encoding/json"

	"github.com/soyrochus/brownie/pkg/catalog"
	"github.com/soyrochus/brownie/pkg/uischema"
)

// BlockState is the persisted shape of one canvas block. It carries
// everything needed to re-open the block later: the schema value itself plus
// the form state, so re-hydration never re-derives defaults.
type BlockState struct {
	BlockID      string                         `json:"block_id"`
	TemplateID   string                         `json:"template_id"`
	Title        string                         `json:"title"`
	ProviderID   string                         `json:"provider_id"`
	ProviderKind string                         `json:"provider_kind"`
	Schema       json.RawMessage                `json:"schema"`
	Intent       catalog.Intent                 `json:"intent"`
	Minimized    bool                           `json:"minimized,omitempty"`
	FormState    map[string]uischema.FieldValue `json:"form_state,omitempty"`
}

// WorkspaceState is the persisted shape of the whole canvas workspace.
type WorkspaceState struct {
	Blocks        []BlockState `json:"blocks,omitempty"`
	ActiveBlockID string       `json:"active_block_id,omitempty"`
}

// Actor identifies who requested a block transition.
type Actor string

const (
	ActorUser      Actor = "user"
	ActorAssistant Actor = "assistant"
	ActorSystem    Actor = "system"
)

// BlockAction names a lifecycle transition.
type BlockAction string

const (
	ActionOpen     BlockAction = "open"
	ActionUpdate   BlockAction = "update"
	ActionFocus    BlockAction = "focus"
	ActionMinimize BlockAction = "minimize"
	ActionClose    BlockAction = "close"
)

// ActionStatus is the outcome phase of a transition. Every transition is
// recorded twice: once as requested, then as succeeded or failed.
type ActionStatus string

const (
	StatusRequested ActionStatus = "requested"
	StatusSucceeded ActionStatus = "succeeded"
	StatusFailed    ActionStatus = "failed"
)
