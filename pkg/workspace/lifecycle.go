package workspace

import "fmt"

// LifecycleEvent records one attempted or completed block transition for
// audit and debugging. It satisfies the shared UI event interface so hosts
// can merge it with interaction logs.
type LifecycleEvent struct {
	Actor   Actor        `json:"actor"`
	Action  BlockAction  `json:"action"`
	Status  ActionStatus `json:"status"`
	BlockID string       `json:"block_id,omitempty"`
	Detail  string       `json:"detail,omitempty"`
}

// LogLine renders the event as a single log line.
func (e LifecycleEvent) LogLine() string {
	line := fmt.Sprintf("canvas_block_lifecycle actor=%s action=%s status=%s", e.Actor, e.Action, e.Status)
	if e.BlockID != "" {
		line += fmt.Sprintf(" block_id=%s", e.BlockID)
	}
	if e.Detail != "" {
		line += fmt.Sprintf(" detail=%q", e.Detail)
	}
	return line
}
