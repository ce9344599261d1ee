// Package workspace manages the set of canvas blocks open in one session.
// Each block wraps its own UI runtime plus placement metadata; a targeting
// algorithm decides how render requests map onto the set. All operations are
// synchronous and single-owner per session, with no internal locking.
package workspace

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soyrochus/brownie/pkg/catalog"
	"github.com/soyrochus/brownie/pkg/uiruntime"
)

// Block is one live canvas block. The persisted form of a block is
// BlockState; Block additionally owns the runtime and bookkeeping that only
// matter while the session is live.
type Block struct {
	BlockState

	Runtime *uiruntime.Runtime

	lastTouched  time.Time
	syncedEvents int
}

// LastTouched reports when the block last received a transition.
func (b *Block) LastTouched() time.Time {
	return b.lastTouched
}

// UnsyncedEvents returns runtime events the host has not consumed yet.
func (b *Block) UnsyncedEvents() []uiruntime.Event {
	events := b.Runtime.EventLog()
	if b.syncedEvents >= len(events) {
		return nil
	}
	return events[b.syncedEvents:]
}

// MarkSynced records that the host has consumed the log up to its current
// length.
func (b *Block) MarkSynced() {
	b.syncedEvents = b.Runtime.EventCount()
}

// TargetOutcome classifies the result of resolving a render target.
type TargetOutcome string

const (
	TargetExisting  TargetOutcome = "existing"
	TargetNotFound  TargetOutcome = "not_found"
	TargetAmbiguous TargetOutcome = "ambiguous"
)

// TargetResolution is the typed result of ResolveTarget. Ambiguous outcomes
// carry the full candidate list so the caller can disambiguate explicitly
// instead of guessing.
type TargetResolution struct {
	Outcome      TargetOutcome
	Block        *Block
	CandidateIDs []string
}

// OpenRequest carries everything needed to open or update a block.
type OpenRequest struct {
	TemplateID   string
	Title        string
	ProviderID   string
	ProviderKind string
	Schema       []byte
	Intent       catalog.Intent
}

// Workspace is the canvas block store for one session.
type Workspace struct {
	blocks        []*Block
	activeBlockID string
	nextBlockSeq  int
	lifecycle     []LifecycleEvent
	now           func() time.Time
	logger        *zap.Logger
}

// Option configures a Workspace at construction.
type Option func(*Workspace)

// WithClock overrides the timestamp source used for last-touched tracking.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkspace constructs an empty workspace.
func NewWorkspace(options ...Option) *Workspace {
	workspace := &Workspace{
		nextBlockSeq: 1,
		now:          time.Now,
		logger:       zap.NewNop(),
	}
	for _, option := range options {
		if option != nil {
			option(workspace)
		}
	}
	return workspace
}

// Blocks returns the live blocks in list order.
func (w *Workspace) Blocks() []*Block {
	return w.blocks
}

// ActiveBlockID returns the active block id, or "" when no block is active.
func (w *Workspace) ActiveBlockID() string {
	return w.activeBlockID
}

// ActiveBlock returns the active block, or nil.
func (w *Workspace) ActiveBlock() *Block {
	return w.findBlock(w.activeBlockID)
}

// LifecycleLog returns every recorded transition attempt and outcome in
// order.
func (w *Workspace) LifecycleLog() []LifecycleEvent {
	return w.lifecycle
}

// ResolveTarget decides which block a render request for the given template
// should land on when the request carries no explicit block id. An active
// block with a matching template wins outright; otherwise the most recently
// touched matching block wins, and a recency tie among several blocks is
// reported as ambiguous with the candidate ids sorted ascending.
func (w *Workspace) ResolveTarget(templateID string) TargetResolution {
	if active := w.ActiveBlock(); active != nil && active.TemplateID == templateID {
		return TargetResolution{Outcome: TargetExisting, Block: active}
	}

	var matches []*Block
	for _, block := range w.blocks {
		if block.TemplateID == templateID {
			matches = append(matches, block)
		}
	}
	if len(matches) == 0 {
		return TargetResolution{Outcome: TargetNotFound}
	}

	latest := matches[0].lastTouched
	for _, block := range matches[1:] {
		if block.lastTouched.After(latest) {
			latest = block.lastTouched
		}
	}
	var newest []*Block
	for _, block := range matches {
		if block.lastTouched.Equal(latest) {
			newest = append(newest, block)
		}
	}
	if len(newest) == 1 {
		return TargetResolution{Outcome: TargetExisting, Block: newest[0]}
	}

	candidates := make([]string, 0, len(newest))
	for _, block := range newest {
		candidates = append(candidates, block.BlockID)
	}
	sort.Strings(candidates)
	return TargetResolution{Outcome: TargetAmbiguous, CandidateIDs: candidates}
}

// Open allocates a new block with its own runtime, loads the schema into it,
// appends it to the block set, and makes it active.
func (w *Workspace) Open(actor Actor, request OpenRequest) (*Block, error) {
	blockID := fmt.Sprintf("block-%d", w.nextBlockSeq)
	w.record(actor, ActionOpen, StatusRequested, blockID, request.TemplateID)

	runtime := uiruntime.NewRuntime()
	if err := runtime.Load(request.Schema); err != nil {
		w.recordFailure(actor, ActionOpen, blockID, err)
		return nil, fmt.Errorf("workspace: open block: %w", err)
	}
	w.nextBlockSeq++

	block := &Block{
		BlockState: BlockState{
			BlockID:      blockID,
			TemplateID:   request.TemplateID,
			Title:        request.Title,
			ProviderID:   request.ProviderID,
			ProviderKind: request.ProviderKind,
			Schema:       request.Schema,
			Intent:       request.Intent,
		},
		Runtime:     runtime,
		lastTouched: w.now(),
	}
	w.blocks = append(w.blocks, block)
	w.activeBlockID = blockID
	w.record(actor, ActionOpen, StatusSucceeded, blockID, request.TemplateID)
	return block, nil
}

// Update replaces the schema and metadata on an existing block in place,
// preserving its block id. The synced-event counter resets and the block
// becomes active.
func (w *Workspace) Update(actor Actor, blockID string, request OpenRequest) (*Block, error) {
	w.record(actor, ActionUpdate, StatusRequested, blockID, request.TemplateID)
	block := w.findBlock(blockID)
	if block == nil {
		err := fmt.Errorf("workspace: no block %q", blockID)
		w.recordFailure(actor, ActionUpdate, blockID, err)
		return nil, err
	}
	if err := block.Runtime.Load(request.Schema); err != nil {
		w.recordFailure(actor, ActionUpdate, blockID, err)
		return nil, fmt.Errorf("workspace: update block %s: %w", blockID, err)
	}

	block.TemplateID = request.TemplateID
	block.Title = request.Title
	block.ProviderID = request.ProviderID
	block.ProviderKind = request.ProviderKind
	block.Schema = request.Schema
	block.Intent = request.Intent
	block.syncedEvents = 0
	block.lastTouched = w.now()
	w.activeBlockID = blockID
	w.record(actor, ActionUpdate, StatusSucceeded, blockID, request.TemplateID)
	return block, nil
}

// Focus makes the block active and touches it. No other state changes.
func (w *Workspace) Focus(actor Actor, blockID string) error {
	w.record(actor, ActionFocus, StatusRequested, blockID, "")
	block := w.findBlock(blockID)
	if block == nil {
		err := fmt.Errorf("workspace: no block %q", blockID)
		w.recordFailure(actor, ActionFocus, blockID, err)
		return err
	}
	w.activeBlockID = blockID
	block.lastTouched = w.now()
	w.record(actor, ActionFocus, StatusSucceeded, blockID, "")
	return nil
}

// Minimize toggles the minimized flag and touches the block.
func (w *Workspace) Minimize(actor Actor, blockID string) error {
	w.record(actor, ActionMinimize, StatusRequested, blockID, "")
	block := w.findBlock(blockID)
	if block == nil {
		err := fmt.Errorf("workspace: no block %q", blockID)
		w.recordFailure(actor, ActionMinimize, blockID, err)
		return err
	}
	block.Minimized = !block.Minimized
	block.lastTouched = w.now()
	w.record(actor, ActionMinimize, StatusSucceeded, blockID, "")
	return nil
}

// Close removes the block. If it was active, the last remaining block in
// list order becomes active, or none when the set is empty.
func (w *Workspace) Close(actor Actor, blockID string) error {
	w.record(actor, ActionClose, StatusRequested, blockID, "")
	index := -1
	for i, block := range w.blocks {
		if block.BlockID == blockID {
			index = i
			break
		}
	}
	if index < 0 {
		err := fmt.Errorf("workspace: no block %q", blockID)
		w.recordFailure(actor, ActionClose, blockID, err)
		return err
	}

	w.blocks = append(w.blocks[:index], w.blocks[index+1:]...)
	if w.activeBlockID == blockID {
		w.activeBlockID = ""
		if len(w.blocks) > 0 {
			w.activeBlockID = w.blocks[len(w.blocks)-1].BlockID
		}
	}
	w.record(actor, ActionClose, StatusSucceeded, blockID, "")
	return nil
}

// Snapshot captures the persistable workspace state, including each block's
// current form state.
func (w *Workspace) Snapshot() WorkspaceState {
	state := WorkspaceState{ActiveBlockID: w.activeBlockID}
	for _, block := range w.blocks {
		persisted := block.BlockState
		persisted.FormState = block.Runtime.FormStateSnapshot()
		state.Blocks = append(state.Blocks, persisted)
	}
	return state
}

// Restore replaces the live block set from a persisted snapshot. Blocks with
// schemas that no longer validate are skipped with a system-actor failure
// event rather than aborting the whole restore. The block id sequence resumes
// past the highest restored id.
func (w *Workspace) Restore(state WorkspaceState) {
	w.blocks = nil
	w.activeBlockID = ""
	for _, persisted := range state.Blocks {
		runtime := uiruntime.NewRuntime()
		if err := runtime.Load(persisted.Schema); err != nil {
			w.recordFailure(ActorSystem, ActionOpen, persisted.BlockID, err)
			w.logger.Warn("canvas block restore skipped",
				zap.String("block_id", persisted.BlockID),
				zap.Error(err))
			continue
		}
		if persisted.FormState != nil {
			runtime.RestoreFormState(persisted.FormState)
		}
		persisted.FormState = nil
		w.blocks = append(w.blocks, &Block{
			BlockState:  persisted,
			Runtime:     runtime,
			lastTouched: w.now(),
		})
		if seq := blockSequence(persisted.BlockID); seq >= w.nextBlockSeq {
			w.nextBlockSeq = seq + 1
		}
	}
	if w.findBlock(state.ActiveBlockID) != nil {
		w.activeBlockID = state.ActiveBlockID
	} else if len(w.blocks) > 0 {
		w.activeBlockID = w.blocks[len(w.blocks)-1].BlockID
	}
}

func (w *Workspace) findBlock(blockID string) *Block {
	if blockID == "" {
		return nil
	}
	for _, block := range w.blocks {
		if block.BlockID == blockID {
			return block
		}
	}
	return nil
}

func (w *Workspace) record(actor Actor, action BlockAction, status ActionStatus, blockID, detail string) {
	event := LifecycleEvent{
		Actor:   actor,
		Action:  action,
		Status:  status,
		BlockID: blockID,
		Detail:  detail,
	}
	w.lifecycle = append(w.lifecycle, event)
	w.logger.Debug("canvas block lifecycle",
		zap.String("actor", string(actor)),
		zap.String("action", string(action)),
		zap.String("status", string(status)),
		zap.String("block_id", blockID))
}

func (w *Workspace) recordFailure(actor Actor, action BlockAction, blockID string, err error) {
	w.record(actor, action, StatusFailed, blockID, err.Error())
}

func blockSequence(blockID string) int {
	suffix, ok := strings.CutPrefix(blockID, "block-")
	if !ok {
		return 0
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return seq
}
