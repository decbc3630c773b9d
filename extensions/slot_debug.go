package extensions

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/m1gwings/treedrawer/tree"

	hooked "github.com/hooked-fn/hooked-go"
)

// SlotDebugExtension logs a rendering of the runtime's identity/slot tree
// when an operation fails.
//
// Usage:
//
//	// Human-readable formatted output (with line breaks)
//	handler := extensions.NewHumanHandler(os.Stdout, slog.LevelError)
//	ext := extensions.NewSlotDebugExtension(handler)
//
//	// Silent (for testing)
//	ext := extensions.NewSlotDebugExtension(extensions.NewSilentHandler())
type SlotDebugExtension struct {
	hooked.BaseExtension
	logger *slog.Logger
}

// NewSlotDebugExtension creates a new slot debug extension.
func NewSlotDebugExtension(logHandler slog.Handler) *SlotDebugExtension {
	return &SlotDebugExtension{
		BaseExtension: hooked.NewBaseExtension("slot-debug"),
		logger:        slog.New(logHandler),
	}
}

// OnError logs the slot tree when an operation fails
func (e *SlotDebugExtension) OnError(err error, op *hooked.Operation, rt *hooked.Runtime) {
	e.logger.Error("hook runtime error",
		"kind", string(op.Kind),
		"identity", string(op.Identity),
		"position", op.Position,
		"error", err.Error(),
		"slot_tree", RenderSlotTree(rt),
	)
}

// RenderSlotTree draws the identity -> slot tree of a runtime. Each leaf is
// one slot, labeled with its call position and hook kind.
func RenderSlotTree(rt *hooked.Runtime) string {
	snapshot := rt.Snapshot()

	ids := make([]hooked.Identity, 0, len(snapshot))
	for id := range snapshot {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	t := tree.NewTree(tree.NodeString("runtime"))
	for i, id := range ids {
		t.AddChild(tree.NodeString(string(id)))
		unit, err := t.Child(i)
		if err != nil {
			continue
		}
		for pos, kind := range snapshot[id] {
			unit.AddChild(tree.NodeString(fmt.Sprintf("%d:%s", pos, kind)))
		}
	}

	if len(ids) == 0 {
		return "(empty - no identities hold slots)"
	}
	return fmt.Sprint(t)
}
