package metadata

import (
	"sync"

	"github.com/lazyrest/lazyrest/schema"
)

// registry is the process-wide side-table: holders keyed by definition
// identity, plus application-group membership in definition order. It is
// populated at startup and read-only afterwards; the lock only guards
// against misuse from init code running on multiple goroutines.
type registry struct {
	mu      sync.RWMutex
	holders map[*schema.Definition]*Holder
	groups  map[string][]*schema.Definition
}

var global = &registry{
	holders: make(map[*schema.Definition]*Holder),
	groups:  make(map[string][]*schema.Definition),
}

// Of returns the metadata holder of a definition, if the definition was
// processed by Define.
func Of(def *schema.Definition) (*Holder, bool) {
	global.mu.RLock()
	defer global.mu.RUnlock()

	h, ok := global.holders[def]
	return h, ok
}

// Attach adds a definition to an application group without processing it.
// RegisterGroup silently skips such definitions; they exist so a group can
// mix generated and hand-wired models.
func Attach(group string, def *schema.Definition) {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.groups[group] = append(global.groups[group], def)
}

// Group returns the definitions of an application group in definition
// order.
func Group(group string) []*schema.Definition {
	global.mu.RLock()
	defer global.mu.RUnlock()

	defs := global.groups[group]
	out := make([]*schema.Definition, len(defs))
	copy(out, defs)
	return out
}

// Groups returns the known application group names.
func Groups() []string {
	global.mu.RLock()
	defer global.mu.RUnlock()

	out := make([]string, 0, len(global.groups))
	for name := range global.groups {
		out = append(out, name)
	}
	return out
}

// Reset clears the side-table. Useful for tests.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.holders = make(map[*schema.Definition]*Holder)
	global.groups = make(map[string][]*schema.Definition)
}

func (r *registry) attach(group string, def *schema.Definition, h *Holder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.holders[def] = h
	r.groups[group] = append(r.groups[group], def)
}
