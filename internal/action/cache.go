package action

// Cache is a lookup from pressed-key-set to configured action. It is
// rebuilt whenever the configured action list or the reverse-cycle
// setting changes; lookups are read-only after that.
type Cache struct {
	byKeys map[string]*Action
}

// NewCache builds the lookup. When reverseOnShift is set, every cycle
// action bound to K is also indexed under K ∪ {shift} so the action
// resolves whether or not shift is held. A real binding on K ∪ {shift}
// wins over the synthetic shift variant.
func NewCache(actions []Action, reverseOnShift bool) *Cache {
	c := &Cache{byKeys: make(map[string]*Action)}

	for i := range actions {
		a := &actions[i]
		if len(a.Keybind) == 0 {
			continue
		}
		key := a.Keybind.Canonical()
		if _, exists := c.byKeys[key]; !exists {
			c.byKeys[key] = a
		}
	}

	if reverseOnShift {
		for i := range actions {
			a := &actions[i]
			if a.Direction != Cycle || len(a.Keybind) == 0 {
				continue
			}
			shifted := a.Keybind.Add(Shift).Canonical()
			if _, exists := c.byKeys[shifted]; !exists {
				c.byKeys[shifted] = a
			}
		}
	}

	return c
}

// Lookup returns the action bound to exactly the pressed key set, or
// nil when nothing is bound.
func (c *Cache) Lookup(pressed KeySet) *Action {
	if c == nil || len(pressed) == 0 {
		return nil
	}
	return c.byKeys[pressed.Canonical()]
}

// Len returns the number of indexed bindings.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byKeys)
}
