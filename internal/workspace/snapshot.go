package workspace

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// Snapshot is the serializable form of a workspace.
type Snapshot struct {
	Version  int           `json:"version" yaml:"version" toml:"version"`
	Active   string        `json:"active" yaml:"active" toml:"active"`
	NextID   int           `json:"next_id" yaml:"next_id" toml:"next_id"`
	Classes  []Class       `json:"classes" yaml:"classes" toml:"classes"`
	Messages []ChatMessage `json:"messages" yaml:"messages" toml:"messages"`
}

// Snapshot copies the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := Snapshot{
		Version:  SnapshotVersion,
		Active:   w.active,
		NextID:   w.nextID,
		Classes:  make([]Class, 0, len(w.classes)),
		Messages: make([]ChatMessage, len(w.messages)),
	}
	for _, c := range w.classes {
		s.Classes = append(s.Classes, c.clone())
	}
	copy(s.Messages, w.messages)
	return s
}

// Restore replaces the state with s. Duplicate and blank class names are
// dropped, an unknown active class falls back to the first class, and the
// id counter never goes below max(id)+1.
func (w *Workspace) Restore(s Snapshot) {
	classes := make([]*Class, 0, len(s.Classes))
	seen := make(map[string]struct{}, len(s.Classes))
	maxID := 0
	for _, c := range s.Classes {
		if c.Name == "" {
			continue
		}
		if _, dup := seen[c.Name]; dup {
			continue
		}
		seen[c.Name] = struct{}{}
		cc := c.clone()
		for _, d := range cc.Documents {
			if d.ID > maxID {
				maxID = d.ID
			}
		}
		classes = append(classes, &cc)
	}
	active := s.Active
	if _, ok := seen[active]; !ok {
		active = ""
		if len(classes) > 0 {
			active = classes[0].Name
		}
	}
	next := s.NextID
	if next <= maxID {
		next = maxID + 1
	}
	msgs := make([]ChatMessage, len(s.Messages))
	copy(msgs, s.Messages)

	w.mu.Lock()
	w.classes = classes
	w.active = active
	w.nextID = next
	w.messages = msgs
	w.mu.Unlock()
	w.broker.Publish(EventRestored, Change{Class: active})
}
