package dropin

// Setting is a single key/value assignment
type Setting struct {
	Key   string
	Value string
}

// Settings is an ordered key to value mapping for one physical file.
// The zero value is an empty mapping.
type Settings struct {
	keys   []string
	values map[string]string
}

// NewSettings builds Settings from assignments in file order. A later
// assignment of the same key replaces the value but keeps the key's
// original position.
func NewSettings(pairs ...Setting) Settings {
	if len(pairs) == 0 {
		return Settings{}
	}

	s := Settings{
		keys:   make([]string, 0, len(pairs)),
		values: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if _, seen := s.values[p.Key]; !seen {
			s.keys = append(s.keys, p.Key)
		}
		s.values[p.Key] = p.Value
	}
	return s
}

// Get returns the value for key
func (s Settings) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in file order
func (s Settings) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Pairs returns the assignments in file order
func (s Settings) Pairs() []Setting {
	out := make([]Setting, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Setting{Key: k, Value: s.values[k]})
	}
	return out
}

// Len returns the number of distinct keys
func (s Settings) Len() int {
	return len(s.keys)
}

// IsEmpty returns true when no key is set
func (s Settings) IsEmpty() bool {
	return len(s.keys) == 0
}
