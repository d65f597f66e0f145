package models

const (
	QueueFieldList = "list"
	QueueFieldMap  = "map"
)

// QueueField is a decoded semi-structured queue column. Exactly one of List
// or Map is meaningful, selected by Kind. The zero value is an empty list.
type QueueField struct {
	Kind string         `json:"kind"`
	List []any          `json:"list,omitempty"`
	Map  map[string]any `json:"map,omitempty"`
}

func (f QueueField) IsMap() bool {
	return f.Kind == QueueFieldMap
}

func (f QueueField) Len() int {
	if f.IsMap() {
		return len(f.Map)
	}
	return len(f.List)
}
