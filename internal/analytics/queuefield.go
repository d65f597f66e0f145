package analytics

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"

	"modreview-dashboard/internal/models"
)

// ParseQueueField decodes a semi-structured queue column. Lists and maps are
// kept as they are, strings are decoded as JSON, and nil or anything that
// fails to decode into a list or map becomes an empty list.
func ParseQueueField(raw any) models.QueueField {
	switch v := raw.(type) {
	case nil:
		return emptyQueueField()
	case models.QueueField:
		return v
	case []any:
		return models.QueueField{Kind: models.QueueFieldList, List: v}
	case []string:
		list := make([]any, len(v))
		for i, s := range v {
			list[i] = s
		}
		return models.QueueField{Kind: models.QueueFieldList, List: list}
	case map[string]any:
		return models.QueueField{Kind: models.QueueFieldMap, Map: v}
	case *string:
		if v == nil {
			return emptyQueueField()
		}
		return decodeQueueField([]byte(*v))
	case string:
		return decodeQueueField([]byte(v))
	case json.RawMessage:
		return decodeQueueField(v)
	case []byte:
		return decodeQueueField(v)
	default:
		return emptyQueueField()
	}
}

func decodeQueueField(data []byte) models.QueueField {
	var decoded any
	if err := gojson.Unmarshal(data, &decoded); err != nil {
		return emptyQueueField()
	}

	switch v := decoded.(type) {
	case []any:
		return models.QueueField{Kind: models.QueueFieldList, List: v}
	case map[string]any:
		return models.QueueField{Kind: models.QueueFieldMap, Map: v}
	default:
		return emptyQueueField()
	}
}

func emptyQueueField() models.QueueField {
	return models.QueueField{Kind: models.QueueFieldList, List: []any{}}
}
