package webhooks

import "strings"

// Keys stripped from payloads before storage or forwarding. Matching is
// case-insensitive and applies at every nesting level.
var secretKeys = map[string]struct{}{
	"password": {},
	"secret":   {},
	"token":    {},
	"api_key":  {},
}

// Sanitize returns a copy of payload with secret-like keys removed
// recursively. The input map is not modified. Sanitize(Sanitize(p)) equals
// Sanitize(p).
func Sanitize(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return nil
	}

	clean := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		if _, blocked := secretKeys[strings.ToLower(key)]; blocked {
			continue
		}
		clean[key] = sanitizeValue(value)
	}
	return clean
}

func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return Sanitize(v)
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, item := range v {
			items[i] = sanitizeValue(item)
		}
		return items
	default:
		return value
	}
}
