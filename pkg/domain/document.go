package domain

// Document represents a schema-less record. Stores and adapters carry it
// without interpreting its fields.
type Document map[string]interface{}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// DeepCopy returns a copy that shares no maps or sequences with d.
func (d Document) DeepCopy() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = DeepCopyValue(v)
	}
	return out
}

// DeepCopyValue copies nested maps and []interface{} sequences. Other values
// are returned as is.
func DeepCopyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = DeepCopyValue(e)
		}
		return out
	case Document:
		return t.DeepCopy()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = DeepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// Snapshot is the result of reading a single record.
// Exists is false when the store holds no record under ID.
type Snapshot struct {
	ID     string   `json:"id"`
	Data   Document `json:"data,omitempty"`
	Exists bool     `json:"exists"`

	// Position is an opaque resume token assigned by the store. A snapshot
	// carrying a Position stays usable as a cursor after its record is gone.
	Position string `json:"position,omitempty"`
}

// DocumentRef points at a record created by an auto-id insert.
type DocumentRef struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}
