package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// toBSONDoc builds the stored form of a record with _id first.
func toBSONDoc(id string, data domain.Document) bson.D {
	doc := bson.D{{Key: idField, Value: id}}
	return append(doc, toBSONFields(data)...)
}

// toBSONFields converts record fields, dropping any _id.
func toBSONFields(data domain.Document) bson.D {
	doc := bson.D{}
	for k, v := range data {
		if k == idField {
			continue
		}
		doc = append(doc, bson.E{Key: k, Value: toBSONValue(v)})
	}
	return doc
}

func toBSONValue(v interface{}) interface{} {
	switch t := v.(type) {
	case domain.Document:
		return toBSONMap(t)
	case map[string]interface{}:
		return toBSONMap(t)
	case []interface{}:
		out := make(bson.A, len(t))
		for i, e := range t {
			out[i] = toBSONValue(e)
		}
		return out
	default:
		return v
	}
}

func toBSONMap(m map[string]interface{}) bson.D {
	doc := bson.D{}
	for k, v := range m {
		doc = append(doc, bson.E{Key: k, Value: toBSONValue(v)})
	}
	return doc
}

// fromBSON converts decoded values back to plain Go types.
func fromBSON(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.D:
		out := make(map[string]interface{}, len(t))
		for _, e := range t {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = fromBSON(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = fromBSON(e)
		}
		return out
	case bson.A:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = fromBSON(e)
		}
		return out
	case bson.ObjectID:
		return t.Hex()
	case bson.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case bson.Decimal128:
		return t.String()
	case bson.Binary:
		return t.Data
	default:
		return v
	}
}

func toSnapshot(m bson.M) domain.Snapshot {
	id := ""
	switch raw := m[idField].(type) {
	case string:
		id = raw
	case bson.ObjectID:
		id = raw.Hex()
	}

	data := make(domain.Document, len(m))
	for k, v := range m {
		if k == idField {
			continue
		}
		data[k] = fromBSON(v)
	}
	return domain.Snapshot{ID: id, Data: data, Exists: true, Position: id}
}
