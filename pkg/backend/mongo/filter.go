package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// buildFilter translates one filter so that a missing field never matches.
func buildFilter(f domain.Filter) (bson.E, error) {
	if err := f.Validate(); err != nil {
		return bson.E{}, err
	}
	exists := bson.E{Key: "$exists", Value: true}

	var cond bson.D
	switch f.Op {
	case domain.OpEqual:
		cond = bson.D{exists, {Key: "$eq", Value: toBSONValue(f.Value)}}
	case domain.OpNotEqual:
		cond = bson.D{exists, {Key: "$nin", Value: bson.A{toBSONValue(f.Value), nil}}}
	case domain.OpGreaterThan:
		cond = bson.D{{Key: "$gt", Value: toBSONValue(f.Value)}}
	case domain.OpGreaterThanOrEqual:
		cond = bson.D{{Key: "$gte", Value: toBSONValue(f.Value)}}
	case domain.OpLessThan:
		cond = bson.D{{Key: "$lt", Value: toBSONValue(f.Value)}}
	case domain.OpLessThanOrEqual:
		cond = bson.D{{Key: "$lte", Value: toBSONValue(f.Value)}}
	case domain.OpArrayContains:
		cond = bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$eq", Value: toBSONValue(f.Value)}}}}
	case domain.OpArrayContainsAny:
		cond = bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$in", Value: sequence(f.Value)}}}}
	case domain.OpIn:
		cond = bson.D{exists, {Key: "$in", Value: sequence(f.Value)}}
	case domain.OpNotIn:
		cond = bson.D{exists, {Key: "$nin", Value: append(sequence(f.Value), nil)}}
	case domain.OpIsNull:
		cond = bson.D{{Key: "$type", Value: "null"}}
	case domain.OpIsNotNull:
		cond = bson.D{exists, {Key: "$ne", Value: nil}}
	default:
		return bson.E{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuery, f.Op)
	}
	return bson.E{Key: f.Field, Value: cond}, nil
}

// buildQueryFilter combines filters, the order-field presence check and the
// resume point. cursorValue is the order-field value of q.StartAfter.
func buildQueryFilter(q domain.Query, cursorValue interface{}) (bson.D, error) {
	var clauses bson.A
	for _, f := range q.Filters {
		e, err := buildFilter(f)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, bson.D{e})
	}

	if q.Order != nil {
		clauses = append(clauses, bson.D{{Key: q.Order.Field, Value: bson.D{{Key: "$exists", Value: true}}}})
	}

	if q.StartAfter != nil {
		clauses = append(clauses, resumeClause(*q.StartAfter, q.Order, cursorValue))
	}

	switch len(clauses) {
	case 0:
		return bson.D{}, nil
	case 1:
		return clauses[0].(bson.D), nil
	default:
		return bson.D{{Key: "$and", Value: clauses}}, nil
	}
}

func resumeClause(after domain.Snapshot, order *domain.Order, cursorValue interface{}) bson.D {
	afterID := bson.D{{Key: idField, Value: bson.D{{Key: "$gt", Value: after.ID}}}}
	if order == nil {
		return afterID
	}

	cmp := "$gt"
	if order.Direction == domain.Descending {
		cmp = "$lt"
	}
	field := order.Field
	value := toBSONValue(cursorValue)
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: field, Value: bson.D{{Key: cmp, Value: value}}}},
		bson.D{{Key: field, Value: value}, afterID[0]},
	}}}
}

func buildSort(order *domain.Order) bson.D {
	if order == nil {
		return bson.D{{Key: idField, Value: 1}}
	}
	dir := 1
	if order.Direction == domain.Descending {
		dir = -1
	}
	return bson.D{{Key: order.Field, Value: dir}, {Key: idField, Value: 1}}
}

func sequence(v interface{}) bson.A {
	values, _ := domain.Sequence(v)
	out := make(bson.A, len(values))
	for i, e := range values {
		out[i] = toBSONValue(e)
	}
	return out
}
