package query

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// Type classes in ascending sort order.
const (
	classNull = iota
	classBool
	classNumber
	classString
	classBytes
	classSequence
	classMap
	classOther
)

func classOf(v interface{}) int {
	if v == nil {
		return classNull
	}
	switch v.(type) {
	case bool:
		return classBool
	case string:
		return classString
	case []byte:
		return classBytes
	case map[string]interface{}, domain.Document:
		return classMap
	}
	if _, ok := ToFloat64(v); ok {
		return classNumber
	}
	if _, ok := domain.Sequence(v); ok {
		return classSequence
	}
	if reflect.ValueOf(v).Kind() == reflect.Map {
		return classMap
	}
	return classOther
}

// ToFloat64 converts various numeric types to float64 for comparison
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// ValuesEqual compares two values for equality across numeric kinds and
// nested structures.
func ValuesEqual(a, b interface{}) bool {
	return classOf(a) == classOf(b) && Compare(a, b) == 0
}

// Compare orders any two values: first by type class
// (nil < bool < number < string < bytes < sequence < map), then by value.
func Compare(a, b interface{}) int {
	ca, cb := classOf(a), classOf(b)
	if ca != cb {
		return cmpInt(ca, cb)
	}

	switch ca {
	case classNull:
		return 0
	case classBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case classNumber:
		af, _ := ToFloat64(a)
		bf, _ := ToFloat64(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case classString:
		return cmpString(a.(string), b.(string))
	case classBytes:
		return cmpString(string(a.([]byte)), string(b.([]byte)))
	case classSequence:
		as, _ := domain.Sequence(a)
		bs, _ := domain.Sequence(b)
		for i := 0; i < len(as) && i < len(bs); i++ {
			if c := Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
		return cmpInt(len(as), len(bs))
	case classMap:
		return compareMaps(toMap(a), toMap(b))
	default:
		return cmpString(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// compareSameClass compares values of the same non-null class; range
// operators never match across classes.
func compareSameClass(a, b interface{}) (int, bool) {
	ca := classOf(a)
	if ca == classNull || ca != classOf(b) {
		return 0, false
	}
	return Compare(a, b), true
}

func compareMaps(a, b map[string]interface{}) int {
	ak, bk := sortedKeys(a), sortedKeys(b)
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := cmpString(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := Compare(a[ak[i]], b[bk[i]]); c != 0 {
			return c
		}
	}
	return cmpInt(len(ak), len(bk))
}

func toMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case domain.Document:
		return m
	}
	rv := reflect.ValueOf(v)
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
