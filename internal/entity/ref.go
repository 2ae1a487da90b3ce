package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ref identifies one interactive element of the page state that produced it.
//
// Refs are held as decimal strings, matching the keys of the service's
// element mapping. Agents send them as JSON integers; ParseRef is the inbound
// conversion and Int the outbound one, used only when a request body is
// encoded for the service.
type Ref string

func ParseRef(v any) (Ref, error) {
	switch n := v.(type) {
	case Ref:
		return ParseRef(string(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return "", fmt.Errorf("ref is empty")
		}

		i, err := strconv.ParseUint(s, 10, 31)
		if err != nil {
			return "", fmt.Errorf("ref %q is not a non-negative integer", n)
		}

		return Ref(strconv.FormatUint(i, 10)), nil
	case json.Number:
		if ref, err := ParseRef(n.String()); err == nil {
			return ref, nil
		}

		// decoders using UseNumber keep 1.0 as written
		f, err := n.Float64()
		if err != nil {
			return "", fmt.Errorf("ref %q is not a non-negative integer", n.String())
		}

		return ParseRef(f)
	case float64:
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
			return "", fmt.Errorf("ref %v is not a non-negative integer", n)
		}

		return Ref(strconv.FormatInt(int64(n), 10)), nil
	case float32:
		return ParseRef(float64(n))
	case int:
		return refFromInt64(int64(n))
	case int32:
		return refFromInt64(int64(n))
	case int64:
		return refFromInt64(n)
	case uint:
		return refFromInt64(int64(n))
	default:
		return "", fmt.Errorf("ref must be an integer, got %T", v)
	}
}

func refFromInt64(n int64) (Ref, error) {
	if n < 0 || n > math.MaxInt32 {
		return "", fmt.Errorf("ref %d is out of range", n)
	}

	return Ref(strconv.FormatInt(n, 10)), nil
}

func (r Ref) String() string {
	return string(r)
}

// Int converts the ref for the wire.
func (r Ref) Int() (int, error) {
	i, err := strconv.Atoi(string(r))
	if err != nil || i < 0 {
		return 0, fmt.Errorf("ref %q is not a non-negative integer", string(r))
	}

	return i, nil
}
