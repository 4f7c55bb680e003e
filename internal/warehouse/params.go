package warehouse

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is the positional parameter syntax a driver expects.
type Placeholder int

const (
	// Question emits ? for every occurrence.
	Question Placeholder = iota
	// Dollar emits $1, $2, ... and reuses the index for repeated names.
	Dollar
)

// Bind rewrites named placeholders in query into positional ones and returns
// the matching argument list. Both :name and %(name)s are recognized. Casts
// (::type) and quoted literals are left untouched. A placeholder with no value
// in params is an error; unused params are ignored.
func Bind(query string, params map[string]any, style Placeholder) (string, []any, error) {
	var (
		b       strings.Builder
		args    []any
		index   = make(map[string]int)
		inQuote bool
	)
	b.Grow(len(query))

	emit := func(name string) error {
		v, ok := params[name]
		if !ok {
			return fmt.Errorf("%w: no value for parameter %q", ErrQuery, name)
		}
		if style == Dollar {
			n, seen := index[name]
			if !seen {
				args = append(args, v)
				n = len(args)
				index[name] = n
			}
			b.WriteString("$" + strconv.Itoa(n))
			return nil
		}
		args = append(args, v)
		b.WriteByte('?')
		return nil
	}

	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
			i++
		case inQuote:
			b.WriteByte(c)
			i++
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.WriteString("::")
			i += 2
		case c == ':' && i+1 < len(query) && isNameStart(query[i+1]):
			j := i + 1
			for j < len(query) && isNameChar(query[j]) {
				j++
			}
			if err := emit(query[i+1 : j]); err != nil {
				return "", nil, err
			}
			i = j
		case c == '%' && strings.HasPrefix(query[i:], "%("):
			end := strings.Index(query[i:], ")s")
			if end < 0 {
				return "", nil, fmt.Errorf("%w: unterminated placeholder at offset %d", ErrQuery, i)
			}
			if err := emit(query[i+2 : i+end]); err != nil {
				return "", nil, err
			}
			i += end + 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), args, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
