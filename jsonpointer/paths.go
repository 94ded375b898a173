package jsonpointer

import (
	"strconv"
	"strings"
)

// IsSubPointer reports whether long lies inside short on segment
// boundaries. With strict set an identical pointer does not count.
func IsSubPointer(short, long string, strict bool) bool {
	if short == long {
		return !strict
	}
	if short == "" {
		return true
	}
	return strings.HasPrefix(long, short+"/")
}

// ToIndexedPointer substitutes indexes for the "-" placeholders of a
// generic pointer, left to right. When arrayMap is given only placeholders
// directly below a known array path are replaced.
func ToIndexedPointer(generic string, indexes []int, arrayMap map[string]int) string {
	keys := Keys(generic)
	if keys == nil || len(indexes) == 0 {
		return generic
	}
	genericPrefix := ""
	n := 0
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k
		if k == "-" && n < len(indexes) {
			if _, isArray := arrayMap[genericPrefix]; arrayMap == nil || isArray {
				out[i] = strconv.Itoa(indexes[n])
				n++
			}
		}
		genericPrefix += "/" + Escape(k)
	}
	return Compile(out)
}

// ToGenericPointer replaces list indexes with "-". Indexes below the tuple
// length recorded in arrayMap are kept since tuple items have their own
// schema.
func ToGenericPointer(pointer string, arrayMap map[string]int) string {
	keys := Keys(pointer)
	if keys == nil {
		return pointer
	}
	genericPrefix := ""
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k
		if tuple, isArray := arrayMap[genericPrefix]; isArray && IsArrayIndex(k) {
			if idx, _ := strconv.Atoi(k); idx >= tuple {
				out[i] = "-"
			}
		}
		genericPrefix += "/" + Escape(out[i])
	}
	return Compile(out)
}

// ParseObjectPath splits a dotted or bracketed object path such as
// `a.b[0]['c d']` into keys. Empty brackets yield an empty key.
func ParseObjectPath(path string) []string {
	if strings.HasPrefix(path, "/") {
		return Keys(path)
	}
	var keys []string
	cur := &strings.Builder{}
	flush := func() {
		if cur.Len() > 0 {
			keys = append(keys, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				cur.WriteString(path[i+1:])
				i = len(path)
				continue
			}
			inner := path[i+1 : i+end]
			if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0] {
				inner = inner[1 : len(inner)-1]
			}
			keys = append(keys, inner)
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return keys
}
