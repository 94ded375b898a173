package jsonform

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reoring/jsonform/internal/jsonvalue"
	"github.com/reoring/jsonform/internal/schemautil"
	"github.com/reoring/jsonform/jsonpointer"
	"github.com/reoring/jsonform/layout"
)

var (
	placeholderRe = regexp.MustCompile(`\{\{(.+?)\}\}`)
	indexNameRe   = regexp.MustCompile(`^(\d+|-)$`)
)

// SetItemTitle returns the title of the context's node: its title option
// or a title made from its name, with {{...}} expressions filled in. Array
// items without a title get none.
func (s *Service) SetItemTitle(ctx *WidgetContext) string {
	if ctx == nil || ctx.LayoutNode == nil {
		return ""
	}
	node := ctx.LayoutNode
	title := node.OptString("title")
	if title == "" {
		if indexNameRe.MatchString(node.Name) {
			return ""
		}
		title = schemautil.FixTitle(node.Name)
	}
	var parentValue any
	if group := s.GetFormControlGroup(ctx); group != nil {
		parentValue = group.Value()
	}
	return s.ParseText(title, s.GetFormControlValue(ctx), parentValue, lastIndex(ctx.DataIndex))
}

// SetArrayItemTitle returns the title of child, the index-th item shown by
// the container in parent. Items of arrays prefer their legend to their
// title.
func (s *Service) SetArrayItemTitle(parent *WidgetContext, child *layout.Node, index int) string {
	if parent == nil || parent.LayoutNode == nil {
		return ""
	}
	parentNode := parent.LayoutNode
	values := s.GetFormControlValue(parent)
	list, isList := values.([]any)
	isArrayItem := strings.HasSuffix(parentNode.Type, "array") && isList

	candidates := []string{child.OptString("title"), child.OptString("legend")}
	if isArrayItem && !child.IsRef() {
		candidates = []string{child.OptString("legend"), child.OptString("title")}
	}
	candidates = append(candidates, parentNode.OptString("title"), parentNode.OptString("legend"))
	var text string
	for _, c := range candidates {
		if c != "" {
			text = c
			break
		}
	}
	if text == "" {
		return ""
	}
	var value any = values
	if isList && index >= 0 && index < len(list) {
		value = list[index]
	}
	return s.ParseText(text, value, values, index)
}

// ParseText fills {{expression}} placeholders in text. An expression may
// be a quoted literal, $index (the 1-based index), value or values
// followed by a path, or terms joined by "+", "||" or "&&".
func (s *Service) ParseText(text string, value, values any, key any) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		return jsonvalue.ToString(parseExpression(m[2:len(m)-2], value, values, key))
	})
}

func parseExpression(expr string, value, values any, key any) any {
	index := ""
	switch k := key.(type) {
	case int:
		index = strconv.Itoa(k + 1)
	case string:
		index = k
	}
	expr = strings.TrimSpace(expr)
	if len(expr) >= 2 && (expr[0] == '\'' || expr[0] == '"') && expr[len(expr)-1] == expr[0] &&
		!strings.ContainsRune(expr[1:len(expr)-1], rune(expr[0])) {
		return expr[1 : len(expr)-1]
	}
	if expr == "idx" || expr == "$index" {
		return index
	}
	if expr == "value" {
		if m, ok := values.(map[string]any); !ok || m["value"] == nil {
			return value
		}
	}
	if !strings.ContainsAny(expr, `"' +`) && !strings.Contains(expr, "||") && !strings.Contains(expr, "&&") {
		return lookup(expr, value, values)
	}
	expr = strings.ReplaceAll(expr, "[idx]", "["+index+"]")
	expr = strings.ReplaceAll(expr, "[$index]", "["+index+"]")
	switch {
	case strings.Contains(expr, "||"):
		for _, term := range strings.Split(expr, "||") {
			if v := parseExpression(term, value, values, key); jsonvalue.Truthy(v) {
				return v
			}
		}
		return ""
	case strings.Contains(expr, "&&"):
		var last any = ""
		for _, term := range strings.Split(expr, "&&") {
			last = parseExpression(term, value, values, key)
			if !jsonvalue.Truthy(last) {
				return last
			}
		}
		return last
	case strings.Contains(expr, "+"):
		var b strings.Builder
		for _, term := range strings.Split(expr, "+") {
			b.WriteString(jsonvalue.ToString(parseExpression(term, value, values, key)))
		}
		return b.String()
	}
	return ""
}

// lookup reads "value.a.b" from value, "values.a" from values, and any
// other path from values.
func lookup(expr string, value, values any) any {
	keys := jsonpointer.ParseObjectPath(expr)
	if len(keys) == 0 {
		return ""
	}
	switch keys[0] {
	case "value":
		if v, ok := jsonpointer.GetKeys(value, keys[1:]); ok {
			return v
		}
	case "values":
		if v, ok := jsonpointer.GetKeys(values, keys[1:]); ok {
			return v
		}
	}
	if v, ok := jsonpointer.GetKeys(values, keys); ok {
		return v
	}
	return ""
}

func lastIndex(idx []int) any {
	if len(idx) == 0 {
		return nil
	}
	return idx[len(idx)-1]
}
