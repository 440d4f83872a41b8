package manifest

import (
	"strconv"
	"strings"
)

// ExpandTemplate substitutes $N placeholders in tmpl with groups[N].
// groups[0] is the whole match. A placeholder naming a group that does not
// exist is kept literally, and "$$" yields a single "$".
func ExpandTemplate(tmpl string, groups []string) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' || i+1 >= len(tmpl) {
			b.WriteByte(c)
			continue
		}
		if tmpl[i+1] == '$' {
			b.WriteByte('$')
			i++
			continue
		}
		j := i + 1
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte(c)
			continue
		}
		n, err := strconv.Atoi(tmpl[i+1 : j])
		if err != nil || n >= len(groups) {
			b.WriteString(tmpl[i:j])
		} else {
			b.WriteString(groups[n])
		}
		i = j - 1
	}
	return b.String()
}

// TemplateGroups lists the group ordinals a template references, in order.
func TemplateGroups(tmpl string) []int {
	var out []int
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' || i+1 >= len(tmpl) {
			continue
		}
		if tmpl[i+1] == '$' {
			i++
			continue
		}
		j := i + 1
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}
		if j == i+1 {
			continue
		}
		if n, err := strconv.Atoi(tmpl[i+1 : j]); err == nil {
			out = append(out, n)
		}
		i = j - 1
	}
	return out
}
