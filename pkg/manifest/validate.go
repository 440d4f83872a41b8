package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity grades a validation problem.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Problem is one advisory finding about a manifest.
type Problem struct {
	Path     string
	Message  string
	Severity Severity
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %s", p.Severity, p.Path, p.Message)
}

// Validate reports structural problems. Loading never depends on the result;
// bad elements are still isolated at component construction time.
func Validate(m *Manifest) []Problem {
	if m == nil {
		return []Problem{{Path: "manifest", Message: "manifest is nil", Severity: SeverityError}}
	}
	var problems []Problem
	add := func(sev Severity, path, format string, args ...any) {
		problems = append(problems, Problem{Path: path, Message: fmt.Sprintf(format, args...), Severity: sev})
	}

	seen := make(map[string]int)
	for i, el := range m.Hud.Elements {
		path := fmt.Sprintf("hud.elements[%d]", i)
		if strings.TrimSpace(el.ID) == "" {
			add(SeverityError, path, "missing id")
		} else if first, dup := seen[el.ID]; dup {
			add(SeverityError, path, "duplicate id %q (first at hud.elements[%d])", el.ID, first)
		} else {
			seen[el.ID] = i
		}
		if strings.TrimSpace(el.Type) == "" {
			add(SeverityError, path, "missing type")
		}
		if el.DataSource != nil {
			problems = append(problems, validateDataSource(path+".dataSource", el.DataSource)...)
		}
	}

	for i, menu := range m.Menus {
		path := fmt.Sprintf("menus[%d]", i)
		if menu.ID == "" {
			add(SeverityError, path, "missing id")
		}
		for j, tab := range menu.Tabs {
			if tab.Content != nil && tab.Content.DataSource != nil {
				problems = append(problems, validateDataSource(fmt.Sprintf("%s.tabs[%d].content.dataSource", path, j), tab.Content.DataSource)...)
			}
		}
	}

	if m.Notifications != nil {
		for i, p := range m.Notifications.Patterns {
			path := fmt.Sprintf("notifications.patterns[%d]", i)
			if p.Match == "" {
				add(SeverityWarning, path, "empty match pattern")
				continue
			}
			if _, err := regexp.Compile(p.Match); err != nil {
				add(SeverityError, path, "invalid match pattern: %v", err)
			}
		}
	}
	return problems
}

func validateDataSource(path string, ds *DataSourceDef) []Problem {
	var problems []Problem
	if ds.RefreshInterval < 0 {
		problems = append(problems, Problem{Path: path, Message: "negative refreshInterval treated as manual", Severity: SeverityWarning})
	}
	if ds.Pattern == "" {
		if ds.Command != "" && len(ds.Mapping) > 0 {
			problems = append(problems, Problem{Path: path, Message: "mapping declared without a pattern", Severity: SeverityWarning})
		}
		return problems
	}
	re, err := regexp.Compile(ds.Pattern)
	if err != nil {
		return append(problems, Problem{Path: path, Message: fmt.Sprintf("invalid pattern: %v", err), Severity: SeverityError})
	}
	groups := re.NumSubexp()
	for _, fm := range ds.Mapping {
		for _, n := range TemplateGroups(fm.Template) {
			if n > groups {
				problems = append(problems, Problem{
					Path:     path + ".mapping." + fm.Field,
					Message:  fmt.Sprintf("template references $%d but pattern has %d groups", n, groups),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return problems
}
