package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTemplate_SubstitutesGroups_When_PlaceholdersPresent(t *testing.T) {
	t.Parallel()

	groups := []string{"XP: 340/500", "340", "500"}
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{name: "success: single group", tmpl: "$1", want: "340"},
		{name: "success: mixed text", tmpl: "$1 of $2", want: "340 of 500"},
		{name: "success: whole match", tmpl: "[$0]", want: "[XP: 340/500]"},
		{name: "success: no placeholder", tmpl: "static", want: "static"},
		{name: "success: escaped dollar", tmpl: "$$1", want: "$1"},
		{name: "success: missing group kept literal", tmpl: "$9", want: "$9"},
		{name: "success: multi digit not split", tmpl: "$12", want: "$12"},
		{name: "success: trailing dollar", tmpl: "cost $", want: "cost $"},
		{name: "success: dollar before letter", tmpl: "$x", want: "$x"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExpandTemplate(tc.tmpl, groups))
		})
	}
}

func TestTemplateGroups_ListsOrdinals_When_Referenced(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{1, 2, 10}, TemplateGroups("$1-$2 ($10) $$3"))
	assert.Nil(t, TemplateGroups("plain"))
}
