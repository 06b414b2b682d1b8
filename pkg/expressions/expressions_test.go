package expressions

import "testing"

func TestFromCurly(t *testing.T) {
	tests := []struct {
		name  string
		value string
		inner string
		want  bool
	}{
		{"plain expression", "${{ matrix.cache }}", "matrix.cache", true},
		{"no inner spaces", "${{matrix.cache}}", "matrix.cache", true},
		{"surrounding whitespace", "  ${{ inputs.enabled }}  ", "inputs.enabled", true},
		{"function call", "${{ hashFiles('**/go.sum') }}", "hashFiles('**/go.sum')", true},
		{"plain literal", "npm", "", false},
		{"boolean literal", "true", "", false},
		{"empty", "", "", false},
		{"prefix only", "${{ matrix.cache", "", false},
		{"suffix only", "matrix.cache }}", "", false},
		{"embedded expression", "npm-${{ github.sha }}", "", false},
		{"two expressions", "${{ a }}-${{ b }}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, ok := FromCurly(tt.value)
			if ok != tt.want {
				t.Fatalf("FromCurly(%q) ok = %v, want %v", tt.value, ok, tt.want)
			}
			if inner != tt.inner {
				t.Errorf("FromCurly(%q) inner = %q, want %q", tt.value, inner, tt.inner)
			}
		})
	}
}

func TestIsExpression(t *testing.T) {
	if !IsExpression("${{ github.event_name }}") {
		t.Error("delimited value should be recognized as an expression")
	}
	if IsExpression("pip") {
		t.Error("plain literal should not be recognized as an expression")
	}
}
