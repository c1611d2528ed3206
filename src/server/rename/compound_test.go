package rename

import "testing"

func TestParseRenderRoundTrip(t *testing.T) {
	for _, s := range []string{"foo(a:b:)", "foo(_:)", "foo", "resize(width:_:height:)"} {
		if got := ParseCompoundName(s).String(); got != s {
			t.Errorf("render(parse(%q)) = %q", s, got)
		}
	}
}

func TestParsePlainName(t *testing.T) {
	n := ParseCompoundName("close")
	if n.Base() != "close" || n.IsCompound() {
		t.Errorf("plain name parsed as %v", n)
	}
}

func TestParseZeroParameterCall(t *testing.T) {
	n := ParseCompoundName("close()")
	if n.Base() != "close" || len(n.Parameters()) != 0 {
		t.Errorf("close() = %v", n)
	}
	if got := n.String(); got != "close" {
		t.Errorf("canonical form = %q", got)
	}
}

func TestParseWildcards(t *testing.T) {
	n := ParseCompoundName("foo(_:b::)")
	params := n.Parameters()
	if len(params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(params))
	}
	if !params[0].IsWildcard() {
		t.Errorf("underscore should be wildcard")
	}
	if params[1].IsWildcard() || params[1].Name() != "b" {
		t.Errorf("named param = %v", params[1])
	}
	if !params[2].IsWildcard() {
		t.Errorf("empty segment should be wildcard")
	}
}

func TestParseUnbalancedParens(t *testing.T) {
	// Missing ")" reads the label list to the end of the string.
	n := ParseCompoundName("foo(a:b:")
	if n.Base() != "foo" || len(n.Parameters()) != 2 {
		t.Errorf("unbalanced input = %v", n)
	}
	if got := n.String(); got != "foo(a:b:)" {
		t.Errorf("canonical form = %q", got)
	}
}

func TestParameterAt(t *testing.T) {
	n := ParseCompoundName("foo(a:b:)")
	if p, ok := n.ParameterAt(1); !ok || p.Name() != "b" {
		t.Errorf("ParameterAt(1) = %v, %v", p, ok)
	}
	if _, ok := n.ParameterAt(2); ok {
		t.Errorf("out-of-bounds index should fail")
	}
	if _, ok := n.ParameterAt(-1); ok {
		t.Errorf("negative index should fail")
	}
}

func TestValidateNewName(t *testing.T) {
	for _, valid := range []string{"bar", "bar(x:_:)", "_private", "name2"} {
		if err := ValidateNewName(valid); err != nil {
			t.Errorf("ValidateNewName(%q) = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "2bad", "has space", "a-b"} {
		if err := ValidateNewName(invalid); err == nil {
			t.Errorf("ValidateNewName(%q) should fail", invalid)
		}
	}
}
