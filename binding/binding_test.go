package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return v
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada"},"items":[{"sku":"A-1","qty":3}],"total":12.5}`)
	cases := []struct {
		in, want string
	}{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${items[0].sku} x${items[0].qty}", "A-1 x3"},
		{"Total ${total}", "Total 12.5"},
		{"Missing ${user.email}", "Missing ${user.email}"},
		{"Fallback ${user.email|n/a}", "Fallback n/a"},
		{"Out of range ${items[4].sku|-}", "Out of range -"},
		{"No placeholders", "No placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	in := "Hello ${user.name|x}"
	if got := Interpolate(in, nil); got != in {
		t.Fatalf("nil data should leave text unchanged, got %q", got)
	}
}

func TestLookupRejectsMalformedIndex(t *testing.T) {
	data := decode(t, `{"items":[1,2]}`)
	for _, path := range []string{"items[x]", "items[0", "items[0]y"} {
		if _, ok := Lookup(data, path); ok {
			t.Fatalf("Lookup(%q) should fail", path)
		}
	}
	if v, ok := Lookup(data, "items[1]"); !ok || v.(float64) != 2 {
		t.Fatalf("Lookup(items[1]) = %v, %v", v, ok)
	}
}
