package fonts

import "testing"

func TestLoadAllFamilies(t *testing.T) {
	for _, f := range Families() {
		data, err := Load(f)
		if err != nil {
			t.Fatalf("Load(%s) error: %v", f, err)
		}
		if len(data) < 1024 {
			t.Fatalf("Load(%s) returned %d bytes", f, len(data))
		}
	}
	if _, err := Load("fantasy"); err == nil {
		t.Fatalf("expected error for unknown family")
	}
}

func TestParseFamily(t *testing.T) {
	if f, err := ParseFamily(" Sans-Serif "); err != nil || f != SansSerif {
		t.Fatalf("ParseFamily = %q, %v", f, err)
	}
	if _, err := ParseFamily("cursive"); err == nil {
		t.Fatalf("expected error for cursive")
	}
}
