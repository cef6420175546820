package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "june sheet.xlsx", want: "june_sheet.xlsx"},
		{in: "a/b\\c.csv", want: "a_b_c.csv"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %q err=%v", tc.in, got, err)
		}
	}
}

func TestFold(t *testing.T) {
	if Fold("  SATURDAY ") != Fold("saturday") {
		t.Fatalf("fold should ignore case and padding")
	}
	if Upper("june 2025") != "JUNE 2025" {
		t.Fatalf("unexpected upper: %q", Upper("june 2025"))
	}
	if CleanHeader("\ufeffDate ") != "Date" {
		t.Fatalf("expected BOM stripped")
	}
	if Ext(" Sheet.XLSX") != ".xlsx" {
		t.Fatalf("unexpected ext %q", Ext(" Sheet.XLSX"))
	}
}
