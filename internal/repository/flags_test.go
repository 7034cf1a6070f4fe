package repository

import "testing"

func TestFlagRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		if got := decodeFlag(encodeFlag(v)); got != v {
			t.Errorf("flag round trip for %v yielded %v", v, got)
		}
	}
	if encodeFlag(true) != "TRUE" || encodeFlag(false) != "FALSE" {
		t.Errorf("flag encoding must be the literal TRUE/FALSE pair, got %q/%q",
			encodeFlag(true), encodeFlag(false))
	}
}

func TestDecodeFlagLegacyValues(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"TRUE", true},
		{"true", true},
		{" TRUE ", true},
		{"FALSE", false},
		{"", false},
		{"nan", false},
		{"1", false},
	}
	for _, tc := range cases {
		if got := decodeFlag(tc.raw); got != tc.want {
			t.Errorf("decodeFlag(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestBookRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		if got := decodeBook(encodeBook(v)); got != v {
			t.Errorf("book round trip for %v yielded %v", v, got)
		}
	}
	if encodeBook(true) != "SIM" {
		t.Errorf("book encoding must keep the legacy SIM value, got %q", encodeBook(true))
	}
	if !decodeBook("TRUE") {
		t.Error("decodeBook must accept TRUE written by older imports")
	}
	if decodeBook("NAO") || decodeBook("") {
		t.Error("decodeBook must treat NAO and empty as false")
	}
}
