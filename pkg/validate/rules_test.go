package validate

import (
	"testing"
	"time"
)

func TestRequired(t *testing.T) {
	rule := Required()
	if v := rule(""); v == nil || v.Tag != TagRequired {
		t.Fatalf("expected required violation for empty value, got %+v", v)
	}
	if v := rule("   "); v == nil {
		t.Fatal("expected required violation for whitespace value")
	}
	if v := rule("ok"); v != nil {
		t.Fatalf("expected no violation, got %+v", v)
	}
}

func TestMinLength(t *testing.T) {
	rule := MinLength(4)
	cases := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"abc", true},
		{"abcd", false},
		{"abcde", false},
		{"日本語", true},
		{"日本語です", false},
	}
	for _, tc := range cases {
		v := rule(tc.value)
		if got := v != nil; got != tc.want {
			t.Fatalf("MinLength(4)(%q): violation=%v, want %v", tc.value, got, tc.want)
		}
		if v != nil && v.Params["value"] != "4" {
			t.Fatalf("expected bound param, got %+v", v)
		}
	}
}

func TestMaxLength(t *testing.T) {
	rule := MaxLength(4)
	if v := rule("abcd"); v != nil {
		t.Fatalf("expected no violation at the bound, got %+v", v)
	}
	if v := rule("abcde"); v == nil || v.Tag != TagMaxLength {
		t.Fatalf("expected maxlength violation, got %+v", v)
	}
	if v := rule(""); v != nil {
		t.Fatalf("expected empty to pass, got %+v", v)
	}
}

func TestEmail(t *testing.T) {
	rule := Email()
	for _, value := range []string{"", "user@example.com", "first.last@sub.example.co"} {
		if v := rule(value); v != nil {
			t.Fatalf("expected %q to pass, got %+v", value, v)
		}
	}
	for _, value := range []string{"plain", "missing@tld@twice", "@example.com", "user@"} {
		if v := rule(value); v == nil || v.Tag != TagEmail {
			t.Fatalf("expected %q to fail the email check", value)
		}
	}
}

func TestOneOf(t *testing.T) {
	rule := OneOf([]string{"angular", "react"})
	if v := rule(""); v != nil {
		t.Fatalf("expected empty to pass, got %+v", v)
	}
	if v := rule("react"); v != nil {
		t.Fatalf("expected listed option to pass, got %+v", v)
	}
	if v := rule("ember"); v == nil || v.Tag != TagOption {
		t.Fatalf("expected option violation, got %+v", v)
	}
	if v := OneOf(nil)("anything"); v != nil {
		t.Fatalf("expected empty option set to accept everything, got %+v", v)
	}
}

func TestPattern(t *testing.T) {
	rule, err := Pattern(`^\d+$`)
	if err != nil {
		t.Fatalf("failed to compile pattern: %v", err)
	}
	if v := rule("123"); v != nil {
		t.Fatalf("expected match to pass, got %+v", v)
	}
	if v := rule("12a"); v == nil || v.Tag != TagPattern {
		t.Fatalf("expected pattern violation, got %+v", v)
	}

	if _, err := Pattern(`(`); err == nil {
		t.Fatal("expected an error for an invalid expression")
	}
}

func TestAgeRangeAt(t *testing.T) {
	now := func() time.Time {
		return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	}
	rule := AgeRangeAt(18, 100, now)

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty passes", "", false},
		{"unparsable fails", "not-a-date", true},
		{"turns 18 today", "2008-08-29", false},
		{"18 tomorrow", "2008-08-30", true},
		{"mid range", "1990-06-15", false},
		{"exactly 100", "1926-08-29", false},
		{"101", "1925-08-28", true},
		{"future date", "2030-01-01", true},
	}
	for _, tc := range cases {
		v := rule(tc.value)
		if got := v != nil; got != tc.want {
			t.Fatalf("%s: AgeRangeAt(18,100)(%q): violation=%v, want %v", tc.name, tc.value, got, tc.want)
		}
		if v != nil {
			if v.Tag != TagAgeRange {
				t.Fatalf("%s: unexpected tag %q", tc.name, v.Tag)
			}
			if v.Params["min"] != "18" || v.Params["max"] != "100" {
				t.Fatalf("%s: unexpected params %+v", tc.name, v.Params)
			}
		}
	}
}
