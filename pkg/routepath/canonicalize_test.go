package routepath

import (
	"errors"
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPath     string
		wantQuery    string
		wantFragment string
		wantChanged  bool
		wantErr      error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/", wantChanged: true},
		{name: "no leading slash", input: "login", wantPath: "/login", wantChanged: true},
		{name: "trailing slash", input: "/login/", wantPath: "/login", wantChanged: true},
		{name: "collapse slashes", input: "/a//b", wantPath: "/a/b", wantChanged: true},
		{name: "single dot", input: "/a/./b", wantPath: "/a/b", wantChanged: true},
		{name: "double dot", input: "/a/b/../c", wantPath: "/a/c", wantChanged: true},
		{name: "double dot to root", input: "/a/../", wantPath: "/", wantChanged: true},
		{name: "query preserved", input: "/login?next=/home", wantPath: "/login", wantQuery: "next=/home"},
		{name: "fragment preserved", input: "/login?x=1#top", wantPath: "/login", wantQuery: "x=1", wantFragment: "top"},
		{name: "valid escape", input: "/users/a%20b", wantPath: "/users/a%20b"},
		{name: "backslash", input: "/a\\b", wantErr: ErrBackslashInPath},
		{name: "encoded null", input: "/a%00b", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/a%GG", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/a%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q) unexpected error: %v", tt.input, err)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if got.Fragment != tt.wantFragment {
				t.Errorf("Fragment = %q, want %q", got.Fragment, tt.wantFragment)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func TestResultString(t *testing.T) {
	r := Result{Path: "/login", Query: "next=%2F", Fragment: "form"}
	if got := r.String(); got != "/login?next=%2F#form" {
		t.Errorf("String() = %q", got)
	}
	if got := (Result{Path: "/"}).String(); got != "/" {
		t.Errorf("String() = %q", got)
	}
}

func TestDecodeSegment(t *testing.T) {
	if got, err := DecodeSegment("a%20b", false); err != nil || got != "a b" {
		t.Errorf("DecodeSegment = %q, %v", got, err)
	}
	if _, err := DecodeSegment("a%2Fb", false); !errors.Is(err, ErrEncodedSlashInSegment) {
		t.Errorf("expected ErrEncodedSlashInSegment, got %v", err)
	}
	if got, err := DecodeSegment("a%2Fb", true); err != nil || got != "a/b" {
		t.Errorf("catch-all DecodeSegment = %q, %v", got, err)
	}
	if _, err := DecodeSegment("%zz", false); !errors.Is(err, ErrInvalidPercentEscape) {
		t.Errorf("expected ErrInvalidPercentEscape, got %v", err)
	}
}

func TestSegments(t *testing.T) {
	if got := Segments("/"); got != nil {
		t.Errorf("Segments(/) = %v, want nil", got)
	}
	if got := Segments("/a/b"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Segments(/a/b) = %v", got)
	}
}

func TestValidateNavTarget(t *testing.T) {
	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"/login", "/login", false},
		{"/login/?next=/", "/login?next=/", false},
		{"https://evil.example", "", true},
		{"http://evil.example", "", true},
		{"//evil.example/login", "", true},
		{"login", "", true},
		{"/../etc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := ValidateNavTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateNavTarget(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ValidateNavTarget(%q) = %q, want %q", tt.target, got.String(), tt.want)
			}
		})
	}
}

func TestBaseHelpers(t *testing.T) {
	t.Run("NormalizeBase", func(t *testing.T) {
		cases := map[string]string{"": "/", "/": "/", "/app/": "/app", "/app//ui": "/app/ui"}
		for in, want := range cases {
			got, err := NormalizeBase(in)
			if err != nil || got != want {
				t.Errorf("NormalizeBase(%q) = %q, %v; want %q", in, got, err, want)
			}
		}
		if _, err := NormalizeBase("app"); err == nil {
			t.Error("NormalizeBase(app) should fail")
		}
		if _, err := NormalizeBase("/app?x=1"); err == nil {
			t.Error("NormalizeBase with query should fail")
		}
	})

	t.Run("JoinBase", func(t *testing.T) {
		if got := JoinBase("/", "/login"); got != "/login" {
			t.Errorf("JoinBase = %q", got)
		}
		if got := JoinBase("/app", "/login"); got != "/app/login" {
			t.Errorf("JoinBase = %q", got)
		}
		if got := JoinBase("/app", "/"); got != "/app" {
			t.Errorf("JoinBase = %q", got)
		}
	})

	t.Run("StripBase", func(t *testing.T) {
		tests := []struct {
			base, path, want string
			ok               bool
		}{
			{"/", "/login", "/login", true},
			{"/app", "/app", "/", true},
			{"/app", "/app/login", "/login", true},
			{"/app", "/application", "", false},
			{"/app", "/login", "", false},
		}
		for _, tt := range tests {
			got, ok := StripBase(tt.base, tt.path)
			if got != tt.want || ok != tt.ok {
				t.Errorf("StripBase(%q, %q) = %q, %v; want %q, %v", tt.base, tt.path, got, ok, tt.want, tt.ok)
			}
		}
	})
}
