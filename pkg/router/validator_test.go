package router

import (
	"errors"
	"strings"
	"testing"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
)

func TestValidatePattern(t *testing.T) {
	valid := []string{
		"/",
		"/login",
		"/users/:id",
		"/users/:id:int",
		"/keys/:key:uuid",
		"/docs/*rest",
		"/a%20b",
	}
	for _, p := range valid {
		if err := ValidatePattern(p); err != nil {
			t.Errorf("ValidatePattern(%q) unexpected error: %v", p, err)
		}
	}

	invalid := []string{
		"",
		"login",
		"/login/",
		"/a//b",
		"/a/../b",
		"/login?x=1",
		"/login#top",
		"/a b",
		"/users/:",
		"/users/:id:float",
		"/users/:id/:id",
		"/docs/*rest/more",
		"/docs/*",
		"/users/:na-me",
		"/a:b",
		"/a%zz",
	}
	for _, p := range invalid {
		if err := ValidatePattern(p); err == nil {
			t.Errorf("ValidatePattern(%q) expected error", p)
		}
	}
}

func TestValidateTable(t *testing.T) {
	view := stubView("v")

	tests := []struct {
		name     string
		routes   Table
		wantCode string
	}{
		{
			name:     "empty table",
			routes:   nil,
			wantCode: "R004",
		},
		{
			name:     "malformed pattern",
			routes:   Table{{Path: "login", Name: "Login", View: view}},
			wantCode: "R001",
		},
		{
			name: "duplicate name",
			routes: Table{
				{Path: "/", Name: "Home", View: view},
				{Path: "/login", Name: "Home", View: view},
			},
			wantCode: "R002",
		},
		{
			name:     "empty name",
			routes:   Table{{Path: "/", View: view}},
			wantCode: "R002",
		},
		{
			name: "duplicate path",
			routes: Table{
				{Path: "/login", Name: "A", View: view},
				{Path: "/login", Name: "B", View: view},
			},
			wantCode: "R003",
		},
		{
			name: "same shape with renamed param",
			routes: Table{
				{Path: "/users/:id", Name: "A", View: view},
				{Path: "/users/:uid", Name: "B", View: view},
			},
			wantCode: "R003",
		},
		{
			name:     "missing view",
			routes:   Table{{Path: "/", Name: "Home"}},
			wantCode: "R005",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTable(tt.routes)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, rkerrors.Code(tt.wantCode)) {
				t.Errorf("error %v does not carry code %s", err, tt.wantCode)
			}
		})
	}
}

func TestValidateTableAcceptsAppTable(t *testing.T) {
	if err := ValidateTable(appTable()); err != nil {
		t.Fatalf("ValidateTable(appTable) = %v", err)
	}
}

func TestValidateTableCollectsAllErrors(t *testing.T) {
	view := stubView("v")
	err := ValidateTable(Table{
		{Path: "/", Name: "Home", View: view},
		{Path: "/", Name: "Home", View: view},
		{Path: "bad", Name: "Bad", View: view},
	})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 3 {
		t.Fatalf("len = %d, want 3: %v", len(verrs), verrs)
	}
	if !strings.Contains(err.Error(), "3 route validation errors") {
		t.Errorf("Error() = %q", err.Error())
	}
	if verrs[0].Index != 1 {
		t.Errorf("first error index = %d, want 1", verrs[0].Index)
	}
}

func TestPatternParams(t *testing.T) {
	defs := PatternParams("/orgs/:org/users/:id:int/*rest")
	if len(defs) != 3 {
		t.Fatalf("len = %d, want 3", len(defs))
	}
	if defs[0] != (ParamDef{Name: "org", Type: "string"}) {
		t.Errorf("defs[0] = %+v", defs[0])
	}
	if defs[1] != (ParamDef{Name: "id", Type: "int"}) {
		t.Errorf("defs[1] = %+v", defs[1])
	}
	if !defs[2].CatchAll || defs[2].Name != "rest" {
		t.Errorf("defs[2] = %+v", defs[2])
	}
	if PatternParams("/") != nil {
		t.Error("root pattern has no params")
	}
}
