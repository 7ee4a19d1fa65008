package main

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{
		"PATH", "NAME", "TARGET", "FLAGS",
		"/home", "ACME Learning Center | Home",
		"/profile", "auth,lazy",
		"/sign-in", "guest,lazy",
		"→ /home",
		"/*pathMatch",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"REDIRECTS", "home", "/home", "ACME Learning Center | Home"}},
		{"/about", []string{"about", "ACME Learning Center | About"}},
		{"/unknown/path", []string{"not-found", "pathMatch=", "ACME Learning Center | Page Not Found"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := run(t, "resolve", tt.path)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("resolve %s: output missing %q:\n%s", tt.path, w, out)
				}
			}
		})
	}
}

func TestResolve_OneRowPerPath(t *testing.T) {
	out, err := run(t, "resolve", "/home", "/about")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	home := strings.Index(out, "ACME Learning Center | Home")
	about := strings.Index(out, "ACME Learning Center | About")
	if home < 0 || about < 0 || home > about {
		t.Errorf("expected a home row before an about row:\n%s", out)
	}
}

func TestResolve_RequiresPath(t *testing.T) {
	if _, err := run(t, "resolve"); err == nil {
		t.Error("expected error without a path argument")
	}
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "--max-redirects", "3")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "ok: 7 routes, max 3 redirects") {
		t.Errorf("unexpected output %q", out)
	}
}
