package mount

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapVars map[string]string

func (m mapVars) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestCatalogSortedAndUnique(t *testing.T) {
	entries := Catalog()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	if !slices.IsSorted(names) {
		t.Errorf("catalog not sorted: %v", names)
	}
	if len(slices.Compact(slices.Clone(names))) != len(names) {
		t.Errorf("catalog has duplicate names: %v", names)
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	a := Catalog()
	a[0].Name = "CHANGED"
	if Catalog()[0].Name == "CHANGED" {
		t.Fatal("Catalog() exposes its backing array")
	}
}

func TestCatalogPolicies(t *testing.T) {
	want := map[string]Entry{
		"BOOT_CONFIG":        {"BOOT_CONFIG", File, NoCreate},
		"BUILDSYS_STATE_DIR": {"BUILDSYS_STATE_DIR", Dir, Create},
		"TESTSYS_KUBECONFIG": {"TESTSYS_KUBECONFIG", File, Create},
		"BUILDSYS_ROOT_DIR":  {"BUILDSYS_ROOT_DIR", Dir, NoCreate},
	}
	for _, e := range Catalog() {
		if w, ok := want[e.Name]; ok && w != e {
			t.Errorf("entry %s = %+v, want %+v", e.Name, e, w)
		}
	}
}

func TestDeclaredFromEnv(t *testing.T) {
	vars := mapVars{
		"BUILDSYS_STATE_DIR": "/p/build/state",
		"BOOT_CONFIG":        "",
		"TESTSYS_KUBECONFIG": "/home/u/.kube/config",
		"PATH":               "/usr/bin",
	}

	got := DeclaredFromEnv(vars, Catalog())
	want := []Declared{
		{Path: "/p/build/state", Kind: Dir, Policy: Create},
		{Path: "/home/u/.kube/config", Kind: File, Policy: Create},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DeclaredFromEnv mismatch (-want +got):\n%s", diff)
	}
}

func TestKindPolicyString(t *testing.T) {
	got := strings.Join([]string{File.String(), Dir.String(), Create.String(), NoCreate.String()}, ",")
	if got != "file,dir,create,no-create" {
		t.Fatalf("names = %q", got)
	}
}
