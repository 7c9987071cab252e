package mount

// Environment variable that names a path the build uses.
type Entry struct {
	Name   string // Variable name.
	Kind   Kind   // What the value names.
	Policy Policy // Behavior when the value names a missing path.
}

var catalog = []Entry{
	{"BOOT_CONFIG", File, NoCreate},
	{"BOOT_CONFIG_INPUT", Dir, NoCreate},
	{"BUILDSYS_BUILD_DIR", Dir, Create},
	{"BUILDSYS_IMAGES_DIR", Dir, Create},
	{"BUILDSYS_KMOD_KIT_PATH", Dir, Create},
	{"BUILDSYS_LICENSES_CONFIG_PATH", File, NoCreate},
	{"BUILDSYS_OUTPUT_DIR", Dir, Create},
	{"BUILDSYS_OVA_PATH", File, Create},
	{"BUILDSYS_OVF_TEMPLATE", File, NoCreate},
	{"BUILDSYS_PACKAGES_DIR", Dir, Create},
	{"BUILDSYS_ROOT_DIR", Dir, NoCreate},
	{"BUILDSYS_SBKEYS_PROFILE_DIR", Dir, Create},
	{"BUILDSYS_SOURCES_DIR", Dir, NoCreate},
	{"BUILDSYS_STATE_DIR", Dir, Create},
	{"BUILDSYS_TOOLS_DIR", Dir, NoCreate},
	{"BUILDSYS_VARIANT_DIR", Dir, Create},
	{"CARGO_HOME", Dir, Create},
	{"GO_MOD_CACHE", Dir, Create},
	{"PUBLISH_EXPIRATION_POLICY_PATH", File, NoCreate},
	{"PUBLISH_INFRA_CONFIG_PATH", File, Create},
	{"PUBLISH_REPO_BASE_DIR", Dir, Create},
	{"PUBLISH_REPO_KEY", File, Create},
	{"PUBLISH_REPO_OUTPUT_DIR", File, Create},
	{"PUBLISH_REPO_ROOT_JSON", File, Create},
	{"PUBLISH_SSM_TEMPLATES_PATH", File, Create},
	{"TESTSYS_KUBECONFIG", File, Create},
	{"TESTSYS_MGMT_CLUSTER_KUBECONFIG", File, Create},
	{"TESTSYS_TESTS_DIR", Dir, Create},
	{"TESTSYS_TEST_CONFIG_PATH", File, NoCreate},
	{"TESTSYS_USERDATA", File, Create},
	{"VMWARE_IMPORT_SPEC_PATH", File, NoCreate},
}

// Returns the path variables the build tasks read, sorted by name.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Source of variable values, satisfied by the environment surface.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// Turns the catalog entries that are set in vars into declared paths.
//
// Unset and empty variables are skipped.
func DeclaredFromEnv(vars Lookuper, entries []Entry) []Declared {
	var out []Declared
	for _, e := range entries {
		v, ok := vars.Lookup(e.Name)
		if !ok || v == "" {
			continue
		}
		out = append(out, Declared{Path: v, Kind: e.Kind, Policy: e.Policy})
	}
	return out
}
