package environ

import "strings"

// How a [Rule] compares names.
type MatchKind int

const (
	Exact MatchKind = iota
	Prefix
)

// Allow-list entry for host variables.
type Rule struct {
	Kind    MatchKind // Exact name or prefix match.
	Pattern string    // Name or prefix.
}

// Creates a rule matching one variable name.
func ExactRule(name string) Rule {
	return Rule{Kind: Exact, Pattern: name}
}

// Creates a rule matching every name that starts with prefix.
func PrefixRule(prefix string) Rule {
	return Rule{Kind: Prefix, Pattern: prefix}
}

// Reports whether name matches the rule.
func (r Rule) Match(name string) bool {
	if r.Kind == Prefix {
		return strings.HasPrefix(name, r.Pattern)
	}
	return name == r.Pattern
}

// Returns the rule in the form accepted by [ParseRule].
func (r Rule) String() string {
	if r.Kind == Prefix {
		return r.Pattern + "*"
	}
	return r.Pattern
}

// Parses "NAME" as an exact rule and "PREFIX*" as a prefix rule.
func ParseRule(s string) Rule {
	if p, ok := strings.CutSuffix(s, "*"); ok {
		return PrefixRule(p)
	}
	return ExactRule(s)
}

// Variables the build tasks read that do not follow the prefix conventions.
var defaultNames = []string{
	"ALLOW_MISSING_KEY",
	"AMI_DATA_FILE_SUFFIX",
	"BOOT_CONFIG",
	"BOOT_CONFIG_INPUT",
	"CARGO_MAKE_CARGO_ARGS",
	"CARGO_MAKE_DEFAULT_TESTSYS_KUBECONFIG_PATH",
	"CARGO_MAKE_TESTSYS_ARGS",
	"CARGO_MAKE_TESTSYS_KUBECONFIG_ARG",
	"MARK_OVA_AS_TEMPLATE",
	"RELEASE_START_TIME",
	"SSM_DATA_FILE_SUFFIX",
	"VMWARE_IMPORT_SPEC_PATH",
	"VMWARE_VM_NAME_DEFAULT",
}

var defaultPrefixes = []string{
	"BOOT_CONFIG",
	"BUILDSYS_",
	"PUBLISH_",
	"REPO_",
	"TESTSYS_",
}

// Returns the build system's allow-list: its prefixes followed by its exact
// names.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(defaultPrefixes)+len(defaultNames))
	for _, p := range defaultPrefixes {
		rules = append(rules, PrefixRule(p))
	}
	for _, n := range defaultNames {
		rules = append(rules, ExactRule(n))
	}
	return rules
}
