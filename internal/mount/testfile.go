package mount

import (
	"slices"
	"strings"
)

// Finds the file given to "testsys test" in a task argument list.
//
// Scanning starts after the first "testsys" token, which must be followed
// by "test". The file is taken from the first "-f" or "--file" flag after
// that, either from the next argument or from an "=" suffix. An empty "="
// value reports no file.
func FindTestFileArg(args []string) (string, bool) {
	i := slices.Index(args, "testsys")
	if i < 0 || i+1 >= len(args) || args[i+1] != "test" {
		return "", false
	}

	rest := args[i+2:]
	for j, arg := range rest {
		switch {
		case arg == "-f" || arg == "--file":
			if j+1 < len(rest) {
				return rest[j+1], true
			}
			return "", false

		case strings.HasPrefix(arg, "-f=") || strings.HasPrefix(arg, "--file="):
			_, value, _ := strings.Cut(arg, "=")
			return value, value != ""
		}
	}
	return "", false
}
