// Package settings reads the optional user configuration file.
//
// The file lives at [paths.Settings] and is YAML. Every field has a default,
// so a missing file is equivalent to an empty one:
//
//	runtime: containerd
//	containerd:
//	  address: /run/containerd/containerd.sock
//	  namespace: twoliter
//	env:
//	  prefixes: [MY_BUILD_]
//	  names: [HTTPS_PROXY]
package settings
