// Provides platform-appropriate paths for the CLI.
//
// User-level paths follow XDG conventions on Linux and platform-native
// conventions on macOS. The program name "twoliter" is used as the
// subdirectory under each base path. Project-level paths (the tools
// directory, build outputs) are owned by the project package.
package paths
