// Parses flags, configures logging, and dispatches the twoliter commands.
//
// Global flags:
//
//	-q, --quiet     Only report errors.
//	-v, --verbose   Report progress and stream task output.
//	-d, --debug     Report every decision and stream task output.
//	    --config    Settings file (default $XDG_CONFIG_HOME/twoliter/config.yaml).
//
// Flags override the log level set via linker flags. The logger is
// reconfigured after parsing, before any command runs. At the default and
// quiet levels the output of child processes is captured and shown only when
// they fail.
package cli
