// Package proc runs external programs with the output handling the CLI needs.
//
// In [Buffered] mode stdout and stderr are captured and only surface when
// the program fails, as part of the returned [*ExitError]. In [Streamed]
// mode the program inherits the terminal so long-running builds show their
// progress as it happens. Either way a non-zero exit status becomes an
// [*ExitError] that carries the code, so callers can mirror it.
package proc
