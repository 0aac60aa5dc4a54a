// Package filesystem implements the file and directory commands.
//
// Handlers resolve every path argument against the session working
// directory, never against the process working directory, so concurrent
// web sessions with different cwds stay isolated.
package filesystem
