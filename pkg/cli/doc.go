// Package cli turns command-line arguments into an Invocation and runs the
// load, blur and save pipeline for it. Parsing never exits the process:
// failures come back as *ExitError values carrying the status code, and the
// caller decides when to call os.Exit.
package cli
