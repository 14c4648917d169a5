// Package cmd provides the command-line interface implementation for notes.
//
// This package contains all the subcommand implementations for the notes CLI
// tool. It uses the Cobra library for command structure and Fang for styling.
//
// The commands fall into two groups:
//   - container operations: init, list, copyin, copyout, mkdir, rm, rmdir
//     and defrag edit a single container through the notes package
//   - utilities: validate, info, import, export, seed and mount
//
// Each command is implemented as a separate file with its own constructor
// function that returns a *cobra.Command. The root command loads the
// configuration and sets up logging before any subcommand runs. All host
// file access goes through an afero.Fs so commands can be exercised against
// an in-memory filesystem.
package cmd
