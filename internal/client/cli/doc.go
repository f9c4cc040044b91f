// Package cli provides the interactive admin console.
//
// It wires configuration, the local key-value store, session state, the
// notification center, the navigation layer and the outbound request
// pipeline, then runs a REPL over them. Typical flow: the console opens
// the login screen (or home for a restored session), the user signs in,
// and screens are entered with 'open <path>'. Screens the account may not
// open redirect home with a notice; an expired session sends the user back
// to the login screen. Catalog screens also accept record commands (show,
// add, edit, delete) that act on the collection in view.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See NewApp and runREPL for details.
package cli
