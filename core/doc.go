// Package core provides fundamental types shared across LagoonDB packages.
//
// # Identity
//
// Identity identifies the author of write batches:
//
//	identity := core.Identity{
//	    Name:  "App",
//	    Email: "app@example.com",
//	}
package core
