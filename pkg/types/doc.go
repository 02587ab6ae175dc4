// Package types defines the Store interfaces, the Record and Sheet entity
// types, the backend Config, and the standard errors shared by all
// recordbook storage backends.
package types
