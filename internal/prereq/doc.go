// Package prereq implements the prerequisites stage: organizational units,
// shared accounts, and the IAM control roles the landing zone depends on.
// Every operation is idempotent, so a partially failed run can be repeated
// without creating duplicates.
package prereq
