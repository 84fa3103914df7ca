// Package retry provides exponential backoff retry logic for transient failures.
//
// The [WithExponentialBackoff] function retries an operation with configurable
// max attempts, initial delay, maximum delay, and jitter. It is used for AWS
// API calls and other operations that may fail transiently. The sleep function
// is injectable so tests can run against a simulated clock.
package retry
