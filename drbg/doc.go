// Package drbg is the cryptographic random source behind salts, generated
// passwords and tokens: a NIST SP 800-90A Hash_DRBG seeded from operating
// system entropy.
//
// # Instances
//
// A [HashDRBG] is an explicit object.  Construct one with [New] and pass it
// to every call site that needs randomness, or use [Shared] / [Default] to
// obtain the process-wide instance for a given (digest, personalization,
// entropy source) combination.  Keeping one long-lived instance is what lets
// entropy accumulate; creating a generator per call defeats the construction.
//
//	salt := make([]byte, 32)
//	_, err := drbg.Default().Read(salt)
//
// # Reseeding
//
// The state is instantiated lazily on the first read.  It is reseeded from
// the entropy source automatically after [Options].MaxGenerations generate
// calls, whenever prediction resistance is requested, and on [HashDRBG.Reseed].
//
// # Concurrency
//
// Each HashDRBG serialises Generate and Reseed under its own mutex.
// [SystemEntropy] uses a separate lock around open, read and close.  Nothing
// here honours cancellation: a prediction-resistant read against a blocking
// kernel pool can stall until entropy is available.
//
// # Sequences
//
// [Stream] and [Blocks] turn any [io.Reader] into a lazy, infinite sequence
// of integers or fixed-size blocks.
package drbg
