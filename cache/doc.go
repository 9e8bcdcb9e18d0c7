// Package cache stores authorization check results keyed by request
// fingerprint.
//
// MemoryStore is a guarded in-process map for single instances and tests.
// RedisStore shares results between instances through go-redis and doubles
// as a lifecycle component.
package cache
