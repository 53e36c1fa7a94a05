/*
Package session serializes access to quiz sessions.

A Manager wraps any ports.SessionStore with per-session mutexes, and can
extend that exclusion across replicas with a ports.DistributedLocker (for
example the Redis locker), so concurrent choices on the same session never
lose updates.
*/
package session
