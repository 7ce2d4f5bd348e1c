/*
Package session implements wizard session management and persistence orchestration.

It serializes edits of a single wizard with per-session mutexes (reference
counted, so idle sessions leave nothing behind) and, when a DistributedLocker
is configured, with a lock shared across replicas.
*/
package session
