/*
Package dump provides I/O operations for collected states of the Moderation
contract and its neighbours.

A dump is a snapshot of the contract state and raw storage pulled from a live
blockchain at some height. Dumps are used to reproduce real data in tests (see
tests/migration) and to inspect registries off-chain: RegistryOf maps raw
storage keys to the Moderation storage tables.

The package works with dumps stored in the file system using human-readable
encoding: contract states as JSON and storage items as base64-encoded CSV.
*/
package dump
