/*
Package migration provides framework to test updates of the Moderation
contract against existing data.

The contract keeps reputation, stakes and moderation history which must
survive every update. The package restores the contract from a storage dump
(see tests/dump) on a fresh test blockchain, updates it to the executable
compiled from the current source code and gives access to its registries.
*/
package migration
