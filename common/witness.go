package common

import (
	"github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

const (
	// ErrWitnessFailed appears when the method must be called by the
	// participant whose address is passed but was not.
	ErrWitnessFailed = moderationconst.ErrNotAuthorized + ": witness check failed"
	// ErrAdminWitnessFailed appears when the method must be called by the
	// contract administrator but was not.
	ErrAdminWitnessFailed = moderationconst.ErrNotAuthorized + ": admin witness check failed"
)

// CheckWitness checks witness of the passed participant. It panics with
// ErrWitnessFailed message on fail.
func CheckWitness(participant interop.Hash160) {
	checkWitnessWithPanic(participant, ErrWitnessFailed)
}

// CheckAdminWitness checks witness of the passed administrator address. It
// panics with ErrAdminWitnessFailed message on fail.
func CheckAdminWitness(admin interop.Hash160) {
	checkWitnessWithPanic(admin, ErrAdminWitnessFailed)
}

func checkWitnessWithPanic(caller interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}

// CheckHash160 panics with invalid argument message if h is not a valid
// script hash.
func CheckHash160(h interop.Hash160, what string) {
	if len(h) != interop.Hash160Len {
		panic(moderationconst.ErrInvalidArgument + ": incorrect length of " + what)
	}
}
