package common

import (
	"github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// TransferGAS moves amount of GAS and aborts the whole invocation if native
// GAS contract refuses the transfer.
func TransferGAS(from, to interop.Hash160, amount int, data any) {
	if !gas.Transfer(from, to, amount, data) {
		panic(moderationconst.ErrTransferFailed + ": GAS transfer returned false")
	}
}

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
