package moderation

import (
	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const adminKey = "\x00admin"

// _deploy stores contract administrator on initial deployment and checks
// version on update.
// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		admin interop.Hash160
	})

	common.CheckHash160(args.admin, "admin script hash")

	storage.Put(ctx, adminKey, args.admin)

	runtime.Log("moderation contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(cst.ErrNotAuthorized + ": only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("moderation contract updated")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Admin returns address of the contract administrator allowed to seed
// participant reputation.
func Admin() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getAdmin(ctx)
}

// SetAdmin passes administrator role to another account. It can be invoked
// only by the current administrator.
func SetAdmin(newAdmin interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckAdminWitness(getAdmin(ctx))
	common.CheckHash160(newAdmin, "admin script hash")

	storage.Put(ctx, adminKey, newAdmin)
	runtime.Log("administrator changed")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Contract accepts only stakes: GAS transfers with StakeMarker data lock the
// transferred amount as the sender's stake.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("only GAS can be accepted for stake")
	}

	if data == nil || string(data.([]byte)) != cst.StakeMarker {
		common.AbortWithMessage("payments without stake marker are not accepted")
	}

	common.CheckHash160(from, "stake owner")

	lockStake(storage.GetContext(), from, amount)
}

func getAdmin(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, adminKey).(interop.Hash160)
}

// currentStep returns index of the last persisted block, the moment all
// time-dependent checks of the current invocation are made against.
func currentStep() int {
	return ledger.CurrentIndex()
}

func itoa(n int) string {
	return std.Itoa(n, 10)
}
