package migration

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
	"path/filepath"
	"testing"

	rpcmod "github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/moderation-contract/tests/dump"
	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/dao"
	"github.com/nspcc-dev/neo-go/pkg/core/native"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

// Contract is a Moderation contract restored from the dump on a fresh test
// blockchain. The dump is usually pulled from a live network with
// 'modctl dump'. After the restore the contract can be updated to the
// executable compiled from the current source code, and its registries can be
// read to make sure data survived the update.
//
// Contract instances must be constructed using NewContract.
type Contract struct {
	id int32

	exec *neotest.Executor

	invoker *neotest.ContractInvoker

	bNEF      []byte
	jManifest []byte
}

// ContractOptions groups various options of NewContract.
type ContractOptions struct {
	// Path to the directory containing source code of the Moderation contract.
	// Defaults to '../../moderation'.
	SourceCodeDir string

	// Listener of storage dump of the tested contract. Useful for working with raw
	// values that can not be accessed by the contract API.
	StorageDumpHandler func(key, value []byte)
}

// NewContract constructs Contract from provided dump.Reader for the contract
// dumped under the given name.
//
// The Contract is initialized with all contracts (states and data) from the
// dump.Reader. If you need to process storage items of the tested contract
// before the chain is initialized, use ContractOptions.StorageDumpHandler. If
// set, NewContract passes each key-value item into the function.
func NewContract(tb testing.TB, d *dump.Reader, name string, opts ContractOptions) *Contract {
	lowLevelStore := storage.NewMemoryStore()
	cachedStore := storage.NewMemCachedStore(lowLevelStore)
	_dao := dao.NewSimple(lowLevelStore, false)

	nativeContracts := native.NewContracts(config.ProtocolConfiguration{})

	err := nativeContracts.Management.InitializeCache(0, _dao)
	require.NoError(tb, err)

	tested, ok := d.ContractState(name)
	require.True(tb, ok, "contract '%s' is missing in the dump", name)

	mNameToID := make(map[string]int32)

	err = d.IterateContractStates(func(_name string, _state state.Contract) {
		_state.UpdateCounter = 0 // contract could be dumped as already updated

		err = native.PutContractState(_dao, &_state)
		require.NoError(tb, err)

		mNameToID[_name] = _state.ID
	})
	require.NoError(tb, err)

	err = d.IterateContractStorages(func(_name string, key, value []byte) {
		if opts.StorageDumpHandler != nil && _name == name {
			opts.StorageDumpHandler(key, value)
		}

		id, ok := mNameToID[_name]
		require.True(tb, ok)

		storageKey := make([]byte, 5+len(key))
		storageKey[0] = byte(_dao.Version.StoragePrefix)
		binary.LittleEndian.PutUint32(storageKey[1:], uint32(id))
		copy(storageKey[5:], key)

		cachedStore.Put(storageKey, value)
	})
	require.NoError(tb, err)

	_, err = _dao.PersistSync()
	require.NoError(tb, err)

	_, err = cachedStore.PersistSync()
	require.NoError(tb, err)

	useDefaultConfig := func(*config.Blockchain) {}
	var blockChain *core.Blockchain

	{ // FIXME: track neo-go#2926
		// contracts put into the store directly are not visible unless the
		// blockchain is run twice. Close is overridden to keep the storage.
		var run bool
		blockChain, _ = chain.NewSingleWithCustomConfigAndStore(tb, useDefaultConfig, nopCloseStore{lowLevelStore}, run)
		go blockChain.Run()
		blockChain.Close()
	}

	blockChain, committee := chain.NewSingleWithCustomConfigAndStore(tb, useDefaultConfig, lowLevelStore, true)

	exec := neotest.NewExecutor(tb, blockChain, committee, committee)

	if opts.SourceCodeDir == "" {
		opts.SourceCodeDir = filepath.Join("..", "..", "moderation")
	}

	ctr := neotest.CompileFile(tb, exec.CommitteeHash, opts.SourceCodeDir, filepath.Join(opts.SourceCodeDir, "config.yml"))

	bNEF, err := ctr.NEF.Bytes()
	require.NoError(tb, err)

	jManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(tb, err)

	return &Contract{
		id:        tested.ID,
		exec:      exec,
		invoker:   exec.NewInvoker(exec.ContractHash(tb, tested.ID), committee),
		bNEF:      bNEF,
		jManifest: jManifest,
	}
}

func (x *Contract) checkUpdate(tb testing.TB, faultException string, args ...any) {
	const updateMethod = "update"

	if faultException != "" {
		x.invoker.InvokeFail(tb, faultException, updateMethod, x.bNEF, x.jManifest, args)
		return
	}

	var noResult stackitem.Null
	x.invoker.Invoke(tb, noResult, updateMethod, x.bNEF, x.jManifest, args)
}

// CheckUpdateSuccess tests that contract update with given arguments succeeds.
// Contract executable (NEF and manifest) is compiled from source code (see
// NewContract for details).
func (x *Contract) CheckUpdateSuccess(tb testing.TB, args ...any) {
	x.checkUpdate(tb, "", args...)
}

// CheckUpdateFail tests that contract update with given arguments fails with
// the fault exception containing given substring.
//
// See also CheckUpdateSuccess.
func (x *Contract) CheckUpdateFail(tb testing.TB, faultException string, args ...any) {
	x.checkUpdate(tb, faultException, args...)
}

// Call tests that calling the contract method with optional arguments succeeds
// and result contains single value. The resulting value is returned as
// stackitem.Item.
//
// Note that Call doesn't change the chain state, so only read (aka safe)
// methods should be used.
func (x *Contract) Call(tb testing.TB, method string, args ...any) stackitem.Item {
	vmStack, err := x.invoker.TestInvoke(tb, method, args...)
	require.NoError(tb, err, "method '%s'", method)

	res, err := unwrap.Item(&result.Invoke{
		State: vmstate.Halt.String(),
		Stack: vmStack.ToArray(),
	}, nil)
	require.NoError(tb, err)

	return res
}

// Content reads content record from the restored contract.
func (x *Contract) Content(tb testing.TB, id int64) *rpcmod.Content {
	var res rpcmod.Content
	require.NoError(tb, res.FromStackItem(x.Call(tb, "getContent", id)))
	return &res
}

// Reputation reads reputation record of the participant from the restored
// contract.
func (x *Contract) Reputation(tb testing.TB, participant util.Uint160) *rpcmod.Reputation {
	var res rpcmod.Reputation
	require.NoError(tb, res.FromStackItem(x.Call(tb, "getReputation", participant)))
	return &res
}

// Int calls the method returning a single integer.
func (x *Contract) Int(tb testing.TB, method string, args ...any) *big.Int {
	n, err := x.Call(tb, method, args...).TryInteger()
	require.NoError(tb, err)
	return n
}

// GetStorageItem returns value stored in the tested contract by key.
func (x *Contract) GetStorageItem(key []byte) []byte {
	return x.exec.Chain.GetStorageItem(x.id, key)
}
