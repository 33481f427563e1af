package dump

// Registry is a name of the Moderation contract storage table.
type Registry string

// Storage tables of the Moderation contract.
const (
	RegistryGlobal      Registry = "global"
	RegistryContent     Registry = "content"
	RegistryContentVote Registry = "content-vote"
	RegistryAppeal      Registry = "appeal"
	RegistryAppealVote  Registry = "appeal-vote"
	RegistryReputation  Registry = "reputation"
	RegistryStake       Registry = "stake"
	RegistryCategory    Registry = "category"
	RegistryUnknown     Registry = "unknown"
)

const (
	idLen      = 4
	accountLen = 20
)

var globalKeys = map[string]struct{}{
	"\x00admin":           {},
	"\x00contentCounter":  {},
	"\x00categoryCounter": {},
}

// RegistryOf returns storage table the key of the Moderation contract
// belongs to. Global keys start with zero byte, registry keys are checked
// by prefix and length.
func RegistryOf(key []byte) Registry {
	if _, ok := globalKeys[string(key)]; ok {
		return RegistryGlobal
	}

	if len(key) == 0 {
		return RegistryUnknown
	}

	type layout struct {
		reg  Registry
		size int
	}

	var l layout
	switch key[0] {
	case 'c':
		l = layout{RegistryContent, 1 + idLen}
	case 'v':
		l = layout{RegistryContentVote, 1 + idLen + accountLen}
	case 'a':
		l = layout{RegistryAppeal, 1 + idLen}
	case 'w':
		l = layout{RegistryAppealVote, 1 + idLen + accountLen}
	case 'g':
		l = layout{RegistryCategory, 1 + idLen}
	case 'r':
		l = layout{RegistryReputation, 1 + accountLen}
	case 's':
		l = layout{RegistryStake, 1 + accountLen}
	default:
		return RegistryUnknown
	}

	if len(key) != l.size {
		return RegistryUnknown
	}

	return l.reg
}
