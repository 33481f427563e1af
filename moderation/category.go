package moderation

import (
	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Category is a named moderation category with its own thresholds.
type Category struct {
	ID   int
	Name string
	// MinReputation is a score required to submit content into the category
	// and to vote on such content.
	MinReputation int
	// StakeMultiplier scales MinStakeAmount for moderators of the category.
	StakeMultiplier int
	Creator         interop.Hash160
}

const (
	categoryPrefix     = 'g'
	categoryCounterKey = "\x00categoryCounter"
)

// CreateCategory registers new moderation category and returns its ID.
// Creator must have at least MinCategoryReputation score.
//
// Produces CategoryCreated notification.
func CreateCategory(creator interop.Hash160, name string, minReputation, stakeMultiplier int) int {
	ctx := storage.GetContext()

	common.CheckWitness(creator)

	if reputationScore(ctx, creator) < cst.MinCategoryReputation {
		panic(cst.ErrInsufficientReputation + ": category creation requires higher reputation")
	}

	if len(name) == 0 || len(name) > cst.MaxCategoryNameLength {
		panic(cst.ErrInvalidArgument + ": invalid category name length")
	}

	if minReputation < 0 {
		panic(cst.ErrInvalidArgument + ": negative minimal reputation")
	}

	if stakeMultiplier < 1 {
		panic(cst.ErrInvalidArgument + ": stake multiplier must be positive")
	}

	id := common.NextID(ctx, categoryCounterKey)

	common.SetSerialized(ctx, categoryKey(id), Category{
		ID:              id,
		Name:            name,
		MinReputation:   minReputation,
		StakeMultiplier: stakeMultiplier,
		Creator:         creator,
	})

	runtime.Notify("CategoryCreated", id, creator, name)

	return id
}

// GetCategory returns category by its ID.
func GetCategory(id int) Category {
	ctx := storage.GetReadOnlyContext()
	return mustGetCategory(ctx, id)
}

// CategoryCount returns number of created categories. It is also the ID of
// the latest one.
func CategoryCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.Counter(ctx, categoryCounterKey)
}

func categoryKey(id int) []byte {
	return append([]byte{categoryPrefix}, common.IDKey(id)...)
}

func mustGetCategory(ctx storage.Context, id int) Category {
	if id <= 0 {
		panic(cst.ErrNotFound + ": category " + itoa(id))
	}

	v := common.GetSerialized(ctx, categoryKey(id))
	if v == nil {
		panic(cst.ErrNotFound + ": category " + itoa(id))
	}

	return v.(Category)
}

// checkCategoryReputation panics if participant's score is below category's
// threshold. Uncategorized content has no extra threshold.
func checkCategoryReputation(ctx storage.Context, categoryID int, participant interop.Hash160) {
	if categoryID == cst.NoCategory {
		return
	}

	cat := mustGetCategory(ctx, categoryID)
	if reputationScore(ctx, participant) < cat.MinReputation {
		panic(cst.ErrInsufficientReputation + ": below category threshold")
	}
}
