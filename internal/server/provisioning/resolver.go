package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/dmitrijs2005/deviceprov/internal/cryptox"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/userkeys"
)

// GroupKeyResolver loads a user's group key and decodes it to raw bytes.
type GroupKeyResolver struct {
	repo userkeys.Repository
	// size is the required decoded length; 0 accepts any length.
	size int
}

func NewGroupKeyResolver(repo userkeys.Repository, size int) *GroupKeyResolver {
	return &GroupKeyResolver{repo: repo, size: size}
}

func (g *GroupKeyResolver) Resolve(ctx context.Context, uid string) ([]byte, error) {
	stored, err := g.repo.GetGroupKey(ctx, uid)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, newError(KindKeyFormat, MsgNoGroupKey, "", err)
		}
		return nil, newError(KindStore, MsgNoGroupKey, "", err)
	}

	key, err := cryptox.DecodeEscapedHex(stored)
	if err != nil {
		return nil, newError(KindKeyFormat, MsgGroupKeyFormat, "", err)
	}

	if g.size > 0 && len(key) != g.size {
		return nil, newError(KindKeyFormat, MsgGroupKeyFormat,
			fmt.Sprintf("decoded length %d, want %d", len(key), g.size), nil)
	}

	return key, nil
}
