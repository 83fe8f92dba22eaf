// Package actions holds server-side operations built on the adapters.
package actions

import (
	"context"

	"github.com/adfharrison1/go-baas/pkg/dao"
	"github.com/adfharrison1/go-baas/pkg/domain"
)

// Users reads the users collection and the users subtree.
type Users struct {
	docs  domain.DocumentStore
	trees domain.TreeStore
}

func NewUsers(docs domain.DocumentStore, trees domain.TreeStore) *Users {
	return &Users{docs: docs, trees: trees}
}

// GetAllUsers returns the data of every user record in store order.
func (u *Users) GetAllUsers(ctx context.Context) ([]domain.Document, error) {
	snaps, err := dao.NewCollectionDAO(u.docs, domain.Users).FindAll(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]domain.Document, 0, len(snaps))
	for _, snap := range snaps {
		users = append(users, snap.Data)
	}
	return users, nil
}

// GetAllUsersFromTree returns the users subtree, or an empty sequence when
// there is none.
func (u *Users) GetAllUsersFromTree(ctx context.Context) (interface{}, error) {
	d, err := dao.NewTreeDAO(u.trees, domain.Users.String())
	if err != nil {
		return nil, err
	}
	return d.Get(ctx)
}
