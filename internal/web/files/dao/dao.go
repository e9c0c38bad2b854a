// Package dao is the data access layer over the users and files collections.
package dao

import (
	"context"

	"github.com/Laisky/datagate/internal/web/files/model"
)

var (
	InstanceUsers *Users
	InstanceFiles *Files
)

func Initialize(ctx context.Context) {
	model.Initialize(ctx)

	InstanceUsers = NewUsers(model.DB)
	InstanceFiles = NewFiles(model.DB)
}
