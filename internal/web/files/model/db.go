package model

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/datagate/library/db/mongo"
	"github.com/Laisky/datagate/library/log"
	"github.com/Laisky/datagate/library/storage"
)

var (
	// DB holds the document database with the users and files collections.
	DB mongo.DB
	// Store holds the object store bucket for blob content.
	Store *storage.Storage
)

func Initialize(ctx context.Context) {
	var err error
	if DB, err = mongo.NewDB(ctx,
		mongo.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.datagate.addr"),
			DBName: gconfig.Shared.GetString("settings.db.datagate.db"),
			User:   gconfig.Shared.GetString("settings.db.datagate.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.datagate.pwd"),
		},
	); err != nil {
		log.Logger.Panic("connect to datagate db", zap.Error(err))
	}

	if Store, err = storage.New(storage.Config{
		Endpoint:  gconfig.Shared.GetString("settings.storage.endpoint"),
		AccessKey: gconfig.Shared.GetString("settings.storage.access_key"),
		SecretKey: gconfig.Shared.GetString("settings.storage.secret_key"),
		Bucket:    gconfig.Shared.GetString("settings.storage.bucket"),
		UseSSL:    gconfig.Shared.GetBool("settings.storage.use_ssl"),
	}); err != nil {
		log.Logger.Panic("connect to object store", zap.Error(err))
	}
}
