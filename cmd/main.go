package main

import (
	"context"
	"log"
	"time"

	"doc-anchor/internal/app"
	"doc-anchor/internal/config"
	"doc-anchor/internal/filestore"
	"doc-anchor/internal/keymanager"
	"doc-anchor/internal/ledger"
	"doc-anchor/internal/ports/http"
	"doc-anchor/internal/repository/mongodb"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := getLogger()
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("application started")

	cfg := config.Load()

	repo, err := mongodb.NewConnection(logger, cfg.DbURI, cfg.DbName)
	if err != nil {
		logger.Fatal("failed to connect to the database: " + err.Error())
	}
	defer repo.Disconnect()

	if err := repo.EnsureIndexes(context.Background()); err != nil {
		logger.Fatal("failed to create the database indexes: " + err.Error())
	}

	keys, err := keymanager.NewKeyManager(logger, cfg.AppPrivateKeyHex).GetAppKeys()
	if err != nil {
		logger.Fatal("failed to get the application keys: " + err.Error())
	}

	anchor := ledger.NewClient(logger, ledger.Config{
		RestAPIAddr:    cfg.LedgerRestAPIAddr,
		RequestTimeout: cfg.RequestTimeout,
		SubmitTimeout:  cfg.SubmitTimeout,
	}, keys.GetSigner())

	blobs := filestore.NewStore(logger, cfg.StorageDir)

	a := app.NewApp(logger, repo, anchor, blobs, cfg.SubmitTimeout+cfg.RequestTimeout)

	ser := http.NewServer(logger, a, cfg.Port)
	if err := ser.Run(); err != nil {
		logger.Error("failed to run the server: " + err.Error())
	}

	logger.Info("application finished")
}

func getLogger() (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level.SetLevel(zap.DebugLevel)

	logger, err := config.Build()
	return logger.WithOptions(options...), err
}
