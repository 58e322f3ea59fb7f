package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/kv"
)

func main() {
	os.Exit(start())
}

func start() int {
	ctx := context.Background()
	conf := core.NewConfig()
	logger := core.NewStdLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile))

	store, err := kv.Open(ctx, conf)
	if err != nil {
		logger.Error("opening snapshot store", err)
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing snapshot store", err)
		}
	}()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(conf, logger)

	usrSvc, err := user.NewService(ctx, store, emailsvc.New(conf, logger), logger, validate, conf)
	if err != nil {
		logger.Error("loading session store", err)
		return 1
	}

	cli := commandLine{usrSvc: usrSvc, out: os.Stdout}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		return 1
	}
	return 0
}
