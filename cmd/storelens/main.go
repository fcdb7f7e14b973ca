package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/storelens/storelens/internal/clock"
	"github.com/storelens/storelens/internal/config"
	"github.com/storelens/storelens/internal/dataset"
	"github.com/storelens/storelens/internal/logger"
	"github.com/storelens/storelens/internal/migration"
	"github.com/storelens/storelens/internal/observability"
	"github.com/storelens/storelens/internal/server"
	"github.com/storelens/storelens/pkg/db"
	"go.uber.org/fx"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
	}

	// The database is only part of the graph when the db backend is
	// selected; the csv backend runs without one. Migrations must be
	// invoked before the dataset snapshot is built.
	if config.Load().DataBackend == config.BackendDB {
		opts = append(opts, db.Module, migration.Module)
	}

	opts = append(opts, dataset.Module, server.Module)

	fx.New(opts...).Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
