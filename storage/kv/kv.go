// Package kv opens the configured snapshot storage engine.
package kv

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/storage/kv/boltkv"
	"github.com/trezcool/darasa/storage/kv/memkv"
	"github.com/trezcool/darasa/storage/kv/rediskv"
)

const (
	EngineBolt   = "bolt"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

func Open(ctx context.Context, conf *core.Config) (core.SnapshotStore, error) {
	switch engine := strings.ToLower(conf.Storage.Engine); engine {
	case EngineBolt, "":
		return boltkv.Open(conf.Storage.Path)
	case EngineRedis:
		return rediskv.Open(ctx, conf)
	case EngineMemory:
		return memkv.Open(), nil
	default:
		return nil, errors.Errorf("unknown storage engine %q", engine)
	}
}
