package dataset

import (
	"context"
	"errors"

	"github.com/storelens/storelens/internal/config"
	"github.com/storelens/storelens/internal/dataset/domain"
	"github.com/storelens/storelens/internal/dataset/merge"
	"github.com/storelens/storelens/internal/dataset/source/csvsource"
	"github.com/storelens/storelens/internal/dataset/source/dbsource"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SourceParams struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB `optional:"true"`
}

// NewSource selects the ingestion backend. The db backend requires db.Module
// in the application graph; csv is self-contained.
func NewSource(p SourceParams) (domain.Source, error) {
	switch p.Config.DataBackend {
	case config.BackendDB:
		if p.DB == nil {
			return nil, errors.New("data backend is db but no database is configured")
		}
		return dbsource.New(p.DB, p.Log), nil
	default:
		return csvsource.New(p.Config.DataDir, p.Log), nil
	}
}

// NewSnapshot fetches and merges once at startup. Every metric afterwards
// reads this snapshot; nothing re-merges at request time.
func NewSnapshot(src domain.Source, merger *merge.Merger) (*domain.Snapshot, error) {
	raw, err := src.Fetch(context.Background())
	if err != nil {
		return nil, err
	}
	return merger.Merge(raw)
}

var Module = fx.Module("dataset",
	fx.Provide(NewSource),
	fx.Provide(merge.NewMerger),
	fx.Provide(NewSnapshot),
)
