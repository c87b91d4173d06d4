package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/clipstream/clipstream-server/internal/config"
	"github.com/clipstream/clipstream-server/internal/logger"
	"github.com/clipstream/clipstream-server/internal/search"
	"github.com/clipstream/clipstream-server/internal/store"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index, wired into the store
// so video writes are indexed automatically.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	return &SearchIndexHandle{Index: index}, nil
}

// ReindexIfNeeded rebuilds the search index from the store when the index
// is empty but videos exist. Runs after a mapping-version rebuild wiped
// the on-disk index.
func ReindexIfNeeded(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	count, err := indexHandle.DocumentCount()
	if err != nil || count > 0 {
		return
	}

	go func() {
		ctx := context.Background()
		indexed := 0

		params := store.PaginationParams{Limit: 100}
		for {
			page, err := storeHandle.ListVideos(ctx, params)
			if err != nil {
				log.Error("Search reindex failed", "error", err)
				return
			}
			if len(page.Items) == 0 {
				break
			}

			if err := indexHandle.IndexVideos(page.Items); err != nil {
				log.Error("Search reindex batch failed", "error", err)
				return
			}
			indexed += len(page.Items)

			if !page.HasMore {
				break
			}
			params.Cursor = page.NextCursor
		}

		if indexed > 0 {
			log.Info("Search index rebuilt", "videos", indexed)
		}
	}()
}
