package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/londonmakers/makers-server/internal/config"
	"github.com/londonmakers/makers-server/internal/logger"
	"github.com/londonmakers/makers-server/internal/search"
	"github.com/londonmakers/makers-server/internal/service"
	"github.com/londonmakers/makers-server/internal/store"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger)

	// Wire to store so listing writes keep the index in sync
	storeHandle.SetSearchIndexer(svc)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when listings exist.
// Covers index loss and mapping-version bumps. Runs in the background so
// startup is never blocked on indexing.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	page, err := storeHandle.ListArtists(ctx, store.PaginationParams{Limit: 1})
	if err != nil || len(page.Items) == 0 {
		return
	}

	log.Info("Search index is empty but listings exist, triggering reindex")

	go func() {
		reindexCtx := context.Background()
		if err := searchService.ReindexAll(reindexCtx); err != nil {
			log.Error("Search reindex failed", "error", err)
		} else {
			count, _ := searchService.DocumentCount()
			log.Info("Search reindex completed", "documents", count)
		}
	}()
}
