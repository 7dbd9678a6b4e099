package gokg

import "sync"

// NewCatalogContext returns a CatalogContext whose Done() fires once Close() is called and every attached Catalog has detached.
func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.closing
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	closeOnce    sync.Once
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; !exists {
		ctx.openCatalogs[cat] = struct{}{}
		ctx.openCount.Add(1)
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)

		ctx.mu.Lock()
		open := make([]Catalog, 0, len(ctx.openCatalogs))
		for cat := range ctx.openCatalogs {
			open = append(open, cat)
		}
		ctx.mu.Unlock()

		// Catalog.Close() calls back into DetachCatalog
		for _, cat := range open {
			go cat.Close()
		}
	})
}
