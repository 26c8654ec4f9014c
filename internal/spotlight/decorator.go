// Package spotlight decorates product spotlight blocks.
package spotlight

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"product-spotlight/internal/blockconfig"
	"product-spotlight/internal/commerce"
	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"
	"product-spotlight/internal/labels"
	"product-spotlight/internal/view"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

type Fetcher interface {
	Fetch(ctx context.Context, sku string) commerce.FetchResult
}

type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type ViewBuilder interface {
	Build(ctx context.Context, in view.Input) (*html.Node, error)
}

// Request describes one block decoration.
type Request struct {
	BlockID   string
	Config    domain.BlockConfig
	Locale    string
	ShopperID string
}

type Decorator struct {
	labels  labels.Provider
	fetcher Fetcher
	view    ViewBuilder
	events  Publisher
	logger  *log.Logger
	now     func() time.Time
}

func NewDecorator(lp labels.Provider, fetcher Fetcher, vb ViewBuilder, events Publisher, logger *log.Logger) *Decorator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Decorator{
		labels:  lp,
		fetcher: fetcher,
		view:    vb,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Decorate runs one block from Idle to a terminal state. The returned error
// is non-nil only when ctx ends first; the block is then left as it was at
// the last completed step.
func (d *Decorator) Decorate(ctx context.Context, block *Block, req Request) error {
	block.transition(domain.StateValidating)

	lbl, err := d.labels.Labels(ctx, req.Locale)
	if err != nil {
		d.logger.Printf("spotlight: block=%s labels error=%v", block.ID, err)
	}
	if lbl == nil {
		lbl = labels.Defaults()
	}

	cfg, err := blockconfig.Validate(req.Config)
	if err != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.logger.Printf("spotlight: block=%s config error=%v", block.ID, err)
		dom.Replace(block.Node, message(view.ClassError, lbl.Get(labels.MissingSKU)))
		block.transition(domain.StateConfigError)
		return nil
	}
	if cfg.ThemeFallback {
		d.logger.Printf("spotlight: block=%s unknown theme %q, using %s", block.ID, req.Config.Theme(), cfg.Theme)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	dom.RemoveClassPrefix(block.Node, "spotlight--")
	dom.AddClass(block.Node, cfg.Theme.ClassName())
	dom.Replace(block.Node, message(view.ClassLoading, lbl.Get(labels.Loading)))
	block.transition(domain.StateLoading)

	res := d.fetch(ctx, cfg.SKU)
	if err := ctx.Err(); err != nil {
		return err
	}

	switch res.Status {
	case commerce.StatusFound:
		content, err := d.render(ctx, cfg, *res.Product(), lbl, req.ShopperID)
		if err != nil {
			d.logger.Printf("spotlight: block=%s sku=%s render error=%v", block.ID, cfg.SKU, err)
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		dom.Clear(block.Node)
		if cfg.Title != domain.DefaultTitle {
			title := dom.Element("h2", dom.Class(view.ClassTitle))
			dom.Append(title, dom.Text(cfg.Title))
			dom.Append(block.Node, title)
		}
		dom.Append(block.Node, content)
		block.transition(domain.StateRendered)
		d.emitLoaded(ctx, block, *res.Product())
		return nil
	case commerce.StatusNotFound:
		dom.Replace(block.Node, message(view.ClassError, lbl.Get(labels.NotFound)))
		block.transition(domain.StateNotFound)
		return nil
	default:
		d.logger.Printf("spotlight: block=%s sku=%s fetch error=%v", block.ID, cfg.SKU, res.Err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	dom.Replace(block.Node, message(view.ClassError, lbl.Get(labels.LoadError)))
	block.transition(domain.StateFetchError)
	return nil
}

// fetch turns a panicking fetcher into a transport error so the block still
// reaches a terminal state.
func (d *Decorator) fetch(ctx context.Context, sku string) (res commerce.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = commerce.TransportError(fmt.Errorf("fetch panic: %v", r))
		}
	}()
	return d.fetcher.Fetch(ctx, sku)
}

// render builds the detached content tree. Panics from the view are turned
// into errors so a bad product degrades to an error message.
func (d *Decorator) render(ctx context.Context, cfg blockconfig.Validated, p domain.Product, lbl labels.Map, shopperID string) (node *html.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			node, err = nil, fmt.Errorf("render panic: %v", r)
		}
	}()
	return d.view.Build(ctx, view.Input{Product: p, Labels: lbl, Theme: cfg.Theme, ShopperID: shopperID})
}

func (d *Decorator) emitLoaded(ctx context.Context, block *Block, p domain.Product) {
	if d.events == nil {
		return
	}
	ev := domain.Event{
		Name:       domain.EventProductLoaded,
		Payload:    domain.LoadedPayload{SKU: p.SKU, Name: p.Name, Price: p.FinalPrice()},
		OccurredAt: d.now().UTC(),
	}
	if err := d.events.Publish(ctx, ev); err != nil {
		d.logger.Printf("spotlight: block=%s publish %s error=%v", block.ID, ev.Name, err)
	}
}

// DecoratePage decorates every request concurrently. Blocks share nothing, so
// one block's outcome never affects another; results keep request order.
func (d *Decorator) DecoratePage(ctx context.Context, reqs []Request) ([]*Block, error) {
	blocks := make([]*Block, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		blocks[i] = NewBlock(req.BlockID)
		g.Go(func() error {
			return d.Decorate(gctx, blocks[i], req)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return blocks, nil
}
