package spotlight

import (
	"product-spotlight/internal/dom"
	"product-spotlight/internal/domain"
	"product-spotlight/internal/view"

	"golang.org/x/net/html"
)

// Block is one spotlight element and the state its last decoration reached.
type Block struct {
	ID          string
	Node        *html.Node
	State       domain.RenderState
	Transitions []domain.RenderState
}

func NewBlock(id string) *Block {
	attrs := []html.Attribute{dom.Class(view.ClassBlock, "block")}
	if id != "" {
		attrs = append(attrs, dom.Attr("data-block-id", id))
	}
	return &Block{ID: id, Node: dom.Element("div", attrs...), State: domain.StateIdle}
}

func (b *Block) transition(s domain.RenderState) {
	b.State = s
	b.Transitions = append(b.Transitions, s)
	dom.SetAttr(b.Node, "data-state", s.String())
}

// HTML renders the block element.
func (b *Block) HTML() (string, error) {
	return dom.Render(b.Node)
}

func message(class, text string) *html.Node {
	n := dom.Element("div", dom.Class(class))
	dom.Append(n, dom.Text(text))
	return n
}
