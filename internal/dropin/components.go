package dropin

import (
	"product-spotlight/internal/dom"

	"golang.org/x/net/html"
)

// Standard renders plain buttons and links with the drop-in class names.
type Standard struct{}

func (Standard) Button(props ButtonProps) Mount {
	return func(container *html.Node) error {
		variant := props.Variant
		if variant == "" {
			variant = "primary"
		}
		attrs := []html.Attribute{
			dom.Attr("type", "button"),
			dom.Class("dropin-button", "dropin-button--"+variant),
		}
		attrs = append(attrs, props.Attrs...)
		btn := dom.Element("button", attrs...)
		if props.Icon != "" {
			dom.Append(btn, dom.Element("span", dom.Class("dropin-icon", "dropin-icon--"+props.Icon), dom.Attr("aria-hidden", "true")))
		}
		dom.Append(btn, dom.Text(props.Label))
		dom.Append(container, btn)
		return nil
	}
}

func (Standard) Link(props LinkProps) Mount {
	return func(container *html.Node) error {
		variant := props.Variant
		if variant == "" {
			variant = "secondary"
		}
		a := dom.Element("a",
			dom.Class("dropin-button", "dropin-button--"+variant),
			dom.Attr("href", props.Href),
		)
		dom.Append(a, dom.Text(props.Label))
		dom.Append(container, a)
		return nil
	}
}
