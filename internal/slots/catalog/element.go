package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageslots/internal/slots"
)

// TextProp is the prop rendered as an element's escaped inner text.
const TextProp = "text"

// Element renders a single HTML element whose attributes come from props.
//
// Props are written as attributes sorted by key. "className" is written as
// "class" unless a "class" prop is also present. Boolean props render as bare
// attributes when true and are dropped when false; nil values and keys that
// are not valid attribute names are dropped.
type Element struct {
	Tag string
}

// ComponentName returns the element tag.
func (e Element) ComponentName() string {
	return e.Tag
}

// Render returns the element markup for props.
func (e Element) Render(props slots.Props) templ.Component {
	attrs := attributes(props)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+e.Tag); err != nil {
			return err
		}
		if err := templ.RenderAttributes(ctx, w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if text, ok := props[TextProp]; ok && text != nil {
			if _, err := io.WriteString(w, templ.EscapeString(fmt.Sprint(text))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+e.Tag+">")
		return err
	})
}

// attributes converts props to element attributes. Values templ cannot
// render directly are formatted with fmt.Sprint.
func attributes(props slots.Props) templ.Attributes {
	attrs := make(templ.Attributes, len(props))
	_, hasClass := props["class"]
	for key, value := range props {
		if key == TextProp || value == nil {
			continue
		}
		name := key
		if key == "className" {
			if hasClass {
				continue
			}
			name = "class"
		}
		if !validAttributeName(name) {
			continue
		}
		switch value.(type) {
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			attrs[name] = value
		default:
			attrs[name] = fmt.Sprint(value)
		}
	}
	return attrs
}

func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == ':', r == '.':
		default:
			return false
		}
	}
	return true
}
