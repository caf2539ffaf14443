package app

import (
	"context"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageslots/internal/slots"
)

// Slot names hosted by the page layout, in document order.
const (
	SlotAboveContentTitle = "aboveContentTitle"
	SlotBelowContentTitle = "belowContentTitle"
	SlotAboveContent      = "aboveContent"
	SlotBelowContent      = "belowContent"
)

// LayoutSlots lists the slots the page layout renders.
var LayoutSlots = []string{
	SlotAboveContentTitle,
	SlotBelowContentTitle,
	SlotAboveContent,
	SlotBelowContent,
}

// PageParams configures one rendered page.
type PageParams struct {
	AppName string
	Title   string
	Lang    string
}

// Page renders the document shell with every layout slot mounted.
func Page(dispatcher slots.Dispatcher, params PageParams) templ.Component {
	lang := strings.TrimSpace(params.Lang)
	if lang == "" {
		lang = "en"
	}
	title := ComposePageTitle(params.Title, params.AppName)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []templ.Component{
			templ.Raw(`<!doctype html><html lang="` + templ.EscapeString(lang) + `"><head><meta charset="utf-8"><title>` +
				templ.EscapeString(title) + `</title></head><body><main>`),
			slots.SlotWithDispatcher(dispatcher, SlotAboveContentTitle),
			templ.Raw(`<h1>` + templ.EscapeString(params.Title) + `</h1>`),
			slots.SlotWithDispatcher(dispatcher, SlotBelowContentTitle),
			slots.SlotWithDispatcher(dispatcher, SlotAboveContent),
			templ.Raw(`<article id="content"></article>`),
			slots.SlotWithDispatcher(dispatcher, SlotBelowContent),
			templ.Raw(`</main></body></html>`),
		}
		for _, part := range parts {
			if err := part.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// ComposePageTitle appends the app name to a page title.
func ComposePageTitle(title string, appName string) string {
	title = strings.TrimSpace(title)
	appName = strings.TrimSpace(appName)
	switch {
	case appName == "":
		return title
	case title == "":
		return appName
	case strings.HasSuffix(title, "| "+appName):
		return title
	default:
		return title + " | " + appName
	}
}

// PageTitleFromPath derives a heading from the last segment of path, so
// "/other-place/other-dir" becomes "Other dir". The root path is "Home".
func PageTitleFromPath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "Home"
	}
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
	segment = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(segment))
	if segment == "" {
		return "Home"
	}
	first, size := utf8.DecodeRuneInString(segment)
	if first == utf8.RuneError {
		return segment
	}
	return string(unicode.ToUpper(first)) + segment[size:]
}
