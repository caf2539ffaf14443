package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/louisbranch/pageslots/internal/slots"
	"github.com/louisbranch/pageslots/internal/slots/catalog"
)

func newTestHandler(t *testing.T, registry *slots.Registry) http.Handler {
	t.Helper()
	h, err := NewHandler(Config{AppName: "Test", Dispatcher: slots.Direct(registry)})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPageRendersMatchingSlotEntries(t *testing.T) {
	t.Parallel()

	registry := slots.NewRegistry()
	registry.Register(SlotAboveContentTitle,
		slots.Entry{Path: "/", Component: catalog.Element{Tag: "div"}, Props: slots.Props{"className": "slot-component-aboveContentTitle"}},
		slots.Entry{Path: "/other-place", Component: catalog.Element{Tag: "nav"}, Props: slots.Props{"className": "other-place"}, Exact: true},
	)
	registry.Register(SlotBelowContentTitle,
		slots.Entry{Path: "/other-place", Component: catalog.Element{Tag: "aside"}, Props: slots.Props{"className": "slot-component-belowContentTitle"}},
	)
	h := newTestHandler(t, registry)

	tests := []struct {
		name        string
		target      string
		contains    []string
		notContains []string
	}{
		{
			name:        "root",
			target:      "/",
			contains:    []string{`<div class="slot-component-aboveContentTitle"></div><h1>Home</h1>`},
			notContains: []string{"<aside", "<nav"},
		},
		{
			name:   "exact place",
			target: "/other-place",
			contains: []string{
				`<div class="slot-component-aboveContentTitle"></div><nav class="other-place"></nav><h1>Other place</h1><aside class="slot-component-belowContentTitle"></aside>`,
			},
		},
		{
			name:        "descendant",
			target:      "/other-place/other-dir",
			contains:    []string{`<h1>Other dir</h1><aside class="slot-component-belowContentTitle"></aside>`},
			notContains: []string{"<nav"},
		},
		{
			name:        "sibling prefix",
			target:      "/other-place-x",
			notContains: []string{"<aside", "<nav"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, h, tc.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			body := rec.Body.String()
			for _, want := range tc.contains {
				if !strings.Contains(body, want) {
					t.Fatalf("expected %q in body, got %q", want, body)
				}
			}
			for _, unwanted := range tc.notContains {
				if strings.Contains(body, unwanted) {
					t.Fatalf("unexpected %q in body, got %q", unwanted, body)
				}
			}
		})
	}
}

func TestPageTitleIncludesAppName(t *testing.T) {
	t.Parallel()

	rec := get(t, newTestHandler(t, slots.NewRegistry()), "/docs")
	if !strings.Contains(rec.Body.String(), "<title>Docs | Test</title>") {
		t.Fatalf("expected composed title, got %q", rec.Body.String())
	}
}

func TestPageRenderErrorReturns500(t *testing.T) {
	t.Parallel()

	failing := slots.RenderableFunc(func(slots.Props) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error { return io.ErrUnexpectedEOF })
	})
	registry := slots.NewRegistry()
	registry.Register(SlotBelowContent, slots.Entry{Path: "/", Component: failing})

	rec := get(t, newTestHandler(t, registry), "/")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "<html") {
		t.Fatalf("expected no partial page, got %q", rec.Body.String())
	}
}

func TestInspectSlot(t *testing.T) {
	t.Parallel()

	registry := slots.NewRegistry()
	registry.Register(SlotAboveContentTitle,
		slots.Entry{Path: "/other-place", Component: catalog.Element{Tag: "div"}, Props: slots.Props{"className": "a"}},
		slots.Entry{Path: "/other-place", Component: catalog.Element{Tag: "aside"}, Exact: true},
	)
	registry.Register(SlotBelowContentTitle, slots.Entry{Path: "/", Component: catalog.Element{Tag: "section"}})
	h := newTestHandler(t, registry)

	rec := get(t, h, "/_slots/aboveContentTitle?path=/other-place/other-dir")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}

	var payload inspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Slot != SlotAboveContentTitle || payload.Path != "/other-place/other-dir" {
		t.Fatalf("payload = %+v", payload)
	}
	if len(payload.Entries) != 1 || payload.Entries[0].Component != "div" || payload.Entries[0].Props["className"] != "a" {
		t.Fatalf("entries = %+v, want only the inherited div", payload.Entries)
	}
}

func TestInspectSlotDefaultsToRootAndUnknownSlot(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, slots.NewRegistry())
	rec := get(t, h, "/_slots/missing")

	var payload inspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Path != "/" {
		t.Fatalf("path = %q, want /", payload.Path)
	}
	if payload.Entries == nil || len(payload.Entries) != 0 {
		t.Fatalf("entries = %#v, want empty list", payload.Entries)
	}
}

func TestNewHandlerRequiresDispatcher(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{}); err == nil {
		t.Fatal("expected missing dispatcher error")
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(Config{Dispatcher: slots.Direct(slots.NewRegistry())}); err == nil {
		t.Fatal("expected missing address error")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	server, err := NewServer(Config{HTTPAddr: "127.0.0.1:0", Dispatcher: slots.Direct(slots.NewRegistry())})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := server.ListenAndServe(ctx); err != nil {
		t.Fatalf("ListenAndServe = %v, want nil", err)
	}
}

func TestPageTitleFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/":                       "Home",
		"":                        "Home",
		"/docs":                   "Docs",
		"/docs/":                  "Docs",
		"/other-place/other-dir":  "Other dir",
		"/campaigns/new_campaign": "New campaign",
		"/élan":                   "Élan",
		"/docs/über-uns":          "Über uns",
	}
	for path, want := range tests {
		got := PageTitleFromPath(path)
		if !utf8.ValidString(got) {
			t.Fatalf("PageTitleFromPath(%q) = %q, not valid UTF-8", path, got)
		}
		if got != want {
			t.Fatalf("PageTitleFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestComposePageTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title, appName, want string
	}{
		{"Docs", "Slots", "Docs | Slots"},
		{"Docs | Slots", "Slots", "Docs | Slots"},
		{"", "Slots", "Slots"},
		{"Docs", "", "Docs"},
	}
	for _, tc := range tests {
		if got := ComposePageTitle(tc.title, tc.appName); got != tc.want {
			t.Fatalf("ComposePageTitle(%q, %q) = %q, want %q", tc.title, tc.appName, got, tc.want)
		}
	}
}
