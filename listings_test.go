package ruqqus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	pkgerrs "github.com/jamesprial/go-ruqqus-api-wrapper/pkg/errors"
	"github.com/jamesprial/go-ruqqus-api-wrapper/pkg/types"
)

// pagedPosts serves a listing of total posts split into fixed-size pages and
// records the query parameters of every page request.
func pagedPosts(t *testing.T, total int, queries *[]map[string]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			t.Errorf("bad page parameter %q", r.URL.Query().Get("page"))
			page = 1
		}
		*queries = append(*queries, map[string]string{
			"page":   r.URL.Query().Get("page"),
			"sort":   r.URL.Query().Get("sort"),
			"filter": r.URL.Query().Get("filter"),
		})

		start := (page - 1) * pageSize
		var items []map[string]any
		for i := start; i < total && i < start+pageSize; i++ {
			items = append(items, map[string]any{"id": fmt.Sprintf("p%03d", i)})
		}
		writeJSON(t, w, map[string]any{"data": items})
	}
}

func TestEachPostPagination(t *testing.T) {
	var queries []map[string]string
	client, rs := newTestClient(t, pagedPosts(t, 60, &queries))

	var got []string
	err := client.EachPost(context.Background(), nil, func(post *types.Post) error {
		got = append(got, post.ID())
		return nil
	})
	if err != nil {
		t.Fatalf("EachPost: %v", err)
	}

	if len(got) != 60 {
		t.Errorf("saw %d posts, want 60", len(got))
	}
	if got[0] != "p000" || got[59] != "p059" {
		t.Errorf("order broken: first=%s last=%s", got[0], got[59])
	}
	if n := rs.requestCount(); n != 3 {
		t.Errorf("%d page requests, want 3", n)
	}
	for i, q := range queries {
		if q["page"] != strconv.Itoa(i+1) {
			t.Errorf("request %d fetched page %q", i, q["page"])
		}
		if q["sort"] != SortNew || q["filter"] != FilterAll {
			t.Errorf("request %d sort/filter = %q/%q, want defaults", i, q["sort"], q["filter"])
		}
	}
}

func TestEachPostExactPageBoundary(t *testing.T) {
	// 50 items fill two pages exactly; the walk needs a third, empty page to
	// learn the listing is exhausted.
	var queries []map[string]string
	client, rs := newTestClient(t, pagedPosts(t, 50, &queries))

	count := 0
	err := client.EachPost(context.Background(), nil, func(*types.Post) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("EachPost: %v", err)
	}
	if count != 50 {
		t.Errorf("saw %d posts, want 50", count)
	}
	if n := rs.requestCount(); n != 3 {
		t.Errorf("%d page requests, want 3", n)
	}
}

func TestEachPostHonorsOptions(t *testing.T) {
	var queries []map[string]string
	client, _ := newTestClient(t, pagedPosts(t, 5, &queries))

	err := client.EachPost(context.Background(), &ListingOptions{Sort: SortTop, Filter: FilterWeek}, func(*types.Post) error {
		return nil
	})
	if err != nil {
		t.Fatalf("EachPost: %v", err)
	}
	if queries[0]["sort"] != SortTop || queries[0]["filter"] != FilterWeek {
		t.Errorf("sort/filter = %q/%q", queries[0]["sort"], queries[0]["filter"])
	}
}

func TestEachPostInvalidOptions(t *testing.T) {
	client, rs := newTestClient(t, nil)
	var invalidArg *pkgerrs.InvalidArgumentError

	err := client.EachPost(context.Background(), &ListingOptions{Sort: "bogus"}, func(*types.Post) error { return nil })
	if !errors.As(err, &invalidArg) {
		t.Errorf("invalid sort: err = %v", err)
	}
	err = client.EachPost(context.Background(), &ListingOptions{Filter: "fortnight"}, func(*types.Post) error { return nil })
	if !errors.As(err, &invalidArg) {
		t.Errorf("invalid filter: err = %v", err)
	}
	err = client.EachPost(context.Background(), nil, nil)
	if !errors.As(err, &invalidArg) {
		t.Errorf("nil callback: err = %v", err)
	}
	if n := rs.requestCount(); n != 0 {
		t.Errorf("%d requests made for invalid input, want 0", n)
	}
}

func TestEachPostStopsOnErrorPayload(t *testing.T) {
	client, rs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"error": "405 Method Not Allowed"})
	})

	count := 0
	err := client.EachPost(context.Background(), nil, func(*types.Post) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("EachPost: %v", err)
	}
	if count != 0 {
		t.Errorf("callback invoked %d times, want 0", count)
	}
	if n := rs.requestCount(); n != 1 {
		t.Errorf("%d requests, want 1", n)
	}
}

func TestEachPostCallbackErrorAborts(t *testing.T) {
	var queries []map[string]string
	client, rs := newTestClient(t, pagedPosts(t, 60, &queries))

	sentinel := errors.New("stop here")
	count := 0
	err := client.EachPost(context.Background(), nil, func(*types.Post) error {
		count++
		if count == 3 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want the callback's error", err)
	}
	if count != 3 {
		t.Errorf("callback invoked %d times, want 3", count)
	}
	if n := rs.requestCount(); n != 1 {
		t.Errorf("%d page requests, want 1", n)
	}
}

func TestEachGuildPost(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/guild/SomeGuild/listing" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"data": []map[string]any{{"id": "p1"}}})
	})

	count := 0
	err := client.EachGuildPost(context.Background(), "SomeGuild", nil, func(*types.Post) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("EachGuildPost: %v", err)
	}
	if count != 1 {
		t.Errorf("callback invoked %d times, want 1", count)
	}

	var invalidArg *pkgerrs.InvalidArgumentError
	err = client.EachGuildPost(context.Background(), "+bad", nil, func(*types.Post) error { return nil })
	if !errors.As(err, &invalidArg) {
		t.Errorf("invalid guild: err = %v", err)
	}
}

func TestEachUserComment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/user/someauthor/comments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"data": []map[string]any{
			{"id": "c1", "post": "p1"},
			{"id": "c2", "post": "p2"},
		}})
	})

	var ids []string
	err := client.EachUserComment(context.Background(), "someauthor", func(c *types.Comment) error {
		ids = append(ids, c.ID())
		return nil
	})
	if err != nil {
		t.Fatalf("EachUserComment: %v", err)
	}
	if len(ids) != 2 || ids[0] != "c1" {
		t.Errorf("ids = %v", ids)
	}
}

func TestEachGuild(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/guilds" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"data": []map[string]any{{"id": "g1", "name": "SomeGuild"}}})
	})

	var names []string
	err := client.EachGuild(context.Background(), func(g *types.Guild) error {
		names = append(names, g.Name())
		return nil
	})
	if err != nil {
		t.Fatalf("EachGuild: %v", err)
	}
	if len(names) != 1 || names[0] != "SomeGuild" {
		t.Errorf("names = %v", names)
	}
}

func TestEachPostComment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/guild/SomeGuild/comments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]any{"data": []map[string]any{
			{"id": "c1", "post": "p1"},
			{"id": "c2", "post": "p2"},
			{"id": "c3", "post": "p1"},
		}})
	})

	post, err := types.DecodePost(types.Payload{"id": "p1", "guild_name": "SomeGuild"}, client)
	if err != nil {
		t.Fatalf("DecodePost: %v", err)
	}

	var ids []string
	err = client.EachPostComment(context.Background(), post, func(c *types.Comment) error {
		ids = append(ids, c.ID())
		return nil
	})
	if err != nil {
		t.Fatalf("EachPostComment: %v", err)
	}
	if len(ids) != 2 || ids[0] != "c1" || ids[1] != "c3" {
		t.Errorf("ids = %v, want comments of p1 only", ids)
	}
}

func TestEachPostCommentValidation(t *testing.T) {
	client, rs := newTestClient(t, nil)
	var invalidArg *pkgerrs.InvalidArgumentError

	err := client.EachPostComment(context.Background(), nil, func(*types.Comment) error { return nil })
	if !errors.As(err, &invalidArg) {
		t.Errorf("nil post: err = %v", err)
	}

	post, _ := types.DecodePost(types.Payload{"id": "p1", "guild_name": "SomeGuild"}, client)
	err = client.EachPostComment(context.Background(), post, nil)
	if !errors.As(err, &invalidArg) {
		t.Errorf("nil callback: err = %v", err)
	}
	if n := rs.requestCount(); n != 0 {
		t.Errorf("%d requests made for invalid input, want 0", n)
	}
}
