package types

import (
	"context"
	"testing"
)

func TestCommentLevels(t *testing.T) {
	tests := []struct {
		name          string
		level         float64
		parentComment bool
	}{
		{"direct reply to post", 1, false},
		{"reply to comment", 2, true},
		{"deeply nested", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment := mustComment(t, Payload{"id": "c1", "level": tt.level}, nil)
			if comment.Level() != int(tt.level) {
				t.Errorf("Level() = %d, want %d", comment.Level(), int(tt.level))
			}
			if comment.IsParentComment() != tt.parentComment {
				t.Errorf("IsParentComment() = %v, want %v", comment.IsParentComment(), tt.parentComment)
			}
			if comment.IsParentPost() != !tt.parentComment {
				t.Errorf("IsParentPost() = %v, want %v", comment.IsParentPost(), !tt.parentComment)
			}
		})
	}
}

func TestCommentParentResolvesPost(t *testing.T) {
	post := mustPost(t, Payload{"id": "p1"}, nil)
	resolver := &fakeResolver{post: post}
	comment := mustComment(t, Payload{
		"id":     "c1",
		"level":  float64(1),
		"parent": "p1",
		"post":   "p1",
	}, resolver)

	got, err := comment.Parent(context.Background())
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if got != Item(post) {
		t.Error("Parent did not return the containing post")
	}
	if resolver.postCalls != 1 || resolver.commentCalls != 0 {
		t.Errorf("resolver calls post=%d comment=%d, want 1/0", resolver.postCalls, resolver.commentCalls)
	}
}

func TestCommentParentResolvesComment(t *testing.T) {
	parent := mustComment(t, Payload{"id": "c0"}, nil)
	resolver := &fakeResolver{comment: parent}
	comment := mustComment(t, Payload{
		"id":     "c1",
		"level":  float64(2),
		"parent": "c0",
		"post":   "p1",
	}, resolver)

	got, err := comment.Parent(context.Background())
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if got != Item(parent) {
		t.Error("Parent did not return the parent comment")
	}
	if resolver.commentCalls != 1 || resolver.postCalls != 0 {
		t.Errorf("resolver calls comment=%d post=%d, want 1/0", resolver.commentCalls, resolver.postCalls)
	}
}

func TestCommentParentMemoized(t *testing.T) {
	parent := mustComment(t, Payload{"id": "c0"}, nil)
	resolver := &fakeResolver{comment: parent}
	comment := mustComment(t, Payload{
		"id":     "c1",
		"level":  float64(3),
		"parent": "c0",
	}, resolver)

	for i := 0; i < 3; i++ {
		if _, err := comment.Parent(context.Background()); err != nil {
			t.Fatalf("Parent: %v", err)
		}
	}
	if resolver.commentCalls != 1 {
		t.Errorf("resolver called %d times, want 1", resolver.commentCalls)
	}
}

func TestCommentParentAbsent(t *testing.T) {
	resolver := &fakeResolver{}
	comment := mustComment(t, Payload{"id": "c1"}, resolver)

	got, err := comment.Parent(context.Background())
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if got != nil {
		t.Error("Parent returned an item with no parent set")
	}
	if resolver.postCalls != 0 && resolver.commentCalls != 0 {
		t.Error("resolver was called for an absent parent")
	}
}

func TestCommentPostMemoized(t *testing.T) {
	post := mustPost(t, Payload{"id": "p1"}, nil)
	resolver := &fakeResolver{post: post}
	comment := mustComment(t, Payload{"id": "c1", "post": "p1"}, resolver)

	for i := 0; i < 2; i++ {
		got, err := comment.Post(context.Background())
		if err != nil {
			t.Fatalf("Post: %v", err)
		}
		if got != post {
			t.Fatal("Post returned an unexpected post")
		}
	}
	if resolver.postCalls != 1 {
		t.Errorf("resolver called %d times, want 1", resolver.postCalls)
	}
}

func TestCommentFields(t *testing.T) {
	comment := mustComment(t, Payload{
		"id":     "c1",
		"parent": "c0",
		"post":   "p1",
		"level":  float64(2),
	}, nil)

	if comment.Kind() != KindComment {
		t.Errorf("Kind() = %v", comment.Kind())
	}
	if comment.ParentID() != "c0" {
		t.Errorf("ParentID() = %q", comment.ParentID())
	}
	if comment.PostID() != "p1" {
		t.Errorf("PostID() = %q", comment.PostID())
	}
}
