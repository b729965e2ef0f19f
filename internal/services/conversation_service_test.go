package services

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/aretera/chat-backend/internal/domain"
)

// fakeConversationRepo records calls and serves canned pages.
type fakeConversationRepo struct {
	created []domain.Conversation
	page    []domain.Conversation
	total   int64

	gotOffset, gotLimit int
}

func (f *fakeConversationRepo) CreateConversation(_ context.Context, _ *gorm.DB, userID, title string) (*domain.Conversation, error) {
	c := domain.Conversation{ID: "c1", UserID: userID, Title: title}
	f.created = append(f.created, c)
	return &c, nil
}

func (f *fakeConversationRepo) GetConversation(_ context.Context, _ *gorm.DB, id, userID string) (*domain.Conversation, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeConversationRepo) CountConversations(_ context.Context, _ *gorm.DB, _ string) (int64, error) {
	return f.total, nil
}

func (f *fakeConversationRepo) ListConversationsPage(_ context.Context, _ *gorm.DB, _ string, offset, limit int) ([]domain.Conversation, error) {
	f.gotOffset, f.gotLimit = offset, limit
	return f.page, nil
}

func TestConversationCreate_TitleNormalization(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Billing   question ", "Billing question"},
		{"\t\n ", "New conversation"},
		{"", "New conversation"},
		{strings.Repeat("x", 80), strings.Repeat("x", 60)},
	}
	for _, tc := range cases {
		f := &fakeConversationRepo{}
		svc := NewConversationService(nil, f)
		c, err := svc.Create(context.Background(), "u1", tc.in)
		if err != nil {
			t.Fatalf("Create(%q): %v", tc.in, err)
		}
		if c.Title != tc.want {
			t.Fatalf("Create(%q): got title %q, want %q", tc.in, c.Title, tc.want)
		}
	}
}

func TestConversationListPage_DefaultsAndOffset(t *testing.T) {
	f := &fakeConversationRepo{
		total: 45,
		page:  []domain.Conversation{{ID: "a"}, {ID: "b"}},
	}
	svc := NewConversationService(nil, f)

	items, total, err := svc.ListPage(context.Background(), "u1", 3, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 45 || len(items) != 2 {
		t.Fatalf("total=%d len=%d", total, len(items))
	}
	if f.gotOffset != 20 || f.gotLimit != 10 {
		t.Fatalf("offset=%d limit=%d", f.gotOffset, f.gotLimit)
	}

	// Invalid page/pageSize fall back to 1/20.
	if _, _, err := svc.ListPage(context.Background(), "u1", 0, -5); err != nil {
		t.Fatalf("ListPage defaults: %v", err)
	}
	if f.gotOffset != 0 || f.gotLimit != 20 {
		t.Fatalf("default offset=%d limit=%d", f.gotOffset, f.gotLimit)
	}
}

func TestConversationListPage_EmptyTotalSkipsQuery(t *testing.T) {
	f := &fakeConversationRepo{total: 0, page: []domain.Conversation{{ID: "stale"}}}
	svc := NewConversationService(nil, f)

	items, total, err := svc.ListPage(context.Background(), "u1", 1, 20)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got total=%d items=%v", total, items)
	}
	if f.gotLimit != 0 {
		t.Fatalf("page query should be skipped when total is zero")
	}
}
