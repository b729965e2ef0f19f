package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aretera/chat-backend/internal/domain"
	"github.com/aretera/chat-backend/internal/services"
)

func TestGetReactions_MissingSelector(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{}, stubDiagSvc{}, okVerifier("u1"), false)
	w := doJSON(t, setupRouter(h), http.MethodGet, "/reactions", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if decodeBody(t, w)["code"] != ErrCodeBadRequest {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetReactions_Unauthorized(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{}, stubDiagSvc{}, deniedVerifier(), false)
	w := doJSON(t, setupRouter(h), http.MethodGet, "/reactions?message_id=m1", "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetReactions_Bookmarks(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{
		bookmarks: []domain.Message{{ID: "m1", Content: "saved"}},
	}, stubDiagSvc{}, okVerifier("u1"), false)

	w := doJSON(t, setupRouter(h), http.MethodGet, "/reactions?type=bookmarks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
	marks, okCast := body["bookmarks"].([]any)
	if !okCast || len(marks) != 1 {
		t.Fatalf("expected one bookmark, got %v", body["bookmarks"])
	}
}

func TestGetReactions_ByMessage(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{
		reactions: []domain.Reaction{{ID: "r1", Type: domain.ReactionThumbsUp}},
	}, stubDiagSvc{}, okVerifier("u1"), false)

	w := doJSON(t, setupRouter(h), http.MethodGet, "/reactions?message_id=m1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	list, okCast := body["reactions"].([]any)
	if !okCast || len(list) != 1 {
		t.Fatalf("expected one reaction, got %v", body["reactions"])
	}
}

func TestPostReaction_MissingFields(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{}, stubDiagSvc{}, okVerifier("u1"), false)
	w := doJSON(t, setupRouter(h), http.MethodPost, "/reactions", `{"message_id":"m1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPostReaction_ServiceErrors(t *testing.T) {
	cases := []struct {
		err      error
		want     int
		wantCode string
	}{
		{services.ErrInvalidReaction, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrMessageNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrForbiddenReaction, http.StatusForbidden, ErrCodeForbidden},
		{errors.New("db down"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{err: tc.err}, stubDiagSvc{}, okVerifier("u1"), false)
		w := doJSON(t, setupRouter(h), http.MethodPost, "/reactions", `{"message_id":"m1","reaction_type":"bookmark"}`)
		if w.Code != tc.want {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
		if body := decodeBody(t, w); body["code"] != tc.wantCode {
			t.Fatalf("error %v: unexpected code %v", tc.err, body["code"])
		}
	}
}

func TestPostReaction_Success(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{}, stubDiagSvc{}, okVerifier("u1"), false)
	w := doJSON(t, setupRouter(h), http.MethodPost, "/reactions", `{"message_id":"m1","reaction_type":"thumbs_up"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
	reaction, okCast := body["reaction"].(map[string]any)
	if !okCast || reaction["reaction_type"] != "thumbs_up" {
		t.Fatalf("unexpected reaction: %v", body["reaction"])
	}
}

func TestDeleteReaction_MissingParams(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{}, stubDiagSvc{}, okVerifier("u1"), false)

	for _, path := range []string{
		"/reactions",
		"/reactions?message_id=m1",
		"/reactions?reaction_type=bookmark",
	} {
		w := doJSON(t, setupRouter(h), http.MethodDelete, path, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestDeleteReaction_InvalidType(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{err: services.ErrInvalidReaction}, stubDiagSvc{}, okVerifier("u1"), false)
	w := doJSON(t, setupRouter(h), http.MethodDelete, "/reactions?message_id=m1&reaction_type=like", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDeleteReaction_Success(t *testing.T) {
	h := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{}, stubDiagSvc{}, okVerifier("u1"), false)
	w := doJSON(t, setupRouter(h), http.MethodDelete, "/reactions?message_id=m1&reaction_type=bookmark", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["success"] != true {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestFailInternal_ProductionMasksDetail(t *testing.T) {
	boom := errors.New("sqlite file is locked")

	dev := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{err: boom}, stubDiagSvc{}, okVerifier("u1"), false)
	w := doJSON(t, setupRouter(dev), http.MethodGet, "/reactions?message_id=m1", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if decodeBody(t, w)["message"] != boom.Error() {
		t.Fatalf("dev mode should expose detail, got %s", w.Body.String())
	}

	prod := New(stubConvSvc{}, stubMsgSvc{}, stubReactSvc{err: boom}, stubDiagSvc{}, okVerifier("u1"), true)
	w = doJSON(t, setupRouter(prod), http.MethodGet, "/reactions?message_id=m1", "")
	if decodeBody(t, w)["message"] != "internal server error" {
		t.Fatalf("production mode should mask detail, got %s", w.Body.String())
	}
}
