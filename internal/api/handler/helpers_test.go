package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	mw "github.com/careerai/careerai/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func setUserCtx(ctx context.Context, id uuid.UUID) context.Context {
	return mw.SetUserID(ctx, id)
}

// newReq builds a request with a JSON body (nil for none), an authenticated
// user when userID is not uuid.Nil, and chi URL params given as key/value pairs.
func newReq(t *testing.T, method, target string, body any, userID uuid.UUID, params ...string) *http.Request {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(buf)
	}

	r := httptest.NewRequest(method, target, rd)
	ctx := r.Context()
	if userID != uuid.Nil {
		ctx = setUserCtx(ctx, userID)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for i := 0; i+1 < len(params); i += 2 {
			rctx.URLParams.Add(params[i], params[i+1])
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func parseErr(t *testing.T, rec *httptest.ResponseRecorder) errResp {
	t.Helper()
	var e errResp
	if err := json.NewDecoder(rec.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return e
}

// parseData decodes the {data} envelope into v.
func parseData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func strPtr(s string) *string { return &s }
