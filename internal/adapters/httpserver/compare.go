package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/stgcorp/stalex-shop/internal/compare"
)

const compareCookie = "compare"

// cookieSlot persists the comparison selection in a signed cookie, the
// server-side counterpart of the browser-local storage slot. The payload is
// the JSON id array; the signature keeps clients from injecting arbitrary
// values.
type cookieSlot struct {
	w      http.ResponseWriter
	r      *http.Request
	secret []byte
}

func (s *cookieSlot) Get() (string, bool) {
	c, err := s.r.Cookie(compareCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return "", false
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", false
	}
	return string(payload), true
}

func (s *cookieSlot) Set(value string) {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(value))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString([]byte(value))
	http.SetCookie(s.w, &http.Cookie{
		Name:     compareCookie,
		Value:    val,
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 180,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) *compare.Store {
	return compare.NewStore(&cookieSlot{w: w, r: r, secret: s.secret})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	sel := s.selection(w, r)
	table := s.comparer.Build(r.Context(), sel.List())
	writeJSON(w, 200, table)
}

func (s *Server) handleCompareAdd(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "invalid product id")
		return
	}
	ids := s.selection(w, r).Add(id)
	writeJSON(w, 200, map[string]any{"ids": idStrings(ids)})
}

func (s *Server) handleCompareRemove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "invalid product id")
		return
	}
	ids := s.selection(w, r).Remove(id)
	writeJSON(w, 200, map[string]any{"ids": idStrings(ids)})
}

func (s *Server) handleCompareClear(w http.ResponseWriter, r *http.Request) {
	s.selection(w, r).Clear()
	writeJSON(w, 200, map[string]any{"ids": []string{}})
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
