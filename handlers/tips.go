// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/mushroom-rally/middleware"
	"github.com/danielhkuo/mushroom-rally/models"
)

// TipSource produces advisory battle tips and never fails
type TipSource interface {
	BattleTip(ctx context.Context, category, attribute string) string
}

type TipHandler struct {
	tips TipSource
}

func NewTipHandler(tips TipSource) *TipHandler {
	return &TipHandler{tips: tips}
}

// GetTip handles GET /tips?category=&attribute=
func (h *TipHandler) GetTip(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	attribute := r.URL.Query().Get("attribute")

	if !models.IsValidCategory(category) {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, "unknown category")
		return
	}
	if attribute != "" && !models.IsValidAttribute(attribute) {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalid, "unknown attribute")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TipResponse{
		Tip: h.tips.BattleTip(r.Context(), category, attribute),
	})
}
