package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"secure-print-release/internal/model"
	requestresponse "secure-print-release/internal/model/requestresponse"
	"secure-print-release/internal/ports"
	"secure-print-release/internal/util"
)

type PrinterHandler struct {
	ports.PrinterAuthenticator
}

func NewPrinterHandler(authService ports.PrinterAuthenticator) *PrinterHandler {
	return &PrinterHandler{authService}
}

// Login godoc
// @Summary Printer agent login
// @Description Exchanges a configured printer id and secret for a bearer token used on complete, views and cleanup.
// @Tags Printers
// @Accept json
// @Produce json
// @Param request body requestresponse.PrinterLoginRequest true "Printer credentials"
// @Success 200 {object} requestresponse.PrinterLoginResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Router /api/print-jobs/printers/token [post]
func (h *PrinterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request requestresponse.PrinterLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		util.HandleError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if request.PrinterID == "" || request.Secret == "" {
		util.HandleError(w, "printerId and secret are required", http.StatusBadRequest)
		return
	}

	token, expiresAt, err := h.PrinterAuthenticator.Login(request.PrinterID, request.Secret)
	if errors.Is(err, model.ErrUnauthorizedPrinter) {
		util.HandleError(w, "invalid printer credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		util.HandleError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.PrinterLoginResponse{Token: token, ExpiresAt: expiresAt})
}
