package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Accounts Handlers
// ============================================================

// accountView is an Account plus its display label.
type accountView struct {
	domain.Account
	TypeLabel string `json:"typeLabel"`
}

func toAccountView(a domain.Account) accountView {
	return accountView{Account: a, TypeLabel: accountTypeLabel(a.Type)}
}

func listAccountsHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /accounts")
		defer span.End()

		accounts, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		views := make([]accountView, len(accounts))
		for i, a := range accounts {
			views[i] = toAccountView(a)
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func getAccountHandler(ledgerSvc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /accounts/{accountId}")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		// The detail view needs the same snapshot an operation reload makes:
		// account, history, transfer destinations.
		snapshot, err := ledgerSvc.LoadAccountView(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func createAccountHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts")
		defer span.End()

		var account domain.Account
		if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := svc.Create(ctx, &account)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, toAccountView(*created))
	}
}

func updateAccountHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /accounts/{accountId}")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var account domain.Account
		if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := svc.Update(ctx, id, &account)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toAccountView(*updated))
	}
}

func deleteAccountHandler(svc *service.AccountService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /accounts/{accountId}")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
