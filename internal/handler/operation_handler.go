package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ============================================================
// Monetary Operation Handlers
// ============================================================

// operationRequest is the deposit/withdraw/transfer payload. Amounts arrive
// as JSON numbers or strings; decimal handles both.
type operationRequest struct {
	Amount        decimal.Decimal `json:"valor"`
	DestinationID int             `json:"contaDestino"`
}

// operationResponse augments the service result with a stale-view warning
// the frontend can surface.
type operationResponse struct {
	Snapshot *domain.AccountSnapshot `json:"snapshot,omitempty"`
	Stale    bool                    `json:"stale"`
	Warning  string                  `json:"warning,omitempty"`
}

func toOperationResponse(result *domain.OperationResult) operationResponse {
	resp := operationResponse{Snapshot: result.Snapshot, Stale: result.Stale}
	if result.Stale {
		resp.Warning = "operation completed, but the view could not be refreshed; displayed balances may be outdated"
	}
	return resp
}

func depositHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/deposit")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var req operationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		result, err := svc.Deposit(ctx, id, req.Amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toOperationResponse(result))
	}
}

func withdrawHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/withdraw")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var req operationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		result, err := svc.Withdraw(ctx, id, req.Amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toOperationResponse(result))
	}
}

func transferHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /accounts/{accountId}/transfer")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var req operationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		result, err := svc.Transfer(ctx, req.DestinationID, id, req.Amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toOperationResponse(result))
	}
}

// ============================================================
// Statement
// ============================================================

// statementRow is one history entry with its presentation metadata.
type statementRow struct {
	ID        int             `json:"idTransacao"`
	Value     decimal.Decimal `json:"valor"`
	Type      string          `json:"tipoTransacao"`
	Timestamp time.Time       `json:"dataTransacao"`
	Display   txDisplay       `json:"display"`
}

func statementHandler(svc *service.LedgerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /accounts/{accountId}/statement")
		defer span.End()

		id, err := intParam(r, "accountId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		period, err := parsePeriod(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		txs, err := svc.GetStatement(ctx, id, period)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		rows := make([]statementRow, len(txs))
		for i, tx := range txs {
			rows[i] = statementRow{
				ID:        tx.ID,
				Value:     tx.Value,
				Type:      string(tx.Type),
				Timestamp: tx.Timestamp,
				Display:   displayFor(tx.Type),
			}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}
