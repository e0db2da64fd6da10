package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sillicon-village/backoffice-bfa-go/internal/cpf"
	"github.com/sillicon-village/backoffice-bfa-go/internal/domain"
	"github.com/sillicon-village/backoffice-bfa-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// People Handlers
// ============================================================

// personView is a Person plus the masked CPF for display.
type personView struct {
	domain.Person
	CPFFormatted string `json:"cpfFormatted"`
}

func toPersonView(p domain.Person) personView {
	return personView{Person: p, CPFFormatted: cpf.Format(p.CPF)}
}

func listPeopleHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /people")
		defer span.End()

		people, err := svc.List(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		views := make([]personView, len(people))
		for i, p := range people {
			views[i] = toPersonView(p)
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func getPersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /people/{personId}")
		defer span.End()

		id, err := intParam(r, "personId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		person, err := svc.Get(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toPersonView(*person))
	}
}

func createPersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /people")
		defer span.End()

		var person domain.Person
		if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := svc.Create(ctx, &person)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, toPersonView(*created))
	}
}

func updatePersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /people/{personId}")
		defer span.End()

		id, err := intParam(r, "personId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var person domain.Person
		if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := svc.Update(ctx, id, &person)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toPersonView(*updated))
	}
}

func deletePersonHandler(svc *service.PersonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /people/{personId}")
		defer span.End()

		id, err := intParam(r, "personId")
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
