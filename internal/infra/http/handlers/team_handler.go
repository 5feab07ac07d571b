package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// TeamHandler expõe as listas de apoio da UI (donos possíveis e grupos)
type TeamHandler struct {
	userRepo  entity.UserRepositoryInterface
	groupRepo entity.GroupRepositoryInterface
}

func NewTeamHandler(userRepo entity.UserRepositoryInterface, groupRepo entity.GroupRepositoryInterface) *TeamHandler {
	return &TeamHandler{userRepo: userRepo, groupRepo: groupRepo}
}

func (h *TeamHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*entity.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *TeamHandler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []*entity.LeadGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}
