package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rolebot/core"
	"rolebot/models"
	"rolebot/services"
	"rolebot/services/bindings"
	"rolebot/usecases"
)

// StatusHTTPHandler exposes the read-only operational surface plus the
// category seeding trigger.
type StatusHTTPHandler struct {
	bindingsService   services.BindingsService
	categoriesService services.CategoriesService
	joinRolesService  services.JoinRolesService
	dispatchUseCase   usecases.DispatchUseCaseInterface
}

func NewStatusHTTPHandler(
	bindingsService services.BindingsService,
	categoriesService services.CategoriesService,
	joinRolesService services.JoinRolesService,
	dispatchUseCase usecases.DispatchUseCaseInterface,
) *StatusHTTPHandler {
	return &StatusHTTPHandler{
		bindingsService:   bindingsService,
		categoriesService: categoriesService,
		joinRolesService:  joinRolesService,
		dispatchUseCase:   dispatchUseCase,
	}
}

type SeedCategoryRequest struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

func (h *StatusHTTPHandler) HandleGetGuildStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	guildID := vars["guildID"]

	log.Printf("📋 Guild status request received for guild %s", guildID)

	guildBindings, err := h.bindingsService.GetBindingsByGuild(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to get bindings for guild %s: %v", guildID, err)
		http.Error(w, "failed to get guild bindings", http.StatusInternalServerError)
		return
	}

	uncategorized, err := h.bindingsService.GetUncategorizedBindingCount(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to get uncategorized binding count for guild %s: %v", guildID, err)
		http.Error(w, "failed to get uncategorized binding count", http.StatusInternalServerError)
		return
	}

	categories, err := h.categoriesService.GetCategoriesByGuild(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to get categories for guild %s: %v", guildID, err)
		http.Error(w, "failed to get guild categories", http.StatusInternalServerError)
		return
	}

	joinRoles, err := h.joinRolesService.GetJoinRolesByGuild(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to get join roles for guild %s: %v", guildID, err)
		http.Error(w, "failed to get guild join roles", http.StatusInternalServerError)
		return
	}

	status := models.GuildStatus{
		GuildID:            guildID,
		BindingCount:       len(guildBindings),
		UncategorizedCount: uncategorized,
		UncategorizedLimit: bindings.MaxUncategorizedBindings,
		CategoryCount:      len(categories),
		JoinRoleCount:      len(joinRoles),
	}

	h.writeJSONResponse(w, http.StatusOK, status)
}

func (h *StatusHTTPHandler) HandleSeedCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)
	categoryID := vars["categoryID"]

	log.Printf("📋 Seed category request received for category %s", categoryID)

	var req SeedCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to decode request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ChannelID == "" || req.MessageID == "" {
		http.Error(w, "channel_id and message_id are required", http.StatusBadRequest)
		return
	}

	result, err := h.dispatchUseCase.SeedCategory(ctx, categoryID, req.ChannelID, req.MessageID)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to seed category %s: %v", categoryID, err)
		http.Error(w, "failed to seed category", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *StatusHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
