// Package httpapi exposes the orchestrators over a JSON HTTP API. Bodies
// are JSON; failures use the envelope {"code", "message"} with the status
// derived from the error code.
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	combatengine "github.com/habitquest/combat-api/internal/engine/combat"
	"github.com/habitquest/combat-api/internal/entities"
	"github.com/habitquest/combat-api/internal/errors"
	"github.com/habitquest/combat-api/internal/orchestrators/combat"
	"github.com/habitquest/combat-api/internal/orchestrators/dungeon"
	"github.com/habitquest/combat-api/internal/orchestrators/items"
)

// maxBodyBytes bounds request bodies; every payload here is tiny
const maxBodyBytes = 1 << 16

// Config holds the dependencies for the HTTP handler
type Config struct {
	CombatService  combat.Service
	DungeonService dungeon.Service
	ItemsService   items.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CombatService == nil {
		vb.RequiredField("CombatService")
	}
	if c.DungeonService == nil {
		vb.RequiredField("DungeonService")
	}
	if c.ItemsService == nil {
		vb.RequiredField("ItemsService")
	}

	return vb.Build()
}

// Handler serves the combat API routes
type Handler struct {
	combatService  combat.Service
	dungeonService dungeon.Service
	itemsService   items.Service
}

// NewHandler creates a new HTTP handler with the provided dependencies
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		combatService:  cfg.CombatService,
		dungeonService: cfg.DungeonService,
		itemsService:   cfg.ItemsService,
	}, nil
}

// Routes returns a mux with all API routes registered
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /combat/initiate", h.handleInitiate)
	mux.HandleFunc("POST /combat/action", h.handleAction)
	mux.HandleFunc("POST /combat/auto", h.handleAuto)
	mux.HandleFunc("POST /combat/rest", h.handleRest)
	mux.HandleFunc("GET /combat/enemies", h.handleListEnemies)
	mux.HandleFunc("GET /combat/session/{id}", h.handleGetSession)

	mux.HandleFunc("GET /combat/dungeons", h.handleListDungeons)
	mux.HandleFunc("POST /combat/dungeon/start", h.handleDungeonStart)
	mux.HandleFunc("POST /combat/dungeon/continue", h.handleDungeonContinue)
	mux.HandleFunc("GET /combat/dungeon/session/{dungeonId}", h.handleDungeonSession)

	mux.HandleFunc("POST /rewards/equip", h.handleEquip)
	mux.HandleFunc("POST /rewards/unequip", h.handleUnequip)
	mux.HandleFunc("POST /rewards/use", h.handleUse)
	mux.HandleFunc("POST /rewards/forge", h.handleForge)
	mux.HandleFunc("POST /skills/upgrade", h.handleUpgradeSkill)

	mux.HandleFunc("GET /characters/{id}", h.handleGetCharacter)

	return mux
}

type initiateRequest struct {
	CharacterID string `json:"characterId"`
	EnemyID     string `json:"enemyId"`
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.combatService.Initiate(r.Context(), &combat.InitiateInput{
		CharacterID: req.CharacterID,
		EnemyID:     req.EnemyID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session": out.Session})
}

type actionRequest struct {
	CombatID       string `json:"combatId"`
	Action         string `json:"action"`
	SkillID        string `json:"skillId,omitempty"`
	ItemID         string `json:"itemId,omitempty"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.combatService.Action(r.Context(), &combat.ActionInput{
		SessionID:       req.CombatID,
		Action:          combatengine.ActionType(req.Action),
		SkillID:         req.SkillID,
		InventoryItemID: req.ItemID,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse(out.Session, out.Outcome))
}

func (h *Handler) handleAuto(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.combatService.Auto(r.Context(), &combat.AutoInput{
		CharacterID: req.CharacterID,
		EnemyID:     req.EnemyID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse(out.Session, out.Outcome))
}

type restRequest struct {
	CharacterID string `json:"characterId"`
}

func (h *Handler) handleRest(w http.ResponseWriter, r *http.Request) {
	var req restRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.combatService.Rest(r.Context(), &combat.RestInput{CharacterID: req.CharacterID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"character": out.Character})
}

func (h *Handler) handleListEnemies(w http.ResponseWriter, r *http.Request) {
	out, err := h.combatService.ListEnemies(r.Context(), &combat.ListEnemiesInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enemies": out.Enemies})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.combatService.GetSession(r.Context(), &combat.GetSessionInput{
		SessionID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": out.Session})
}

func (h *Handler) handleListDungeons(w http.ResponseWriter, r *http.Request) {
	out, err := h.dungeonService.ListDungeons(r.Context(), &dungeon.ListDungeonsInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dungeons": out.Dungeons})
}

type dungeonRequest struct {
	CharacterID string `json:"characterId"`
	DungeonID   string `json:"dungeonId"`
}

func (h *Handler) handleDungeonStart(w http.ResponseWriter, r *http.Request) {
	var req dungeonRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.dungeonService.Start(r.Context(), &dungeon.StartInput{
		CharacterID: req.CharacterID,
		DungeonID:   req.DungeonID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session":  out.Session,
		"progress": out.Progress,
	})
}

func (h *Handler) handleDungeonContinue(w http.ResponseWriter, r *http.Request) {
	var req dungeonRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.dungeonService.Continue(r.Context(), &dungeon.ContinueInput{
		CharacterID: req.CharacterID,
		DungeonID:   req.DungeonID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  out.Session,
		"progress": out.Progress,
	})
}

func (h *Handler) handleDungeonSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.dungeonService.GetRun(r.Context(), &dungeon.GetRunInput{
		CharacterID: r.URL.Query().Get("characterId"),
		DungeonID:   r.PathValue("dungeonId"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"progress": out.Progress,
		"session":  out.Session,
	})
}

type equipRequest struct {
	CharacterID     string `json:"characterId"`
	InventoryItemID string `json:"inventoryItemId"`
	Slot            string `json:"slot,omitempty"`
}

func (h *Handler) handleEquip(w http.ResponseWriter, r *http.Request) {
	var req equipRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.itemsService.Equip(r.Context(), &items.EquipInput{
		CharacterID:     req.CharacterID,
		InventoryItemID: req.InventoryItemID,
		Slot:            entities.Slot(req.Slot),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{
		"character": out.Character,
		"item":      out.Item,
	}
	if out.Displaced != nil {
		resp["displaced"] = out.Displaced
	}
	if out.Warning != "" {
		resp["warning"] = out.Warning
	}
	writeJSON(w, http.StatusOK, resp)
}

type itemRequest struct {
	CharacterID     string `json:"characterId"`
	InventoryItemID string `json:"inventoryItemId"`
}

func (h *Handler) handleUnequip(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.itemsService.Unequip(r.Context(), &items.UnequipInput{
		CharacterID:     req.CharacterID,
		InventoryItemID: req.InventoryItemID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"character": out.Character,
		"item":      out.Item,
	})
}

func (h *Handler) handleUse(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.itemsService.Use(r.Context(), &items.UseInput{
		CharacterID:     req.CharacterID,
		InventoryItemID: req.InventoryItemID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"character":         out.Character,
		"healedHp":          out.HealedHP,
		"healedMana":        out.HealedMana,
		"remainingQuantity": out.RemainingQuantity,
	})
}

func (h *Handler) handleForge(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.itemsService.Forge(r.Context(), &items.ForgeInput{
		CharacterID:     req.CharacterID,
		InventoryItemID: req.InventoryItemID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"character": out.Character,
		"item":      out.Item,
		"cost":      out.Cost,
	})
}

type upgradeSkillRequest struct {
	CharacterID string `json:"characterId"`
	SkillID     string `json:"skillId"`
}

func (h *Handler) handleUpgradeSkill(w http.ResponseWriter, r *http.Request) {
	var req upgradeSkillRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.itemsService.UpgradeSkill(r.Context(), &items.UpgradeSkillInput{
		CharacterID: req.CharacterID,
		SkillID:     req.SkillID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"character": out.Character,
		"newLevel":  out.NewLevel,
	})
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	out, err := h.itemsService.GetCharacter(r.Context(), &items.GetCharacterInput{
		CharacterID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"character":      out.Character,
		"effectiveStats": out.EffectiveStats,
		"items":          out.Items,
	})
}

// actionResponse flattens the session snapshot and, when the round was
// terminal, the outcome fields clients act on
func actionResponse(session *entities.CombatSession, outcome *combat.Outcome) map[string]any {
	resp := map[string]any{
		"session": session,
		"status":  session.Status,
	}
	if outcome == nil {
		return resp
	}
	if outcome.Rewards != nil {
		resp["rewards"] = outcome.Rewards
	}
	if outcome.GoldPenalty > 0 {
		resp["goldPenalty"] = outcome.GoldPenalty
	}
	if outcome.DungeonComplete {
		resp["dungeonComplete"] = true
		resp["dungeonRewards"] = outcome.DungeonRewards
	}
	if outcome.NextEnemyID != "" {
		resp["nextEnemy"] = outcome.NextEnemyID
	}
	return resp
}

func decode(w http.ResponseWriter, r *http.Request, target any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil && err != io.EOF {
		writeError(w, errors.InvalidArgument("invalid JSON body"))
		return false
	}
	return true
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorEnvelope{
		Code:    string(code),
		Message: errors.GetMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
