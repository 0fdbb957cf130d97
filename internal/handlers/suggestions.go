package handlers

import (
	"net/http"
	"strings"
	"time"
)

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func formatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, formatTime(s))
	}
	return out
}

// OpenOnPlatform lists working and cleaning appointments on a platform that
// are still ahead of or running over the current time.
func (h *AppointmentHandler) OpenOnPlatform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	platformID := strings.TrimSpace(r.URL.Query().Get("platform_id"))
	if platformID == "" {
		http.Error(w, "platform_id is required", http.StatusBadRequest)
		return
	}
	appts, err := h.planner.OpenOnPlatformAfterNow(platformID)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentList(appts))
}

type suggestionsResponse struct {
	PlatformID string   `json:"platform_id"`
	Slots      []string `json:"slots"`
}

// Suggestions proposes three start times on one platform for the given work
// items.
func (h *AppointmentHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	platformID := strings.TrimSpace(r.URL.Query().Get("platform_id"))
	workIDs := splitIDs(r.URL.Query().Get("work_ids"))
	if platformID == "" {
		http.Error(w, "platform_id is required", http.StatusBadRequest)
		return
	}
	slots, err := h.planner.SuggestWorkingSlots(platformID, workIDs)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{PlatformID: platformID, Slots: formatSlots(slots)})
}

type platformSuggestionsResponse struct {
	PlatformID string   `json:"platform_id"`
	Name       string   `json:"name"`
	Slots      []string `json:"slots"`
}

// SuggestionsAll repeats the three-slot suggestion for every known platform.
func (h *AppointmentHandler) SuggestionsAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	workIDs := splitIDs(r.URL.Query().Get("work_ids"))
	all, err := h.planner.SuggestAllPlatforms(workIDs)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	out := make([]platformSuggestionsResponse, 0, len(all))
	for _, ps := range all {
		out = append(out, platformSuggestionsResponse{
			PlatformID: ps.PlatformID,
			Name:       ps.Name,
			Slots:      formatSlots(ps.Slots),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
