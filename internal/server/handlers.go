package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/timetable-app/timetable/internal/export"
	"github.com/timetable-app/timetable/internal/extract"
	"github.com/timetable-app/timetable/internal/importer"
	"github.com/timetable-app/timetable/internal/schedule"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/timegrid"
)

// maxUploadBytes caps uploaded schedule documents at 20 MiB.
const maxUploadBytes = 20 << 20

// stateResponse is the full document the UI renders from, plus the fixed
// grid it lays courses out on.
type stateResponse struct {
	Templates          []schedule.Template `json:"templates"`
	CurrentTemplateID  string              `json:"currentTemplateId"`
	IsSidebarCollapsed bool                `json:"isSidebarCollapsed"`
	Saved              bool                `json:"saved"`
	TimeSlots          []timegrid.Slot     `json:"timeSlots"`
	Weekdays           []string            `json:"weekdays"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		Templates:          doc.Templates,
		CurrentTemplateID:  doc.CurrentTemplateID,
		IsSidebarCollapsed: doc.IsSidebarCollapsed,
		Saved:              s.store.Saved(),
		TimeSlots:          timegrid.Slots(),
		Weekdays:           timegrid.Weekdays(),
	})
}

// nowResponse is what the UI polls (every minute) to highlight the current
// slot or break.
type nowResponse struct {
	IsScheduleDay bool   `json:"isScheduleDay"`
	Day           int    `json:"day,omitempty"`
	DayLabel      string `json:"dayLabel,omitempty"`
	CurrentSlotID int    `json:"currentSlotId,omitempty"`
	Break         *struct {
		PrevSlotID   int    `json:"prevSlotId"`
		NextSlotID   int    `json:"nextSlotId"`
		MinutesLeft  int    `json:"minutesLeft"`
		MinutesLabel string `json:"minutesLabel"`
	} `json:"break,omitempty"`
}

func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	resp := nowResponse{}
	if day, ok := timegrid.CurrentDay(now); ok {
		resp.IsScheduleDay = true
		resp.Day = day
		resp.DayLabel = timegrid.Weekdays()[day]
	}
	for _, slot := range timegrid.Slots() {
		if timegrid.IsWithinSlot(slot, now) {
			resp.CurrentSlotID = slot.ID
			break
		}
	}
	if br := timegrid.CurrentBreak(now); br != nil {
		resp.Break = &struct {
			PrevSlotID   int    `json:"prevSlotId"`
			NextSlotID   int    `json:"nextSlotId"`
			MinutesLeft  int    `json:"minutesLeft"`
			MinutesLabel string `json:"minutesLabel"`
		}{br.Prev.ID, br.Next.ID, br.MinutesLeft, timegrid.MinutesLabel(br.MinutesLeft)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collapsed bool `json:"collapsed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.store.SetSidebarCollapsed(req.Collapsed); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"collapsed": req.Collapsed})
}

func (s *Server) handleTemplateCreate(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Create()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleTemplateSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.store.Select(req.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Current())
}

func (s *Server) handleTemplateRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	id := r.PathValue("id")
	if err := s.store.Rename(id, req.Name); err != nil {
		writeError(w, err)
		return
	}
	t, err := s.store.Template(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTemplateExport(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Template(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := export.Marshal(t)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(t.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleCourseAdd(w http.ResponseWriter, r *http.Request) {
	var c schedule.Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	added, err := s.store.AddCourse(c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleCourseUpdate(w http.ResponseWriter, r *http.Request) {
	var c schedule.Course
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	c.ID = r.PathValue("id")
	if err := s.store.UpdateCourse(c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCourseDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCourse(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCourseMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SlotID    int `json:"slotId"`
		DayOfWeek int `json:"dayOfWeek"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	var slot *timegrid.Slot
	for _, candidate := range timegrid.Slots() {
		if candidate.ID == req.SlotID {
			slot = &candidate
			break
		}
	}
	if slot == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown slot id %d", req.SlotID)})
		return
	}
	if err := s.store.MoveCourse(r.PathValue("id"), *slot, req.DayOfWeek); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

// handleImportFile is the manual import path: the request body is a
// template file in the legacy {name, courses} shape.
func (s *Server) handleImportFile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	draft, err := export.Read(body, s.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	added, err := s.store.MergeImported([]importer.Draft{draft})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// handleImportDocument is the AI-assisted path: a multipart upload goes
// through the extraction capability and then the same validation pipeline.
func (s *Server) handleImportDocument(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "extraction is not configured"})
		return
	}

	credential, found, err := s.kv.Get(storage.APIKeyKey)
	if err != nil {
		writeError(w, err)
		return
	}
	if !found || strings.TrimSpace(credential) == "" {
		writeError(w, extract.ErrMissingCredential)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		return
	}

	doc := extract.Document{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	raw, err := s.extractor.Extract(r.Context(), doc, credential)
	if err != nil {
		writeError(w, err)
		return
	}

	drafts, err := importer.Run(raw, s.logger)
	if err != nil {
		writeError(w, err)
		return
	}
	added, err := s.store.MergeImported(drafts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("document import complete", "templates", len(added))
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleAPIKeyGet(w http.ResponseWriter, r *http.Request) {
	key, found, err := s.kv.Get(storage.APIKeyKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"configured": found && key != "", "apiKey": key})
}

func (s *Server) handleAPIKeySet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "apiKey is empty"})
		return
	}
	if err := s.kv.Set(storage.APIKeyKey, key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

func (s *Server) handleAPIKeyDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.kv.Delete(storage.APIKeyKey); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": false})
}
