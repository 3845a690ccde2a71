package handlers

import (
	"net/http"

	"github.com/homequeen/api/models"
	"github.com/homequeen/api/services"
)

// CreateKidProfileRequest is the body of POST /api/kids/profiles
type CreateKidProfileRequest struct {
	Name       string  `json:"name" validate:"required"`
	BirthDate  *string `json:"birthDate"`
	SchoolName *string `json:"schoolName"`
	Grade      *string `json:"grade"`
}

// UpdateKidProfileRequest is the body of PATCH /api/kids/profiles/{id}
type UpdateKidProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1"`
	BirthDate  *string `json:"birthDate"`
	SchoolName *string `json:"schoolName"`
	Grade      *string `json:"grade"`
}

// CreateHomeworkRequest is the body of POST /api/kids/profiles/{kidId}/homework
type CreateHomeworkRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	DueDate     string  `json:"dueDate" validate:"required"`
}

// UpdateHomeworkRequest is the body of PATCH /api/kids/homework/{id}
type UpdateHomeworkRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	IsCompleted *bool   `json:"isCompleted"`
}

// KidHandler handles kid profiles and homework
type KidHandler struct {
	Responder
	kids *services.KidService
}

// NewKidHandler creates a new KidHandler
func NewKidHandler(kids *services.KidService, r Responder) *KidHandler {
	return &KidHandler{Responder: r, kids: kids}
}

// HandleListProfiles handles GET /api/kids/profiles
func (h *KidHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	profiles, err := h.kids.Profiles(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, profiles)
}

// HandleCreateProfile handles POST /api/kids/profiles
func (h *KidHandler) HandleCreateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CreateKidProfileRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	birth, err := parseOptionalDate("birthDate", req.BirthDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	profile, err := h.kids.CreateProfile(r.Context(), id.UserID, services.KidProfileInput{
		Name:       req.Name,
		BirthDate:  birth,
		SchoolName: req.SchoolName,
		Grade:      req.Grade,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, profile)
}

// HandleUpdateProfile handles PATCH /api/kids/profiles/{id}
func (h *KidHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	kidID, ok := h.pathID(w, r, "id", services.ErrProfileNotFound)
	if !ok {
		return
	}
	var req UpdateKidProfileRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	birth, err := parseOptionalDate("birthDate", req.BirthDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	profile, err := h.kids.UpdateProfile(r.Context(), id.UserID, kidID, models.KidProfilePatch{
		Name:       req.Name,
		BirthDate:  birth,
		SchoolName: req.SchoolName,
		Grade:      req.Grade,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, profile)
}

// HandleDeleteProfile handles DELETE /api/kids/profiles/{id}
func (h *KidHandler) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	kidID, ok := h.pathID(w, r, "id", services.ErrProfileNotFound)
	if !ok {
		return
	}
	if err := h.kids.DeleteProfile(r.Context(), id.UserID, kidID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListHomework handles GET /api/kids/homework
func (h *KidHandler) HandleListHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	homework, err := h.kids.Homework(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, homework)
}

// HandleKidHomework handles GET /api/kids/profiles/{kidId}/homework
func (h *KidHandler) HandleKidHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	kidID, ok := h.pathID(w, r, "kidId", services.ErrProfileNotFound)
	if !ok {
		return
	}
	homework, err := h.kids.KidHomework(r.Context(), id.UserID, kidID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, homework)
}

// HandleCreateHomework handles POST /api/kids/profiles/{kidId}/homework.
// An unowned kid is reported before the body is looked at.
func (h *KidHandler) HandleCreateHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	kidID, ok := h.pathID(w, r, "kidId", services.ErrProfileNotFound)
	if !ok {
		return
	}
	if _, err := h.kids.GetProfile(r.Context(), id.UserID, kidID); err != nil {
		h.fail(w, r, err)
		return
	}

	var req CreateHomeworkRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	hw, err := h.kids.CreateHomework(r.Context(), id.UserID, kidID, services.HomeworkInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, hw)
}

// HandleUpdateHomework handles PATCH /api/kids/homework/{id}
func (h *KidHandler) HandleUpdateHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	hwID, ok := h.pathID(w, r, "id", services.ErrHomeworkNotFound)
	if !ok {
		return
	}
	var req UpdateHomeworkRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := parseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	hw, err := h.kids.UpdateHomework(r.Context(), id.UserID, hwID, models.HomeworkPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, hw)
}

// HandleDeleteHomework handles DELETE /api/kids/homework/{id}
func (h *KidHandler) HandleDeleteHomework(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	hwID, ok := h.pathID(w, r, "id", services.ErrHomeworkNotFound)
	if !ok {
		return
	}
	if err := h.kids.DeleteHomework(r.Context(), id.UserID, hwID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
