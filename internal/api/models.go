package api

import (
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/store"
)

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// SocialLoginRequest is the payload of POST /auth/social. Email and name are
// optional; Apple only sends them on the first sign-in.
type SocialLoginRequest struct {
	Provider   string `json:"provider"   validate:"required,oneof=apple google"`
	ProviderID string `json:"providerId" validate:"required"`
	Email      string `json:"email"      validate:"omitempty,email"`
	Name       string `json:"name"`
}

// ConsumeEnergyRequest is the payload of POST /progress/energy/consume.
// A missing or non-positive amount spends one unit.
type ConsumeEnergyRequest struct {
	Amount int `json:"amount"`
}

// Success payloads are keyed by resource name inside the envelope's data
// member, e.g. {"success":true,"data":{"courses":[...]}}.

// CategoriesResponse is the data of GET /courses/categories.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// CoursesResponse is the data of the course list endpoints.
type CoursesResponse struct {
	Courses []domain.Course `json:"courses"`
}

// CourseResponse is the data of GET /courses/{id}.
type CourseResponse struct {
	Course *domain.CourseWithLevels `json:"course"`
}

// LessonResponse is the data of GET /courses/lessons/{id}.
type LessonResponse struct {
	Lesson *store.LessonRecord `json:"lesson"`
}

// LessonsResponse is the data of GET /courses/levels/{id}/lessons.
type LessonsResponse struct {
	Lessons []domain.Lesson `json:"lessons"`
}

// UserResponse is the data of GET /auth/profile.
type UserResponse struct {
	User *domain.User `json:"user"`
}

// StatsResponse is the data of GET /progress/stats.
type StatsResponse struct {
	Stats *domain.UserStats `json:"stats"`
}

// CourseProgressResponse is the data of GET /progress/course/{id}.
type CourseProgressResponse struct {
	Progress []domain.UserProgress `json:"progress"`
}

// ProgressResponse carries one progress record. Progress is null for a
// lesson that was never started.
type ProgressResponse struct {
	Progress *domain.UserProgress `json:"progress"`
}

// EnergyResponse reports the balance after spending energy.
type EnergyResponse struct {
	Energy int `json:"energy"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
