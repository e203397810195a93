package gateway

import (
	"net/http"
	"net/url"
)

type endpoint struct {
	name         string
	method       string
	path         string
	requiresAuth bool
}

func get(name, path string, requiresAuth bool) endpoint {
	return endpoint{name: name, method: http.MethodGet, path: path, requiresAuth: requiresAuth}
}

func post(name, path string, requiresAuth bool) endpoint {
	return endpoint{name: name, method: http.MethodPost, path: path, requiresAuth: requiresAuth}
}

var (
	registerEndpoint           = post("register", "/auth/register", false)
	loginEndpoint              = post("login", "/auth/login", false)
	socialLoginEndpoint        = post("social_login", "/auth/social", false)
	profileEndpoint            = get("profile", "/auth/profile", true)
	categoriesEndpoint         = get("categories", "/courses/categories", false)
	recommendedCoursesEndpoint = get("recommended_courses", "/courses/recommended", false)
	userStatsEndpoint          = get("user_stats", "/progress/stats", true)
	updateProgressEndpoint     = post("update_progress", "/progress/update", true)
	consumeEnergyEndpoint      = post("consume_energy", "/progress/energy/consume", true)
)

func coursesEndpoint(categoryID string) endpoint {
	path := "/courses"
	if categoryID != "" {
		path += "?" + url.Values{"category_id": {categoryID}}.Encode()
	}
	return get("courses", path, false)
}

func courseEndpoint(id string) endpoint {
	return get("course", "/courses/"+url.PathEscape(id), false)
}

func lessonEndpoint(id string) endpoint {
	return get("lesson", "/courses/lessons/"+url.PathEscape(id), false)
}

func levelLessonsEndpoint(levelID string) endpoint {
	return get("level_lessons", "/courses/levels/"+url.PathEscape(levelID)+"/lessons", false)
}

func courseProgressEndpoint(courseID string) endpoint {
	return get("course_progress", "/progress/course/"+url.PathEscape(courseID), true)
}

func lessonProgressEndpoint(lessonID string) endpoint {
	return get("lesson_progress", "/progress/lesson/"+url.PathEscape(lessonID), true)
}
