package main

// Route is a page to capture and the name its screenshots are saved under.
type Route struct {
	Path string
	Name string
}

// Viewport is the browser window size a capture is taken at.
type Viewport struct {
	Name   string
	Width  int
	Height int
}

var (
	teacherRoutes = []Route{
		{Path: "/teacher", Name: "teacher-dashboard"},
		{Path: "/gradebook", Name: "gradebook-list"},
		{Path: "/gradebook/1", Name: "gradebook-detail"},
		{Path: "/student/1", Name: "student-profile-view"},
		{Path: "/attendance-management", Name: "attendance-management"},
		{Path: "/attendance/student/1", Name: "attendance-per-student"},
		{Path: "/leave-requests", Name: "leave-requests-list"},
		{Path: "/leave-request/1", Name: "leave-request-approval"},
	}

	studentRoutes = []Route{
		{Path: "/student-dashboard", Name: "student-dashboard"},
		{Path: "/journal", Name: "journal-summary"},
		{Path: "/journal/math", Name: "journal-per-subject"},
		{Path: "/grades", Name: "grade-detail"},
		{Path: "/assignment/1", Name: "assignment-detail"},
		{Path: "/attendance", Name: "attendance-overview"},
		{Path: "/attendance/session/1", Name: "attendance-per-session"},
		{Path: "/leave-request", Name: "leave-request-form"},
		{Path: "/leave-requests-status", Name: "leave-request-status"},
		{Path: "/profile", Name: "student-profile"},
	}

	sharedRoutes = []Route{
		{Path: "/login", Name: "login"},
		{Path: "/register", Name: "register"},
		{Path: "/reports", Name: "reports"},
		{Path: "/404", Name: "error-state"},
	}

	modalRoutes = []Route{
		{Path: "/gradebook/1?modal=grade-edit", Name: "grade-edit-modal"},
		{Path: "/grades?modal=grade-history", Name: "grade-history-modal"},
	}

	viewports = []Viewport{
		{Name: "desktop", Width: 1440, Height: 900},
	}
)

// allRoutes lists every route in capture order.
func allRoutes() []Route {
	routes := make([]Route, 0, len(teacherRoutes)+len(studentRoutes)+len(sharedRoutes)+len(modalRoutes))
	routes = append(routes, teacherRoutes...)
	routes = append(routes, studentRoutes...)
	routes = append(routes, sharedRoutes...)
	return append(routes, modalRoutes...)
}

func fileName(r Route, vp Viewport) string {
	return r.Name + "-" + vp.Name + ".png"
}
