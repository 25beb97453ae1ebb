// Package kvrepos implements the domain Repository interfaces over the
// key-value snapshot store: one collection key per entity set, whole-snapshot
// reads and writes, collection-level locking per repository.
package kvrepos

// Collection keys. These are the external persistence surface; renaming one
// orphans previously stored data (the loader then falls back to seeds).
const (
	keyUsers            = "users"
	keyStudents         = "students"
	keyArchivedStudents = "archivedStudents"
	keyCourses          = "courses"
	keyCalendarEvents   = "calendarEvents"
	keyApplications     = "applications"
	keyPayments         = "payments"
	keyAnnouncements    = "announcements"
	keyNotifications    = "notifications"
	keyChatMessages     = "chatMessages"
	keyTeacherQuestions = "teacherQuestions"
	keyMockTests        = "mockTests"
	keySubmissions      = "studentSubmissions"
)
