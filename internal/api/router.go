package api

import (
	"github.com/gorilla/mux"

	"github.com/planora/weekplanner/internal/api/recovery"
	"github.com/planora/weekplanner/internal/auth"
	"github.com/planora/weekplanner/internal/backup"
	"github.com/planora/weekplanner/internal/services"
)

// RouterDeps carries everything the HTTP surface needs. Authorizer is
// optional; when nil the routes are open, which is how the local build target
// runs.
type RouterDeps struct {
	Appointments  *services.AppointmentService
	Tasks         *services.TaskService
	Metrics       *services.MetricService
	Overviews     *services.OverviewService
	Backup        *backup.Service
	ServiceHealth func() bool
	AIHealth      func() bool
	Authorizer    auth.Authorizer
}

// NewRouter wires every route to its handler.
func NewRouter(d RouterDeps) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)

	// Health stays outside auth so probes work without a key.
	health := NewHealthHandler(d.ServiceHealth, d.AIHealth)
	root.HandleFunc("/api/health", health.CheckHealth).Methods("GET")
	root.HandleFunc("/api/health/ai", health.CheckAIHealth).Methods("GET")

	api := root.PathPrefix("/api").Subrouter()
	if d.Authorizer != nil {
		api.Use(AuthMiddleware(d.Authorizer))
	}

	// Catalog
	activities := NewActivityHandler()
	api.HandleFunc("/activities", activities.ListActivities).Methods("GET")

	// Appointments
	appointments := NewAppointmentHandler(d.Appointments)
	api.HandleFunc("/users/{userId}/weeks/{weekId}/appointments", appointments.ListWeek).Methods("GET")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/appointments", appointments.SaveActivity).Methods("POST")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/appointments/{groupId}", appointments.DeleteGroup).Methods("DELETE")

	// Daily tasks
	tasks := NewTaskHandler(d.Tasks)
	api.HandleFunc("/users/{userId}/weeks/{weekId}/days/{day}/tasks", tasks.GetTasks).Methods("GET")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/days/{day}/tasks", tasks.PutTasks).Methods("PUT")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/days/{day}/tasks/generate", tasks.GenerateTasks).Methods("POST")

	// Daily metrics
	metrics := NewMetricHandler(d.Metrics)
	api.HandleFunc("/users/{userId}/weeks/{weekId}/days/{day}/metrics", metrics.GetMetrics).Methods("GET")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/days/{day}/metrics/{counter}/increment", metrics.Increment).Methods("POST")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/days/{day}/metrics/{counter}/decrement", metrics.Decrement).Methods("POST")

	// Weekly overview and report
	overviews := NewOverviewHandler(d.Overviews)
	api.HandleFunc("/users/{userId}/weeks/{weekId}/overview", overviews.GetOverview).Methods("GET")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/overview/remarks", overviews.PutRemarks).Methods("PUT")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/overview/analyze", overviews.Analyze).Methods("POST")
	api.HandleFunc("/users/{userId}/weeks/{weekId}/report", overviews.Report).Methods("GET")

	// Backup and wipe
	backups := NewBackupHandler(d.Backup)
	api.HandleFunc("/users/{userId}/backup", backups.Export).Methods("GET")
	api.HandleFunc("/users/{userId}/backup/restore", backups.Restore).Methods("POST")
	api.HandleFunc("/users/{userId}/data", backups.ClearData).Methods("DELETE")

	return root
}
