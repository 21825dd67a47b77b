package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daniilk04/tracker/internal/service"
)

type Server struct {
	mx            *chi.Mux
	userService   service.UserServiceI
	tasksService  service.TasksServiceI
	habitsService service.HabitsServiceI
	logsService   service.HabitLogsServiceI
	jwtService    JWTServiceI
}

type ServicesList struct {
	UserService      service.UserServiceI
	TasksService     service.TasksServiceI
	HabitsService    service.HabitsServiceI
	HabitLogsService service.HabitLogsServiceI
	JwtService       JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:            chi.NewMux(),
		userService:   servicesOptions.UserService,
		tasksService:  servicesOptions.TasksService,
		habitsService: servicesOptions.HabitsService,
		logsService:   servicesOptions.HabitLogsService,
		jwtService:    servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/dashboard", s.Dashboard)
			r.Delete("/account", s.DeleteAccount)
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.GetTasks)
				r.Post("/", s.CreateTask)
				r.Get("/{slug}", s.GetTask)
				r.Patch("/{slug}", s.UpdateTask)
			})
			r.Route("/habits", func(r chi.Router) {
				r.Get("/", s.GetHabits)
				r.Post("/", s.CreateHabit)
				r.Get("/{slug}", s.GetHabitHistory)
				r.Delete("/{slug}", s.DeleteHabit)
				r.Patch("/{slug}/active", s.SetHabitActive)
				r.Post("/{slug}/done", s.MarkHabitDone)
			})
		})
	})
}

func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
