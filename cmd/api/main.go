package main

import (
	"log"

	"github.com/daniilk04/tracker/internal/api"
	"github.com/daniilk04/tracker/internal/repository"
	"github.com/daniilk04/tracker/internal/service"
	"github.com/daniilk04/tracker/pkg/cleanup"
	"github.com/daniilk04/tracker/pkg/config"
	jwtservice "github.com/daniilk04/tracker/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	serv := api.New(&api.ServicesList{
		UserService:      service.NewUserService(repository.NewUsersRepo(&dbCfg)),
		TasksService:     service.NewTasksService(repository.NewTasksRepo(&dbCfg)),
		HabitsService:    service.NewHabitsService(habitsRepo),
		HabitLogsService: service.NewHabitLogsService(habitsRepo, repository.NewHabitLogsRepo(&dbCfg)),
		JwtService:       jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	defer cleanup.CleanUp()
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
