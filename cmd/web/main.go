package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/auth"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/matricula"
	"github.com/matriculapp/academico/core/session"
	"github.com/matriculapp/academico/gateway"
	logsvc "github.com/matriculapp/academico/services/logger"
	"github.com/matriculapp/academico/storage/localstore"
	webui "github.com/matriculapp/academico/web"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
	)
	logger.Enable(!core.Conf.GetBool("debug"))

	storage, err := localstore.NewFileStorage(core.Conf.GetString("sessionDir"))
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session storage: %v", err), err)
	}

	sessions := session.NewStore(storage)
	sessions.Subscribe(func(st session.State) {
		if st.IsAuthenticated() {
			logger.Info(fmt.Sprintf("session opened for %s", st.User.Email))
			return
		}
		logger.Info("session closed")
	})
	sessions.Initialize()

	client := gateway.NewClient(sessions, core.Conf.GetDuration("requestTimeout"))
	baseURL := core.Conf.GetString("apiBaseURL")

	// set up services
	authSvc := auth.NewService(client, baseURL, sessions)
	estSvc := estudiante.NewService(client, baseURL)
	matSvc := materia.NewService(client, baseURL)
	enrSvc := matricula.NewService(client, baseURL)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : %s", core.Conf.GetString("appName")))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	estudiantes := estudiante.NewModule(estSvc, validate, translator)
	materias := materia.NewModule(matSvc, validate, translator)
	matriculas := matricula.NewModule(enrSvc, estSvc, matSvc, validate, translator)

	// =========================================================================
	// Start Web Service

	server := webui.NewServer(
		webui.ServerDeps{
			Addr:        core.Conf.GetString("server.addr"),
			Logger:      logger,
			Sessions:    sessions,
			AuthSvc:     authSvc,
			Estudiantes: estudiantes,
			Materias:    materias,
			Matriculas:  matriculas,
			Validate:    validate,
			Translator:  translator,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		shutdownServer(server, logger)

	case <-server.ShutdownSignal():
		logger.Info("integrity issue: Start shutdown...")
		shutdownServer(server, logger)
	}
}

func shutdownServer(server webui.Server, logger core.Logger) {
	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
