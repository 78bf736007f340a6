package main

import (
	"log"
	"os"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/auth"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/matricula"
	"github.com/matriculapp/academico/core/session"
	"github.com/matriculapp/academico/gateway"
	"github.com/matriculapp/academico/storage/localstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up the shared session and gateway
	storage, err := localstore.NewFileStorage(core.Conf.GetString("sessionDir"))
	errAndDie(err)

	sessions := session.NewStore(storage)
	sessions.Initialize()

	client := gateway.NewClient(sessions, core.Conf.GetDuration("requestTimeout"))
	baseURL := core.Conf.GetString("apiBaseURL")

	// start CLI
	cli := commandLine{
		out:         os.Stdout,
		sessions:    sessions,
		authSvc:     auth.NewService(client, baseURL, sessions),
		estudiantes: estudiante.NewService(client, baseURL),
		materias:    materia.NewService(client, baseURL),
		matriculas:  matricula.NewService(client, baseURL),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
