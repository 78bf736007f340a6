package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/matriculapp/academico/core/auth"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/matricula"
	"github.com/matriculapp/academico/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out         io.Writer
	sessions    *session.Store
	authSvc     *auth.Service
	estudiantes *estudiante.Service
	materias    *materia.Service
	matriculas  *matricula.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                       - iniciar sesión; la contraseña se pide a continuación")
	fmt.Fprintln(cli.out, "  logout                                   - cerrar la sesión guardada")
	fmt.Fprintln(cli.out, "  whoami                                   - mostrar el usuario de la sesión actual")
	fmt.Fprintln(cli.out, "  listar estudiantes|materias|matriculas   - listar los registros del backend")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The operator's email. The password will be prompted next.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Contraseña:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	case "listar":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.listar(args[2])
	default:
		cli.printUsage()
		return errHelp
	}
}
