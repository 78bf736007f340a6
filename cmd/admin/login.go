package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/matriculapp/academico/core/auth"
)

func (cli *commandLine) login(email, pwd string) error {
	ctx := context.Background()
	if err := cli.authSvc.Login(ctx, auth.Credentials{Email: email, Password: pwd}); err != nil {
		return err
	}
	usr := cli.sessions.User()
	color.New(color.FgGreen).Fprintf(cli.out, "Sesión iniciada como %s %s <%s>\n", usr.Nombre, usr.Apellido, usr.Email)
	return nil
}

func (cli *commandLine) logout() error {
	if err := cli.authSvc.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Sesión cerrada")
	return nil
}

func (cli *commandLine) whoami() error {
	if !cli.sessions.IsAuthenticated() {
		color.New(color.FgYellow).Fprintln(cli.out, "No hay sesión activa")
		return nil
	}
	usr := cli.sessions.User()
	fmt.Fprintf(cli.out, "%s %s <%s>\n", usr.Nombre, usr.Apellido, usr.Email)
	return nil
}
