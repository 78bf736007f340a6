package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

func (cli *commandLine) listar(recurso string) error {
	ctx := context.Background()

	table := tablewriter.NewWriter(cli.out)
	switch recurso {
	case "estudiantes":
		rows, err := cli.estudiantes.List(ctx)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"ID", "Nombre", "Apellido", "Cédula", "Ciudad", "Teléfono", "Email"})
		for _, row := range rows {
			table.Append([]string{
				strconv.Itoa(row.ID), row.Nombre, row.Apellido, row.Cedula, row.Ciudad, row.Telefono, row.Email,
			})
		}
	case "materias":
		rows, err := cli.materias.List(ctx)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"ID", "Nombre", "Código", "Descripción", "Créditos"})
		for _, row := range rows {
			table.Append([]string{
				strconv.Itoa(row.ID), row.Nombre, row.Codigo, row.Descripcion, row.Creditos,
			})
		}
	case "matriculas":
		rows, err := cli.matriculas.List(ctx)
		if err != nil {
			return err
		}
		table.SetHeader([]string{"ID", "Código", "Estudiante", "Materia", "Descripción"})
		for _, row := range rows {
			table.Append([]string{
				strconv.Itoa(row.ID),
				strconv.Itoa(row.Codigo),
				fmt.Sprintf("%s %s", row.Estudiante.Nombre, row.Estudiante.Apellido),
				fmt.Sprintf("%s (%s)", row.Materia.Nombre, row.Materia.Codigo),
				row.Descripcion,
			})
		}
	default:
		cli.printUsage()
		return errHelp
	}
	table.Render()
	return nil
}
