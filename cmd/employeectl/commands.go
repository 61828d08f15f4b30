package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ogurasousui/codex-employee-directory/internal/client"
	"github.com/ogurasousui/codex-employee-directory/internal/core/employee"
)

const defaultServerURL = "http://localhost:3000"

type options struct {
	server  string
	timeout time.Duration
	output  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "employeectl",
		Short:        "Command line client for the employee directory API",
		SilenceUsage: true,
	}

	serverDefault := defaultServerURL
	if env := os.Getenv("EMPLOYEES_URL"); env != "" {
		serverDefault = env
	}
	root.PersistentFlags().StringVar(&opts.server, "server", serverDefault, "base URL of the employee directory API (EMPLOYEES_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table or json")

	root.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
	)
	return root
}

func (o *options) client() (*client.Client, error) {
	return client.New(o.server, client.WithTimeout(o.timeout))
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all employees",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			employees, err := c.GetEmployees(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), employees)
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			found, err := c.GetEmployee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if found == nil {
				return fmt.Errorf("employee %s not found", args[0])
			}
			return opts.print(cmd.OutOrStdout(), []employee.Employee{*found})
		},
	}
}

func bindInputFlags(cmd *cobra.Command, in *client.EmployeeInput) {
	flags := cmd.Flags()
	flags.StringVar(&in.FirstName, "first-name", "", "first name")
	flags.StringVar(&in.LastName, "last-name", "", "last name")
	flags.StringVar(&in.HireDate, "hire-date", "", "hire date (YYYY-MM-DD)")
	flags.StringVar(&in.Role, "role", "", "role: CEO, VP, MANAGER or LACKEY")
	flags.StringVar(&in.FavoriteJoke, "joke", "", "favorite joke")
	flags.StringVar(&in.FavoriteQuote, "quote", "", "favorite quote")
}

func newCreateCmd(opts *options) *cobra.Command {
	in := &client.EmployeeInput{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			created, err := c.CreateEmployee(cmd.Context(), *in)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), []employee.Employee{*created})
		},
	}
	bindInputFlags(cmd, in)
	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	in := &client.EmployeeInput{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			updated, err := c.UpdateEmployee(cmd.Context(), args[0], *in)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), []employee.Employee{{
				ID:            args[0],
				FirstName:     updated.FirstName,
				LastName:      updated.LastName,
				HireDate:      updated.HireDate,
				Role:          updated.Role,
				FavoriteJoke:  updated.FavoriteJoke,
				FavoriteQuote: updated.FavoriteQuote,
			}})
		},
	}
	bindInputFlags(cmd, in)
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete an employee",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			deleted, err := c.DeleteEmployee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if deleted == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing deleted")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleted)
			return nil
		},
	}
}

func (o *options) print(w io.Writer, employees []employee.Employee) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(employees)
	case "table", "":
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"ID", "First name", "Last name", "Hire date", "Role", "Favorite joke", "Favorite quote"})
		table.SetAutoWrapText(false)
		for _, e := range employees {
			table.Append([]string{e.ID, e.FirstName, e.LastName, e.HireDate, string(e.Role), e.FavoriteJoke, e.FavoriteQuote})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", o.output)
	}
}
