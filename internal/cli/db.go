package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/allot/source"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Move plan records between YAML files and PostgreSQL",
	}

	cmd.AddCommand(newDBImportCmd())
	cmd.AddCommand(newDBExportCmd())

	return cmd
}

func newDBImportCmd() *cobra.Command {
	var input, databaseURL string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert people and tasks from a YAML plan file into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return errors.New("--input is required")
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read plan file: %w", err)
			}
			doc, err := source.ParseYAML(data)
			if err != nil {
				return err
			}

			pg, err := source.Open(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.UpsertPeople(cmd.Context(), doc.People); err != nil {
				return err
			}
			if err := pg.UpsertTasks(cmd.Context(), doc.Tasks); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d people and %d tasks\n", len(doc.People), len(doc.Tasks))

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML plan file")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")

	return cmd
}

func newDBExportCmd() *cobra.Command {
	var (
		databaseURL string
		projects    []string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the PostgreSQL people and tasks as a YAML plan file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := source.Open(cmd.Context(), databaseURL, source.WithProjects(projects...))
			if err != nil {
				return err
			}
			defer pg.Close()

			people, err := pg.ListPeople(cmd.Context())
			if err != nil {
				return err
			}
			tasks, err := pg.ListTasks(cmd.Context())
			if err != nil {
				return err
			}

			data, err := source.MarshalYAML(people, tasks)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (env: DATABASE_URL)")
	cmd.Flags().StringSliceVar(&projects, "project", nil, "Only export tasks of these project IDs")

	return cmd
}
