package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tordrt/entitysql/internal/config"
)

const exampleEntities = `entities:
  # Registered accounts.
  - name: User
    table: users
    doc: ["Registered accounts."]
    fields:
      - {name: id, type: int64, primary_key: true}
      - {name: name, type: string}
      - {name: email, type: string, sql_type: "VARCHAR(320)", comment: "login address"}
      - {name: created_at, type: time.Time}
`

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config and entity declaration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfg := config.Default()
	b, err := cfg.Marshal()
	if err != nil {
		return err
	}

	files := []struct {
		name string
		body []byte
	}{
		{config.DefaultPath, b},
		{cfg.Source, []byte(exampleEntities)},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeNew(path, f.body, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}

func writeNew(path string, body []byte, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(body); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
