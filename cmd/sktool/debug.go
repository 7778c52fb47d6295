package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akhildatla/sketch/internal/config"
	"github.com/akhildatla/sketch/pkg/repl"
)

func (a *app) debugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "debug [file.sk]",
		Short: "Step through a sketch interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := repl.New(repl.WithFs(a.fs), repl.WithLogger(a.log))
			if len(args) == 1 {
				if err := r.Load(args[0]); err != nil {
					return err
				}
			}
			r.Start(a.in, a.out)
			return nil
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or print the viewer configuration",
		// config init skips loading the current file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a commented config template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteTemplate(a.fs, path, force); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return config.Encode(a.out, a.cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
