package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/beans"
	"github.com/gogpu/beans/spirv"
)

func newDisCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dis file.spv|file.bsl",
		Short: "Disassemble a SPIR-V binary",
		Long: `Dis prints a readable listing of a SPIR-V binary.
A .bsl input is compiled first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if filepath.Ext(args[0]) == ".bsl" {
				data, err = beans.Compile(data, beans.Options{Limits: a.cfg.Limits})
				if err != nil {
					a.report(args[0], err)
					return errReported
				}
			}
			return spirv.Disassemble(a.stdout, data)
		},
	}
}
