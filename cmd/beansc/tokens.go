package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/beans/bsl"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens file.bsl",
		Short: "Print the tokens of a BSL source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tokens, lexErr := bsl.NewLexer(string(source)).Tokenize()

			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, tok := range tokens {
				fmt.Fprintf(w, "%d:%d\t%s\t%s\n", tok.Pos.Line, tok.Pos.Column, tok.Kind, tokenValue(tok))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if lexErr != nil {
				a.report(args[0], lexErr)
				return errReported
			}
			return nil
		},
	}
}

func tokenValue(tok bsl.Token) string {
	switch tok.Kind {
	case bsl.TokenSym:
		return tok.Text
	case bsl.TokenString:
		return strconv.Quote(tok.Text)
	case bsl.TokenInteger:
		return strconv.FormatInt(tok.Integer, 10)
	case bsl.TokenNumber:
		return strconv.FormatFloat(float64(tok.Number), 'g', -1, 32)
	}
	return ""
}
