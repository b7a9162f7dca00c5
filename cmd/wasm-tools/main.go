package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-tools/errors"
	"github.com/wippyai/wasm-tools/wasm"
	"github.com/wippyai/wasm-tools/wat"
)

var (
	flagFeatures string
	flagVerbose  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wasm-tools",
		Short:         "Inspect, lex, and validate WebAssembly modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logger, err := zap.NewDevelopment()
				if err == nil {
					wasm.SetLogger(logger)
				}
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&flagFeatures, "features", "all",
		"comma-separated feature list (mvp, all, or names like simd,threads)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(validateCmd(), sectionsCmd(), lexCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wasm-tools: %v\n", err)
		os.Exit(1)
	}
}

func parseFeatures() (wasm.Features, error) {
	features, unknown := wasm.ParseFeatures(flagFeatures)
	if len(unknown) > 0 {
		return 0, fmt.Errorf("unknown features: %v", unknown)
	}
	return features, nil
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.wasm>",
		Short: "Decode and validate a binary module, printing every diagnostic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := parseFeatures()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			sink := errors.NewSink()
			m := wasm.DecodeModule(data, features, sink)
			wasm.ValidateModule(m, features, sink)

			for _, e := range sink.Errors() {
				fmt.Printf("%s: %s\n", args[0], e)
			}
			if !sink.Empty() {
				return fmt.Errorf("%d errors", sink.Len())
			}
			fmt.Printf("%s: ok (%d functions, features: %s)\n", args[0], len(m.Funcs), features)
			return nil
		},
	}
}

func sectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections <file.wasm>",
		Short: "List section headers without decoding their payloads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			sink := errors.NewSink()
			it := wasm.Sections(data, sink)
			for {
				sec, ok := it.Next()
				if !ok {
					break
				}
				name := sec.ID.String()
				if sec.ID == wasm.SectionCustom && sec.Name != "" {
					name = fmt.Sprintf("custom %q", sec.Name)
				}
				fmt.Printf("%08x  %-16s %d bytes\n", sec.Loc.Begin, name, len(sec.Payload))
			}
			for _, e := range sink.Errors() {
				fmt.Printf("%s: %s\n", args[0], e)
			}
			if !sink.Empty() {
				return fmt.Errorf("%d errors", sink.Len())
			}
			return nil
		},
	}
}

func lexCmd() *cobra.Command {
	var keepTrivia bool
	cmd := &cobra.Command{
		Use:   "lex <file.wat>",
		Short: "Tokenize a text format file and dump the token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			lexer := wat.NewLexer(src)
			invalid := 0
			for {
				var tok wat.Token
				if keepTrivia {
					tok = lexer.Lex()
				} else {
					tok = lexer.LexNoWhitespace()
				}
				if tok.Type == wat.TokenEof {
					break
				}
				switch tok.Type {
				case wat.TokenInvalidChar, wat.TokenInvalidText,
					wat.TokenInvalidBlockComment, wat.TokenInvalidLineComment:
					invalid++
				}
				fmt.Printf("%08x  %-16s %q\n", tok.Loc.Begin, tok.Type, tok.Span(src))
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid tokens", invalid)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepTrivia, "trivia", false, "include whitespace and comment tokens")
	return cmd
}
