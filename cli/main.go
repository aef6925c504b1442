/*
 * NS
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Command ns runs a single NS source file (§6): `ns file.ns` evaluates
// it and exits with the integer part of its top-level Number result
// (0 on any other normal termination), `ns -ast file.ns` prints its
// parsed AST instead of running it.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ns/config"
	"ns/interp"
	"ns/parser"
	"ns/stdlib"
	"ns/util"
)

func main() {
	var showAST bool

	root := &cobra.Command{
		Use:     "ns <file>",
		Short:   fmt.Sprintf("NS %v - a small imperative scripting language", config.ProductVersion),
		Version: config.ProductVersion,
		Args:    cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], showAST)
		},
	}
	root.Flags().BoolVar(&showAST, "ast", false, "print the parsed AST instead of running the file")

	// pflag reads a single-dash `-ast` as the shorthand cluster -a -s -t;
	// rewrite it to the long form so `ns -ast file.ns` works.
	for i, arg := range os.Args[1:] {
		if arg == "--" {
			break
		}
		if arg == "-ast" {
			os.Args[i+1] = "--ast"
		}
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(path string, showAST bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		os.Exit(1)
		return err
	}

	src := parser.NewSource(path, string(data))

	if showAST {
		root, err := parser.Parse(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
			return nil
		}
		fmt.Print(parser.PrettyPrint(root))
		return nil
	}

	p := interp.NewProvider(path,
		&util.FileImportLocator{Root: filepath.Dir(path)},
		util.NewStdOutLogger())
	p.InstallBuiltins = stdlib.Install

	result, err := interp.Run(p, path, src.Body)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
		return nil
	}

	os.Exit(exitCode(result))
	return nil
}

/*
exitCode derives the process exit status from a program's top-level
result (§6): the integer part of a Number, 0 for anything else.
*/
func exitCode(v *interp.Value) int {
	if f, ok := interp.Num(v); ok {
		return int(math.Trunc(f))
	}
	return 0
}
