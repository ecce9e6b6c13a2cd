/*
Package dsl provides a fluent builder for constructing soundboards in Go.

It is an alternative to soundboard files when menus are generated by a
program or assembled in tests.

Example usage:

	package main

	import (
		"context"
		"os"

		"github.com/aretw0/soundboard"
		"github.com/aretw0/soundboard/pkg/dsl"
	)

	func main() {
		b := dsl.New().Wait(576)

		b.Say(1, "Hello there.")

		taunts := b.Menu(2).Doc("Taunts")
		taunts.Say(1, "Nice shot!")
		taunts.Team(2, "Rotate to B")
		taunts.Message(3, "F2").Fill(1)

		sb, err := b.Build()
		if err != nil {
			panic(err)
		}
		res, err := soundboard.New().Compile(context.Background(), sb)
		if err != nil {
			panic(err)
		}
		_, _ = res.Program.WriteTo(os.Stdout)
	}
*/
package dsl
