/*
Package soundboard compiles a tree of chat messages into a Source engine
console script that plays them from the numpad.

A soundboard is a menu: digits 1-9 map either to a message or to a nested
menu. The compiled program binds the numpad so that typing a digit sequence
walks the menu, echoing help for the current level, and sends the selected
message as one or more chat lines. Digit 0 always cancels and returns to the
top level.

# Usage

Build the tree in code with package dsl, or load it from a YAML file:

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/soundboard"
	)

	func main() {
		c, err := soundboard.New()
		if err != nil {
			log.Fatal(err)
		}
		// Writes greetings.cfg next to the source.
		out, _, err := c.CompileFile(context.Background(), "greetings.yaml", "")
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", out)
	}

Compilation is deterministic and fails on the first problem; no partial
program is ever written. Use Validate to list every problem at once.

# Adapters

  - pkg/adapters/file: YAML loader, atomic writer, on-disk artifact store.
  - pkg/adapters/http: compile service with an artifact cache.
  - pkg/adapters/redis, pkg/adapters/memory: artifact stores and locks.
  - pkg/adapters/mcp: compile, validate and graph tools for agents.
*/
package soundboard
