// Package file reads soundboard sources from disk and writes compiled
// programs next to them.
//
// Sources are YAML documents (JSON works too, as a subset of YAML). Top-level
// keys are the menu digits 1-9 plus the settings "wait" and "help_duration".
// A digit maps to a string (a message), a mapping of further digits (a menu,
// optionally documented with "_"), or a tagged message:
//
//	1:
//	  _: Greetings
//	  1: Hello there.
//	  2: {say_team: Rotate to B}
//	  3: {text: One line only, lines: 1}
//	  4: {fill: F2, channel: team}
//
// Anchors, aliases and "<<" merge keys can be used to share menus. Top-level
// keys starting with "x-" are ignored, which makes them a home for anchors:
//
//	x-callouts: &callouts
//	  1: Incoming!
//	2:
//	  <<: *callouts
//	  3: Spy around here!
package file
