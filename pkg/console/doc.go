/*
Package console provides the primitives of the Source engine console-script
format targeted by the soundboard compiler.

The format has no variables and no arguments. A program is a list of lines,
each an alias definition, a key binding or a raw command. Every command body
is bounded by a fixed length ceiling, and chat lines by a fixed width. The
Builder enforces those limits: alias and bind bodies that do not fit are an
error, never silently truncated. Only Echo degrades gracefully, because it is
a display preview rather than part of the menu's control flow.
*/
package console
