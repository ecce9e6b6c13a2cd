/*
Package domain contains the core domain models of the soundboard compiler.

It defines the menu tree that a soundboard file describes, the paths that
address nodes inside it, and the errors and events raised while compiling.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Soundboard: a root Branch plus the tunables read from the file (wait, help duration).
  - Node: either a Leaf (a chat message) or a Branch (a sub-menu keyed by digits 1-9).
  - Path: the digits pressed from the root to reach a node. It names every generated alias.
  - CompileError: a structural or capacity failure, always tied to the offending path.
*/
package domain
