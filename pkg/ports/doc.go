/*
Package ports defines the driven ports (interfaces) of the soundboard compiler.

These interfaces decouple compilation from where compiled programs are kept,
so the same service can cache artifacts in memory, on disk or in Redis.

# Key Interfaces

  - ArtifactStore: keeps compiled programs, keyed by a digest of their source.
  - Locker: serializes compilation of the same source across replicas.
*/
package ports
