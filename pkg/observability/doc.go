/*
Package observability provides monitoring for the soundboard compiler.

It turns compiler hooks into Prometheus metrics and structured log lines, and
lets several hook sets observe the same compilation.
*/
package observability
