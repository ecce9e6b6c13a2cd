/*
Package cache implements the compiled artifact cache.

It serializes work on a key across goroutines with reference-counted local
mutexes, and across replicas with an optional distributed lock, so a source
is compiled once no matter how many requests for it arrive together.
*/
package cache
