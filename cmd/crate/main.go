// Command crate is a command line client for CrateDB clusters. It
// speaks the HTTP endpoint directly, so it works against any node
// without extra drivers.
package main

func main() {
	Execute()
}
