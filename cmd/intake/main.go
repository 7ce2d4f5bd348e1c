// Command intake runs the project intake wizard as an HTTP API, an MCP
// server or an interactive terminal session.
package main

func main() {
	Execute()
}
