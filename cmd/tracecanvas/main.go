package main

import "github.com/OpenTraceLab/TraceCanvas/cmd/tracecanvas/cmd"

func main() {
	cmd.Execute()
}
