package main

var opts struct {
	Binary      string `short:"b" long:"binary" description:"Instrumented binary, used to resolve loop addresses to functions and source lines"`
	Csv         bool   `long:"csv" description:"Write output in CSV format"`
	Output      string `short:"o" long:"output" description:"Write output to file"`
	SortKey     string `long:"sort-key" default:"addr" description:"Key to sort rows with: addr, read-mpki or write-mpki"`
	ReverseSort bool   `long:"reverse-sort" description:"Reverse row sorting"`
	NoSort      bool   `long:"no-sort" description:"Don't sort rows"`
	Check       bool   `long:"check" description:"Check that this system supports hardware loop profiling and exit"`
	Verbose     bool   `short:"V" long:"verbose" description:"Show verbose debug information"`
	Version     bool   `short:"v" long:"version" description:"Show version information"`
	Help        bool   `short:"h" long:"help" description:"Show this help message"`
}
